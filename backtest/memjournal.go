package backtest

import "github.com/quantfall/tradesim/journal"

// memJournal keeps records in memory for runs that do not persist a file.
type memJournal struct {
	records []journal.TradeRecord
}

func newMemJournal() *memJournal { return &memJournal{} }

func (m *memJournal) Record(t journal.TradeRecord) error {
	m.records = append(m.records, t)
	return nil
}

func (m *memJournal) Ref() string  { return "memory" }
func (m *memJournal) Close() error { return nil }
