package regime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quantfall/tradesim/market"
)

// CandleSource is the slice of the data feed the provider needs.
type CandleSource interface {
	FetchHistorical(ctx context.Context, symbol, interval string, limit int) ([]market.Candle, error)
}

// HistoricalProvider fetches candles for a span and runs the classifier
// over each growing prefix, yielding one label per time step.
type HistoricalProvider struct {
	source     CandleSource
	classifier *Classifier
}

func NewHistoricalProvider(source CandleSource, classifier *Classifier) *HistoricalProvider {
	if classifier == nil {
		classifier = NewClassifier(0, 0)
	}
	return &HistoricalProvider{source: source, classifier: classifier}
}

// FetchLabels returns a label for every candle inside [start, end]. Candles
// before start still feed the classifier so early steps have history behind
// them.
func (p *HistoricalProvider) FetchLabels(ctx context.Context, symbol string, start, end time.Time, interval string) ([]Label, error) {
	candles, err := p.source.FetchHistorical(ctx, symbol, interval, 0)
	if err != nil {
		return nil, fmt.Errorf("regime: fetch %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("regime: no candles for %s", symbol)
	}

	market.SortByTime(candles)

	var labels []Label
	closes := make([]float64, 0, len(candles))
	for _, c := range candles {
		closes = append(closes, c.Close)
		if c.Time.Before(start) || c.Time.After(end) {
			continue
		}
		labels = append(labels, Label{Time: c.Time, Regime: p.classifier.Classify(closes)})
	}

	slog.Debug("regime labels computed", "symbol", symbol, "labels", len(labels))
	return labels, nil
}
