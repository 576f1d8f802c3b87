package backtest

import (
	"fmt"
	"os"
	"strings"
)

// RenderReport formats a run summary as a plain-text report.
func RenderReport(sum Summary) string {
	if sum.Status != StatusCompleted {
		return "Backtest did not complete successfully. No report generated.\n"
	}

	var b strings.Builder
	b.WriteString("--- Backtest Report ---\n\n")
	fmt.Fprintf(&b, "Run ID:                %s\n", sum.RunID)
	fmt.Fprintf(&b, "Strategy:              %s\n", sum.StrategyName)
	fmt.Fprintf(&b, "Symbol:                %s\n", sum.Symbol)
	fmt.Fprintf(&b, "Duration:              %s\n\n", sum.Duration)

	fmt.Fprintf(&b, "Initial Balance:       $%.2f\n", sum.InitialBalanceUSD)
	fmt.Fprintf(&b, "Final Balance:         $%.2f\n", sum.FinalBalanceUSD)
	fmt.Fprintf(&b, "Final Portfolio Value: $%.2f\n", sum.FinalPortfolioValueUSD)
	fmt.Fprintf(&b, "Total PnL:             $%.2f\n\n", sum.TotalPnLUSD)

	fmt.Fprintf(&b, "Steps:                 %d\n", sum.Steps)
	fmt.Fprintf(&b, "Buys / Sells:          %d / %d\n", sum.Buys, sum.Sells)
	fmt.Fprintf(&b, "Rejected:              %d\n", sum.Rejected)
	fmt.Fprintf(&b, "No-op Sells:           %d\n", sum.NoOpSells)
	fmt.Fprintf(&b, "Invalid Signals:       %d\n\n", sum.Invalid)

	fmt.Fprintf(&b, "Trade Journal:         %s\n", sum.JournalRef)
	b.WriteString("\n--- End of Report ---\n")
	return b.String()
}

// SaveReport writes the rendered report to path.
func SaveReport(sum Summary, path string) error {
	if err := os.WriteFile(path, []byte(RenderReport(sum)), 0o644); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}
