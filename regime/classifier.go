package regime

// Classifier labels a price series by SMA crossover: with the short SMA
// above the long and price above the short, the market is a bull; the
// mirror case is a bear; everything else is sideways.
type Classifier struct {
	shortWindow int
	longWindow  int
}

// NewClassifier uses the conventional 50/200 windows when given zeros.
func NewClassifier(shortWindow, longWindow int) *Classifier {
	if shortWindow <= 0 {
		shortWindow = 50
	}
	if longWindow <= 0 {
		longWindow = 200
	}
	return &Classifier{shortWindow: shortWindow, longWindow: longWindow}
}

// Classify labels the state at the end of the close-price series. Series
// shorter than the long window cannot be classified and report Unknown.
func (c *Classifier) Classify(closes []float64) string {
	if len(closes) < c.longWindow {
		return Unknown
	}

	short := trailingMean(closes, c.shortWindow)
	long := trailingMean(closes, c.longWindow)
	price := closes[len(closes)-1]

	switch {
	case short > long && price > short:
		return Bull
	case short < long && price < short:
		return Bear
	default:
		return Sideways
	}
}

func trailingMean(xs []float64, window int) float64 {
	var sum float64
	for _, x := range xs[len(xs)-window:] {
		sum += x
	}
	return sum / float64(window)
}
