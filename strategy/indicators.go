package strategy

// Shared technical indicators, computed over full price series the way the
// strategies consume them (latest value plus one step of history).

// EMASeries computes an exponential moving average over prices with the
// standard smoothing factor 2/(span+1).
func EMASeries(prices []float64, span int) []float64 {
	if len(prices) == 0 || span <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = alpha*prices[i] + (1-alpha)*out[i-1]
	}
	return out
}

// SMA returns the simple moving average of the trailing window ending at the
// last element, or 0 when there is not enough data.
func SMA(prices []float64, window int) float64 {
	if window <= 0 || len(prices) < window {
		return 0
	}
	var sum float64
	for _, p := range prices[len(prices)-window:] {
		sum += p
	}
	return sum / float64(window)
}

// RSI computes the Relative Strength Index of the trailing window using
// simple averages of gains and losses. Returns 50 (neutral) when there is
// not enough movement to measure.
func RSI(prices []float64, window int) float64 {
	if window <= 0 || len(prices) < window+1 {
		return 50
	}

	var gain, loss float64
	start := len(prices) - window
	for i := start; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	if gain+loss == 0 {
		return 50
	}
	if loss == 0 {
		return 100
	}

	rs := (gain / float64(window)) / (loss / float64(window))
	return 100 - 100/(1+rs)
}

// rollingLow returns the minimum over the trailing window.
func rollingLow(lows []float64, window int) float64 {
	if window <= 0 || len(lows) < window {
		return 0
	}
	min := lows[len(lows)-window]
	for _, v := range lows[len(lows)-window:] {
		if v < min {
			min = v
		}
	}
	return min
}

func rollingHigh(highs []float64, window int) float64 {
	if window <= 0 || len(highs) < window {
		return 0
	}
	max := highs[len(highs)-window]
	for _, v := range highs[len(highs)-window:] {
		if v > max {
			max = v
		}
	}
	return max
}
