// Package summary provides the pure numeric rolling-window helpers behind
// the core's compute_summary collaborator (§6): averaging, peak-finding,
// and the 30-sample rolling fourth-power mean used for normalized power.
// Grounded on analyzer.go's average/maxValue/normalizedPower helpers,
// generalised from fit.RecordMsg/fit.LapMsg sample slices to plain
// []float64 so this package stays free of any dependency on the core's own
// message types — the core's DefaultComputer (summarize.go) maps its
// domain types down to []float64 and calls these.
package summary

import "math"

// Average returns the mean of values, skipping any non-finite entries, or 0
// if none remain.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	count := 0
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		total += v
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// MaxValue returns the largest finite entry in values, or 0 if none exist.
func MaxValue(values []float64) float64 {
	max := 0.0
	found := false
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		if !found || v > max {
			max = v
			found = true
		}
	}
	if !found {
		return 0
	}
	return max
}

// NormalizedPower implements the 30-sample rolling-average, fourth-power
// mean pattern for power data, falling back to a plain average on short
// series.
func NormalizedPower(powerSamples []float64) float64 {
	if len(powerSamples) == 0 {
		return 0
	}
	if len(powerSamples) < 30 {
		return Average(powerSamples)
	}

	window := 30
	sum := 0.0
	for i := 0; i < window; i++ {
		sum += powerSamples[i]
	}

	fourthPowerTotal := 0.0
	count := 0
	for i := window - 1; i < len(powerSamples); i++ {
		if i >= window {
			sum += powerSamples[i] - powerSamples[i-window]
		}
		rolling := sum / float64(window)
		fourthPowerTotal += math.Pow(rolling, 4)
		count++
	}
	if count == 0 {
		return Average(powerSamples)
	}
	return math.Sqrt(math.Sqrt(fourthPowerTotal / float64(count)))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
