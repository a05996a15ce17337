package volume

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"stylevolume/internal/models"
)

// HistogramBins is one bin per isovalue
const HistogramBins = 256

// Histogram counts samples per isovalue, normalizes by the fullest bin and
// applies log2(1+h) so sparse intensities stay visible. Every bin is in [0,1].
func Histogram(v *models.VolumeField) [HistogramBins]float64 {
	var out [HistogramBins]float64
	if v == nil || len(v.Data) == 0 {
		return out
	}

	counts := Counts(v)
	floats.Scale(1/floats.Max(counts), counts)
	for i, c := range counts {
		out[i] = math.Log2(c + 1)
	}
	return out
}

// Counts returns the raw number of samples per isovalue. Cuts are split
// evenly across the available cores and the partial counts summed.
func Counts(v *models.VolumeField) []float64 {
	counts := make([]float64, HistogramBins)
	if v == nil || len(v.Data) == 0 {
		return counts
	}

	numCores := min(runtime.NumCPU(), v.Depth)
	cutsPerCore := (v.Depth + numCores - 1) / numCores
	cut := v.Width * v.Height
	partial := make([][]float64, numCores)

	var wg sync.WaitGroup
	for c := 0; c < numCores; c++ {
		wg.Add(1)

		go func(coreID int) {
			defer wg.Done()

			startCut := coreID * cutsPerCore
			endCut := min((coreID+1)*cutsPerCore, v.Depth)
			local := make([]float64, HistogramBins)
			for _, s := range v.Data[min(startCut*cut, len(v.Data)):min(endCut*cut, len(v.Data))] {
				idx := min(max(int(s*255), 0), HistogramBins-1)
				local[idx]++
			}
			partial[coreID] = local
		}(c)
	}
	wg.Wait()

	for _, p := range partial {
		floats.Add(counts, p)
	}
	return counts
}

// Range returns the smallest and largest normalized sample.
func Range(v *models.VolumeField) (lo, hi float64) {
	if v == nil || len(v.Data) == 0 {
		return 0, 0
	}
	samples := make([]float64, len(v.Data))
	for i, s := range v.Data {
		samples[i] = float64(s)
	}
	return floats.Min(samples), floats.Max(samples)
}

// Statistics returns the mean and standard deviation of the samples at
// isovalue resolution, weighting each isovalue by its count.
func Statistics(v *models.VolumeField) (mean, std float64) {
	if v == nil || len(v.Data) == 0 {
		return 0, 0
	}
	iso := make([]float64, HistogramBins)
	for i := range iso {
		iso[i] = float64(i) / (HistogramBins - 1)
	}
	return stat.MeanStdDev(iso, Counts(v))
}
