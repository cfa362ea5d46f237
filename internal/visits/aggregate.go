package visits

import (
	"math"
	"sort"
)

// HistogramBins is the fixed number of equal-width bins.
const HistogramBins = 10

// KPIs are the scalar aggregates over the sequenced table.
type KPIs struct {
	TotalAppointments  int     `json:"total_appointments"`
	Individuals        int     `json:"individuals"`
	MedianAppointments float64 `json:"median_appointments"`
	MaxAppointments    int     `json:"max_appointments"`
}

// HistogramBin covers [Start, End). The last bin also holds the maximum.
type HistogramBin struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
	Mode  bool    `json:"mode"`
}

// Summary is the distribution of appointments per individual.
type Summary struct {
	State     State          `json:"state"`
	KPIs      KPIs           `json:"kpis"`
	Histogram []HistogramBin `json:"histogram"`
}

// FinalOrdinals returns one value per individual: the appointment count
// carried on their terminal row.
func FinalOrdinals(s Sequenced) []int {
	values := make([]int, 0, len(s.Rows))
	for _, row := range s.Rows {
		if row.MaxAppointmentNumber != nil {
			values = append(values, *row.MaxAppointmentNumber)
		}
	}
	return values
}

func Aggregate(s Sequenced) Summary {
	if s.State != StateReady {
		return Summary{State: s.State}
	}
	finals := FinalOrdinals(s)
	median, maxValue := summarizeCounts(finals)
	return Summary{
		State: StateReady,
		KPIs: KPIs{
			TotalAppointments:  len(s.Rows),
			Individuals:        len(finals),
			MedianAppointments: median,
			MaxAppointments:    maxValue,
		},
		Histogram: Histogram(finals, HistogramBins),
	}
}

func summarizeCounts(values []int) (float64, int) {
	if len(values) == 0 {
		return 0, 0
	}
	sorted := append([]int{}, values...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	median := float64(sorted[mid])
	if len(sorted)%2 == 0 {
		median = float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return median, sorted[len(sorted)-1]
}

// Histogram bins values into bins equal-width buckets between their min and
// max. A value's bin is floor((v-min)/width), clamped to the last bin. When
// every value is equal there is a single degenerate bin [min, min]. The mode
// is the first bin with the highest count.
func Histogram(values []int, bins int) []HistogramBin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}
	minValue, maxValue := values[0], values[0]
	for _, v := range values[1:] {
		minValue = min(minValue, v)
		maxValue = max(maxValue, v)
	}

	if minValue == maxValue {
		return []HistogramBin{{
			Start: float64(minValue),
			End:   float64(maxValue),
			Count: len(values),
			Mode:  true,
		}}
	}

	width := float64(maxValue-minValue) / float64(bins)
	result := make([]HistogramBin, bins)
	for i := range result {
		result[i] = HistogramBin{
			Index: i,
			Start: float64(minValue) + float64(i)*width,
			End:   float64(minValue) + float64(i+1)*width,
		}
	}
	result[bins-1].End = float64(maxValue)
	for _, v := range values {
		idx := int(math.Floor(float64(v-minValue) / width))
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		result[idx].Count++
	}

	mode := 0
	for i := range result {
		if result[i].Count > result[mode].Count {
			mode = i
		}
	}
	result[mode].Mode = true
	return result
}
