package pipeline

import (
	"math"
	"sort"

	"app/models"
)

// Column layout of a raw feature row before preprocessing. The numeric
// branch is imputed with the training median then standardized; the
// categorical branch is imputed with a constant then one-hot expanded.
const (
	numericCols     = 5 // day_of_week, month, is_peak_hours, is_morning, is_late_night
	categoricalCols = 3 // item_code, is_weekend, is_holiday
)

// Row is one raw observation handed to the preprocessor. Missing values are
// represented as NaN in either branch.
type Row struct {
	Numeric     [numericCols]float64
	Categorical [categoricalCols]float64
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// RowFromAggregate builds the training row for one daily aggregate. The
// hour-class columns carry the day's class shares.
func RowFromAggregate(a models.DailyAggregate) Row {
	return Row{
		Numeric: [numericCols]float64{
			float64(a.DayOfWeek), float64(a.Month),
			a.PeakHoursShare, a.MorningShare, a.LateNightShare,
		},
		Categorical: [categoricalCols]float64{
			float64(a.ItemCode), boolFeature(a.IsWeekend), boolFeature(a.IsHoliday),
		},
	}
}

// RowFromFeature builds the inference row for a single (item, date, time)
// query. The hour-class columns are 0/1 indicators of the query hour.
func RowFromFeature(f models.FeatureRecord) Row {
	return Row{
		Numeric: [numericCols]float64{
			float64(f.DayOfWeek), float64(f.Month),
			boolFeature(f.IsPeakHours), boolFeature(f.IsMorning), boolFeature(f.IsLateNight),
		},
		Categorical: [categoricalCols]float64{
			float64(f.ItemCode), boolFeature(f.IsWeekend), boolFeature(f.IsHoliday),
		},
	}
}

// Preprocessor holds the fitted preprocessing state: per-column medians,
// standardization statistics and the categorical vocabulary. All statistics
// come from the training split only and are fixed thereafter.
type Preprocessor struct {
	Medians    [numericCols]float64   `json:"medians"`
	Means      [numericCols]float64   `json:"means"`
	Stds       [numericCols]float64   `json:"stds"`
	Categories [categoricalCols][]int `json:"categories"`
	// CatFill replaces a missing categorical value before encoding.
	CatFill int `json:"cat_fill"`
}

// FitPreprocessor learns imputation, scaling and one-hot state from the
// training rows.
func FitPreprocessor(rows []Row) *Preprocessor {
	p := &Preprocessor{CatFill: 0}

	for col := 0; col < numericCols; col++ {
		values := make([]float64, 0, len(rows))
		for _, r := range rows {
			if !math.IsNaN(r.Numeric[col]) {
				values = append(values, r.Numeric[col])
			}
		}
		p.Medians[col] = median(values)

		var sum float64
		for _, r := range rows {
			sum += imputed(r.Numeric[col], p.Medians[col])
		}
		n := float64(len(rows))
		p.Means[col] = sum / n

		var sq float64
		for _, r := range rows {
			d := imputed(r.Numeric[col], p.Medians[col]) - p.Means[col]
			sq += d * d
		}
		p.Stds[col] = math.Sqrt(sq / n)
	}

	for col := 0; col < categoricalCols; col++ {
		seen := make(map[int]struct{})
		for _, r := range rows {
			v := r.Categorical[col]
			if math.IsNaN(v) {
				v = float64(p.CatFill)
			}
			seen[int(v)] = struct{}{}
		}
		cats := make([]int, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Ints(cats)
		p.Categories[col] = cats
	}

	return p
}

// Width is the length of a transformed feature vector.
func (p *Preprocessor) Width() int {
	w := numericCols
	for col := 0; col < categoricalCols; col++ {
		w += len(p.Categories[col])
	}
	return w
}

// Transform maps one raw row to the model's feature space. Categorical
// values unseen at fit time encode as all zeros instead of failing, so
// inference stays robust to items added after deployment.
func (p *Preprocessor) Transform(row Row) []float64 {
	out := make([]float64, 0, p.Width())
	for col := 0; col < numericCols; col++ {
		v := imputed(row.Numeric[col], p.Medians[col])
		if p.Stds[col] > 0 {
			out = append(out, (v-p.Means[col])/p.Stds[col])
		} else {
			out = append(out, 0)
		}
	}
	for col := 0; col < categoricalCols; col++ {
		v := row.Categorical[col]
		if math.IsNaN(v) {
			v = float64(p.CatFill)
		}
		iv := int(v)
		for _, cat := range p.Categories[col] {
			out = append(out, boolFeature(cat == iv))
		}
	}
	return out
}

// TransformAll transforms a batch of rows.
func (p *Preprocessor) TransformAll(rows []Row) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = p.Transform(r)
	}
	return out
}

func imputed(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return v
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
