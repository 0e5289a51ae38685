package core

const (
	ChartLine       ChartKind = "line"
	ChartBar        ChartKind = "bar"
	ChartPie        ChartKind = "pie"
	ChartGroupedBar ChartKind = "grouped_bar"
)

type (
	ChartKind string

	// Point is one aggregated group. Share is only set for pie charts and
	// holds the group's proportion of the subset total.
	Point struct {
		Key   string  `json:"key"`
		Value float64 `json:"value"`
		Share float64 `json:"share,omitempty"`
	}

	// Series is an ordered run of points. Label names the sub-series of a
	// grouped chart and is empty otherwise.
	Series struct {
		Label  string  `json:"label,omitempty"`
		Points []Point `json:"points"`
	}

	// Chart is one aggregated dataset ready for a renderer. Categories is
	// set for grouped charts and lists the x keys in ascending order.
	Chart struct {
		ID         string    `json:"id"`
		Title      string    `json:"title"`
		Kind       ChartKind `json:"kind"`
		XLabel     string    `json:"x_label"`
		YLabel     string    `json:"y_label"`
		Categories []string  `json:"categories,omitempty"`
		Series     []Series  `json:"series"`
	}

	// Result is the render model for one selection: either charts or a
	// placeholder text, never both.
	Result struct {
		Charts      []Chart `json:"charts,omitempty"`
		Placeholder string  `json:"placeholder,omitempty"`
	}

	// YearControl is the state of the year dropdown.
	YearControl struct {
		Enabled bool `json:"enabled"`
	}
)

// PlaceholderResult is returned for selections that match no report.
func PlaceholderResult() Result {
	return Result{Placeholder: PlaceholderMessage}
}

func (r Result) IsPlaceholder() bool {
	return r.Placeholder != ""
}

// Clone deep copies the result so cached values cannot be mutated by callers.
func (r Result) Clone() Result {
	out := Result{Placeholder: r.Placeholder}
	if r.Charts == nil {
		return out
	}
	out.Charts = make([]Chart, len(r.Charts))
	for i, c := range r.Charts {
		if c.Categories != nil {
			c.Categories = append(make([]string, 0, len(c.Categories)), c.Categories...)
		}
		c.Series = cloneSeries(c.Series)
		out.Charts[i] = c
	}
	return out
}

func cloneSeries(in []Series) []Series {
	if in == nil {
		return nil
	}
	out := make([]Series, len(in))
	for i, s := range in {
		out[i] = Series{Label: s.Label}
		if s.Points != nil {
			out[i].Points = append(make([]Point, 0, len(s.Points)), s.Points...)
		}
	}
	return out
}

// Keys returns the x keys of the chart: Categories when set, otherwise the
// point keys in first-seen order.
func (c Chart) Keys() []string {
	if c.Categories != nil {
		return append([]string(nil), c.Categories...)
	}
	seen := map[string]struct{}{}
	var keys []string
	for _, s := range c.Series {
		for _, p := range s.Points {
			if _, ok := seen[p.Key]; ok {
				continue
			}
			seen[p.Key] = struct{}{}
			keys = append(keys, p.Key)
		}
	}
	return keys
}
