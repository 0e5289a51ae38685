// Package render turns computed chart results into browser-ready blocks
// holding Chart.js configurations.
package render

import (
	"encoding/json"
	"fmt"
	"math"

	"autosales/internal/core"
)

// BlockStyle is applied to every chart container.
const BlockStyle = "width: 100%; padding: 10px"

// Palette colors series by index and wraps around.
var Palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

type (
	// View is what the output container shows: a placeholder text or blocks.
	View struct {
		Placeholder string
		Blocks      []Block
	}

	// Block is one chart container.
	Block struct {
		ID     string
		Title  string
		Kind   core.ChartKind
		Style  string
		Config string
	}

	chartConfig struct {
		Type    string       `json:"type"`
		Data    chartData    `json:"data"`
		Options chartOptions `json:"options"`
	}

	chartData struct {
		Labels   []string  `json:"labels"`
		Datasets []dataset `json:"datasets"`
	}

	dataset struct {
		Label           string     `json:"label"`
		Data            []*float64 `json:"data"`
		BackgroundColor any        `json:"backgroundColor"`
		BorderColor     any        `json:"borderColor,omitempty"`
		Fill            bool       `json:"fill"`
		Tension         float64    `json:"tension,omitempty"`
		SpanGaps        bool       `json:"spanGaps,omitempty"`
	}

	chartOptions struct {
		Responsive          bool             `json:"responsive"`
		MaintainAspectRatio bool             `json:"maintainAspectRatio"`
		Plugins             pluginOptions    `json:"plugins"`
		Scales              map[string]scale `json:"scales,omitempty"`
	}

	pluginOptions struct {
		Title  titleOptions  `json:"title"`
		Legend legendOptions `json:"legend"`
	}

	titleOptions struct {
		Display bool   `json:"display"`
		Text    string `json:"text"`
	}

	legendOptions struct {
		Display bool `json:"display"`
	}

	scale struct {
		Title       titleOptions `json:"title"`
		BeginAtZero bool         `json:"beginAtZero,omitempty"`
	}
)

func (v View) IsPlaceholder() bool {
	return v.Placeholder != ""
}

// Build maps a result onto a view, one block per chart in chart order.
func Build(result core.Result) View {
	if result.IsPlaceholder() {
		return View{Placeholder: result.Placeholder}
	}
	blocks := make([]Block, 0, len(result.Charts))
	for _, c := range result.Charts {
		blocks = append(blocks, Block{
			ID:     c.ID,
			Title:  c.Title,
			Kind:   c.Kind,
			Style:  BlockStyle,
			Config: encode(Config(c)),
		})
	}
	return View{Blocks: blocks}
}

// Config builds the Chart.js configuration for one chart.
func Config(c core.Chart) any {
	keys := c.Keys()
	cfg := chartConfig{
		Type: chartType(c.Kind),
		Data: chartData{Labels: keys, Datasets: []dataset{}},
		Options: chartOptions{
			Responsive:          true,
			MaintainAspectRatio: false,
			Plugins: pluginOptions{
				Title:  titleOptions{Display: true, Text: c.Title},
				Legend: legendOptions{Display: c.Kind == core.ChartPie || c.Kind == core.ChartGroupedBar},
			},
		},
	}
	if cfg.Data.Labels == nil {
		cfg.Data.Labels = []string{}
	}

	switch c.Kind {
	case core.ChartPie:
		cfg.Data.Labels = pieLabels(c)
		for _, s := range c.Series {
			colors := make([]string, len(s.Points))
			for i := range colors {
				colors[i] = color(i)
			}
			cfg.Data.Datasets = append(cfg.Data.Datasets, dataset{
				Label:           c.YLabel,
				Data:            aligned(s, keys),
				BackgroundColor: colors,
			})
		}
	default:
		cfg.Options.Scales = map[string]scale{
			"x": {Title: titleOptions{Display: c.XLabel != "", Text: c.XLabel}},
			"y": {Title: titleOptions{Display: c.YLabel != "", Text: c.YLabel}, BeginAtZero: true},
		}
		for i, s := range c.Series {
			label := s.Label
			if label == "" {
				label = c.YLabel
			}
			ds := dataset{
				Label:           label,
				Data:            aligned(s, keys),
				BackgroundColor: color(i),
				BorderColor:     color(i),
			}
			if c.Kind == core.ChartLine {
				ds.Tension = 0.2
				ds.SpanGaps = true
			}
			cfg.Data.Datasets = append(cfg.Data.Datasets, ds)
		}
	}
	return cfg
}

func chartType(k core.ChartKind) string {
	switch k {
	case core.ChartLine:
		return "line"
	case core.ChartPie:
		return "pie"
	default:
		return "bar"
	}
}

// aligned lays the series points onto keys; missing keys become null.
func aligned(s core.Series, keys []string) []*float64 {
	byKey := make(map[string]float64, len(s.Points))
	for _, p := range s.Points {
		byKey[p.Key] = p.Value
	}
	out := make([]*float64, len(keys))
	for i, k := range keys {
		v, ok := byKey[k]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = &v
	}
	return out
}

func pieLabels(c core.Chart) []string {
	var labels []string
	for _, s := range c.Series {
		for _, p := range s.Points {
			labels = append(labels, fmt.Sprintf("%s (%.1f%%)", p.Key, p.Share*100))
		}
	}
	if labels == nil {
		return []string{}
	}
	return labels
}

func color(i int) string {
	return Palette[i%len(Palette)]
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
