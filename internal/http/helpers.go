package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"autosales/internal/core"
	"autosales/internal/render"
)

const pageTitle = "Automobile Sales Statistics Dashboard"

var errTemplatesNotLoaded = errors.New("templates not loaded")

type (
	option struct {
		Value    string
		Label    string
		Selected bool
	}

	// yearControlView feeds the "year_control" template. Selected is
	// carried in a hidden input while the dropdown is disabled.
	yearControlView struct {
		Enabled  bool
		Selected string
		Options  []option
	}

	chartBlockView struct {
		ID     string
		Title  string
		Kind   string
		Style  template.CSS
		Config string
	}

	// chartsView feeds the "charts" template.
	chartsView struct {
		Placeholder string
		Blocks      []chartBlockView
	}

	pageView struct {
		Title       string
		Reports     []option
		YearControl yearControlView
		Output      chartsView
	}
)

func reportOptions(selected core.ReportMode) []option {
	modes := core.ReportModes()
	opts := make([]option, 0, len(modes))
	for _, m := range modes {
		opts = append(opts, option{Value: string(m), Label: m.Label(), Selected: m == selected})
	}
	return opts
}

func newYearControlView(years []int, state core.YearControl, selected int) yearControlView {
	v := yearControlView{Enabled: state.Enabled}
	if selected != core.NoYear {
		v.Selected = fmt.Sprint(selected)
	}
	v.Options = make([]option, 0, len(years))
	for _, y := range years {
		label := fmt.Sprint(y)
		v.Options = append(v.Options, option{Value: label, Label: label, Selected: y == selected})
	}
	return v
}

func newChartsView(view render.View) chartsView {
	if view.IsPlaceholder() {
		return chartsView{Placeholder: view.Placeholder}
	}
	out := chartsView{Blocks: make([]chartBlockView, 0, len(view.Blocks))}
	for _, b := range view.Blocks {
		out.Blocks = append(out.Blocks, chartBlockView{
			ID:     b.ID,
			Title:  b.Title,
			Kind:   string(b.Kind),
			Style:  template.CSS(b.Style),
			Config: b.Config,
		})
	}
	return out
}

// renderTemplate executes a named template into memory so a failure never
// leaves a half written response.
func renderTemplate(t *template.Template, name string, data interface{}) ([]byte, error) {
	if t == nil {
		return nil, errTemplatesNotLoaded
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
