package render

import (
	"encoding/json"
	"strings"
	"testing"

	"autosales/internal/core"
)

type decodedConfig struct {
	Type string `json:"type"`
	Data struct {
		Labels   []string `json:"labels"`
		Datasets []struct {
			Label           string          `json:"label"`
			Data            []*float64      `json:"data"`
			BackgroundColor json.RawMessage `json:"backgroundColor"`
		} `json:"datasets"`
	} `json:"data"`
	Options struct {
		Plugins struct {
			Title struct {
				Text string `json:"text"`
			} `json:"title"`
		} `json:"plugins"`
		Scales map[string]json.RawMessage `json:"scales"`
	} `json:"options"`
}

func decode(t *testing.T, b Block) decodedConfig {
	t.Helper()
	var cfg decodedConfig
	if err := json.Unmarshal([]byte(b.Config), &cfg); err != nil {
		t.Fatalf("block %s config is not JSON: %v", b.ID, err)
	}
	return cfg
}

func sampleResult() core.Result {
	ds := core.NewDataset([]core.SalesRecord{
		{Year: 1980, Month: 1, Recession: true, VehicleType: "Car", AutomobileSales: 100, AdvertisingExpenditure: 10, UnemploymentRate: 5},
		{Year: 1980, Month: 2, Recession: true, VehicleType: "Truck", AutomobileSales: 300, AdvertisingExpenditure: 30, UnemploymentRate: 6},
		{Year: 1981, Month: 3, Recession: true, VehicleType: "Car", AutomobileSales: 200, AdvertisingExpenditure: 20, UnemploymentRate: 6},
	})
	return core.ComputeCharts(ds, core.Recession, core.NoYear)
}

func TestBuild_Placeholder(t *testing.T) {
	v := Build(core.PlaceholderResult())
	if !v.IsPlaceholder() || v.Placeholder != core.PlaceholderMessage {
		t.Fatalf("unexpected view %+v", v)
	}
	if len(v.Blocks) != 0 {
		t.Fatalf("placeholder view must not have blocks")
	}
}

func TestBuild_BlocksFollowChartOrder(t *testing.T) {
	res := sampleResult()
	v := Build(res)
	if v.IsPlaceholder() {
		t.Fatal("unexpected placeholder")
	}
	if len(v.Blocks) != len(res.Charts) {
		t.Fatalf("got %d blocks, want %d", len(v.Blocks), len(res.Charts))
	}

	wantTypes := []string{"line", "bar", "pie", "bar"}
	for i, b := range v.Blocks {
		if b.ID != res.Charts[i].ID || b.Title != res.Charts[i].Title {
			t.Errorf("block %d = %s/%q", i, b.ID, b.Title)
		}
		if b.Style != BlockStyle {
			t.Errorf("block %d style = %q", i, b.Style)
		}
		cfg := decode(t, b)
		if cfg.Type != wantTypes[i] {
			t.Errorf("block %d type = %s, want %s", i, cfg.Type, wantTypes[i])
		}
		if cfg.Options.Plugins.Title.Text != b.Title {
			t.Errorf("block %d chart title = %q", i, cfg.Options.Plugins.Title.Text)
		}
	}
}

func TestConfig_GroupedBarUsesNullForMissing(t *testing.T) {
	v := Build(sampleResult())
	cfg := decode(t, v.Blocks[3])

	if got := strings.Join(cfg.Data.Labels, ","); got != "5,6" {
		t.Fatalf("labels = %s, want 5,6", got)
	}
	if len(cfg.Data.Datasets) != 2 {
		t.Fatalf("got %d datasets, want one per vehicle type", len(cfg.Data.Datasets))
	}

	car, truck := cfg.Data.Datasets[0], cfg.Data.Datasets[1]
	if car.Label != "Car" || truck.Label != "Truck" {
		t.Fatalf("dataset labels = %s,%s", car.Label, truck.Label)
	}
	if car.Data[0] == nil || *car.Data[0] != 100 || car.Data[1] == nil || *car.Data[1] != 200 {
		t.Errorf("car data = %v", car.Data)
	}
	if truck.Data[0] != nil {
		t.Errorf("missing truck value at rate 5 must be null, got %v", *truck.Data[0])
	}
	if truck.Data[1] == nil || *truck.Data[1] != 300 {
		t.Errorf("truck data = %v", truck.Data)
	}
	if !strings.Contains(v.Blocks[3].Config, "null") {
		t.Error("grouped config should carry a null gap")
	}
}

func TestConfig_Pie(t *testing.T) {
	v := Build(sampleResult())
	cfg := decode(t, v.Blocks[2])

	if len(cfg.Options.Scales) != 0 {
		t.Error("pie charts have no axes")
	}
	want := []string{"Car (50.0%)", "Truck (50.0%)"}
	if strings.Join(cfg.Data.Labels, "|") != strings.Join(want, "|") {
		t.Errorf("labels = %v, want %v", cfg.Data.Labels, want)
	}
	ds := cfg.Data.Datasets[0]
	if *ds.Data[0] != 30 || *ds.Data[1] != 30 {
		t.Errorf("pie values = %v", ds.Data)
	}
	var colors []string
	if err := json.Unmarshal(ds.BackgroundColor, &colors); err != nil || len(colors) != 2 {
		t.Errorf("pie needs one color per slice: %s", ds.BackgroundColor)
	}
}

func TestConfig_EmptySeries(t *testing.T) {
	ds := core.NewDataset([]core.SalesRecord{
		{Year: 1990, Month: 1, VehicleType: "Car", AutomobileSales: 1, AdvertisingExpenditure: 1, UnemploymentRate: 1},
	})
	v := Build(core.ComputeCharts(ds, core.Recession, core.NoYear))
	for _, b := range v.Blocks {
		cfg := decode(t, b)
		if cfg.Data.Labels == nil {
			t.Errorf("block %s: labels must be an empty array, not null", b.ID)
		}
	}
}

func TestColorWrapsAround(t *testing.T) {
	if color(0) != color(len(Palette)) {
		t.Error("palette must wrap")
	}
}
