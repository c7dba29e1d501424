package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"plinius-pricer/internal/config"
	perrors "plinius-pricer/internal/errors"
	"plinius-pricer/internal/models"
)

func testApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default(t.TempDir())
	cfg.Storage.Driver = config.DriverMemory
	cfg.UI.ColorEnabled = false
	cfg.Scenarios.Palette = []string{"#111111", "#222222", "#333333"}
	app := NewApp(cfg, zerolog.Nop())
	t.Cleanup(func() { app.Close() })
	return app
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd(app)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestPriceBond_JSON(t *testing.T) {
	app := testApp(t)
	out, err := run(t, app, "price", "bond", "--coupon", "9", "--ytm", "10.5", "--years", "5", "--json")
	if err != nil {
		t.Fatalf("price bond: %v", err)
	}

	var res priceResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if math.Abs(res.Valuation.Bond.Price-94.27836964584799) > 1e-9 {
		t.Errorf("price = %v", res.Valuation.Bond.Price)
	}
	if res.Label != "Bond 9.00% @ 10.50% · 5y" {
		t.Errorf("label = %q", res.Label)
	}
	if res.Scenario != nil {
		t.Error("scenario saved without --save")
	}
}

func TestPriceCommands_Table(t *testing.T) {
	tests := [][]string{
		{"price", "cetes", "--rate", "11", "--days", "28"},
		{"price", "swap", "--fixed", "10", "--discount", "9.5"},
		{"price", "swap", "--mode", "curve", "--curve", "0.25:10.9,1:10.3,5:9.2"},
		{"price", "fx", "--spot", "17.5", "--strike", "17.8"},
		{"price", "option", "--put"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args[:2], " "), func(t *testing.T) {
			out, err := run(t, testApp(t), args...)
			if err != nil {
				t.Fatalf("%v: %v", args, err)
			}
			if !strings.Contains(out, "Indicative figures only.") || strings.Contains(out, "NaN") {
				t.Errorf("unexpected output:\n%s", out)
			}
		})
	}
}

func TestPriceSwap_InvalidMode(t *testing.T) {
	_, err := run(t, testApp(t), "price", "swap", "--mode", "linear")
	if !perrors.Is(err, perrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestScenarioLifecycle(t *testing.T) {
	app := testApp(t)

	for _, ytm := range []string{"9", "10", "11"} {
		if _, err := run(t, app, "price", "bond", "--ytm", ytm, "--save"); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if _, err := run(t, app, "price", "cetes", "--save", "--label", "one month"); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, app, "scenario", "list", "--kind", "bond", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var bonds []models.Scenario
	if err := json.Unmarshal([]byte(out), &bonds); err != nil {
		t.Fatalf("list output: %v", err)
	}
	if len(bonds) != 3 {
		t.Fatalf("bonds = %d", len(bonds))
	}

	if _, err := run(t, app, "scenario", "remove", bonds[1].ID[:8]); err != nil {
		t.Fatalf("remove by prefix: %v", err)
	}

	out, _ = run(t, app, "scenario", "list", "--json")
	var all []models.Scenario
	if err := json.Unmarshal([]byte(out), &all); err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("scenarios after remove = %d", len(all))
	}
	if all[0].Color != "#111111" || all[1].Color != "#333333" || all[2].Color != "#111111" {
		t.Errorf("colors = %s %s %s", all[0].Color, all[1].Color, all[2].Color)
	}
	if all[2].Label != "one month" {
		t.Errorf("label = %q", all[2].Label)
	}

	out, err = run(t, app, "scenario", "list")
	if err != nil || !strings.Contains(out, "one month") {
		t.Fatalf("table list: %v\n%s", err, out)
	}

	if _, err := run(t, app, "scenario", "remove", "does-not-exist"); err != nil {
		t.Fatalf("removing an unknown id should not fail: %v", err)
	}

	if _, err := run(t, app, "scenario", "clear"); err != nil {
		t.Fatal(err)
	}
	out, _ = run(t, app, "scenario", "list", "--json")
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("after clear: %s", out)
	}
}

func TestSeries_CSVAndTable(t *testing.T) {
	app := testApp(t)
	run(t, app, "price", "bond", "--ytm", "9", "--save")
	run(t, app, "price", "bond", "--coupon", "7", "--save")
	run(t, app, "price", "cetes", "--save")

	out, err := run(t, app, "series", "bond", "price-ytm", "--format", "csv")
	if err != nil {
		t.Fatalf("series csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "scenario_id,label,color,x,y" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) != 1+2*33 {
		t.Fatalf("rows = %d, want %d", len(lines)-1, 2*33)
	}

	out, err = run(t, app, "series", "bond", "dv01-ytm")
	if err != nil || !strings.Contains(out, "YTM (%)") {
		t.Fatalf("series table: %v\n%s", err, out)
	}

	out, err = run(t, app, "series", "swap")
	if err != nil || !strings.Contains(out, "pv-shift") {
		t.Fatalf("metric list: %v\n%s", err, out)
	}

	if _, err := run(t, app, "series", "bond", "vega-vol"); !perrors.Is(err, perrors.ErrUnknownMetric) {
		t.Fatalf("expected ErrUnknownMetric, got %v", err)
	}
	if _, err := run(t, app, "series", "futures", "price"); !perrors.Is(err, perrors.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestRatesAndBondUtilities(t *testing.T) {
	app := testApp(t)

	out, err := run(t, app, "rates", "nominal", "--rate", "11", "--days", "28", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var conv struct {
		Result float64 `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &conv); err != nil {
		t.Fatal(err)
	}
	if math.Abs(conv.Result-0.11*360/365) > 1e-12 {
		t.Errorf("nominal = %v", conv.Result)
	}

	out, err = run(t, app, "bond", "cashflows", "--coupon", "9", "--years", "1", "--format", "csv")
	if err != nil {
		t.Fatal(err)
	}
	want := "period,cashflow\n1,4.5\n2,104.5\n"
	if out != want {
		t.Errorf("cashflows csv = %q, want %q", out, want)
	}

	out, err = run(t, app, "bond", "ytm", "--price", "94.27836964584799", "--coupon", "9", "--years", "5", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var y struct {
		YTM float64 `json:"ytm"`
	}
	json.Unmarshal([]byte(out), &y)
	if math.Abs(y.YTM-0.105) > 1e-6 {
		t.Errorf("ytm = %v", y.YTM)
	}

	out, err = run(t, app, "curve", "show", "--shift", "100", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var curve models.Curve
	if err := json.Unmarshal([]byte(out), &curve); err != nil {
		t.Fatal(err)
	}
	if curve.Len() != 6 || math.Abs(curve.Nodes[0].Z.Percent()-11.9) > 1e-9 {
		t.Errorf("shifted curve = %+v", curve.Nodes)
	}
}

func TestSQLiteDriverPersistsAcrossApps(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(dir)
	cfg.Storage.Path = filepath.Join(dir, "scenarios.db")
	cfg.UI.ColorEnabled = false

	first := NewApp(cfg, zerolog.Nop())
	if _, err := run(t, first, "price", "swap", "--save"); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second := NewApp(cfg, zerolog.Nop())
	defer second.Close()
	out, err := run(t, second, "scenario", "list", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var list []models.Scenario
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Kind != models.KindSwap {
		t.Fatalf("reloaded = %+v", list)
	}
}

func TestParseCurve(t *testing.T) {
	c, err := ParseCurve(" 2:9.8, 0.5:10.7 ,1:10.3")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Tenors(); len(got) != 3 || got[0] != 0.5 || got[2] != 2 {
		t.Errorf("tenors = %v", got)
	}

	for _, bad := range []string{"", "1", "x:1", "1:y", "1:10,1:11"} {
		if _, err := ParseCurve(bad); err == nil {
			t.Errorf("ParseCurve(%q) accepted", bad)
		}
	}
}

func TestConfigAndVersion(t *testing.T) {
	app := testApp(t)
	out, err := run(t, app, "version", "--json")
	if err != nil || !strings.Contains(out, Version) {
		t.Fatalf("version: %v %s", err, out)
	}

	if _, err := run(t, app, "config", "validate"); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, app, "config", "show")
	if err != nil || !strings.Contains(out, "#222222") {
		t.Fatalf("config show: %v\n%s", err, out)
	}

	app.Config.Scenarios.Palette = nil
	if _, err := run(t, app, "config", "validate"); !perrors.Is(err, perrors.ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestTableAlignsColoredCells(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{writer: &buf, colorEnabled: true}
	table := NewTable(out, "A", "B")
	table.AddRow(out.Green("xx"), "1")
	table.AddRow("yyyy", "2")
	table.Render()

	lines := strings.Split(strings.TrimRight(stripANSI(buf.String()), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	if strings.Index(lines[2], "1") != strings.Index(lines[3], "2") {
		t.Errorf("columns misaligned:\n%s", strings.Join(lines, "\n"))
	}
}

func TestFormatters(t *testing.T) {
	if got := FormatNumber(math.NaN(), 2); got != "n/a" {
		t.Errorf("FormatNumber(NaN) = %q", got)
	}
	if got := FormatNumber(13733.468704509174, 2); got != "13,733.47" {
		t.Errorf("FormatNumber = %q", got)
	}
	if got := FormatRate(models.Percent(10.5), 2); got != "10.50%" {
		t.Errorf("FormatRate = %q", got)
	}
	if got := TruncateString("Swap 10.00% · 13×28d (flat 9.50%)", 10); got != "Swap 10..." {
		t.Errorf("TruncateString = %q", got)
	}
	if got := ShortID("0123456789"); got != "01234567" {
		t.Errorf("ShortID = %q", got)
	}
}
