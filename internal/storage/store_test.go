package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/motion"
	"github.com/san-kum/armsim/internal/sim"
)

func testResult(t *testing.T) (*config.Config, *sim.Result) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Run = sim.Config{Interval: 0.5, Duration: 1}

	est, err := arm.New(cfg.Arm)
	if err != nil {
		t.Fatal(err)
	}
	res, err := sim.New(est, cfg.Motion).Run(context.Background(), cfg.Run)
	if err != nil {
		t.Fatal(err)
	}
	res.Metrics["energy_wh"] = 1.5
	res.Metrics["unbounded"] = math.Inf(1)
	return cfg, res
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result := testResult(t)
	runID, err := st.Save("default", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Preset != "default" {
		t.Errorf("expected preset 'default', got '%s'", meta.Preset)
	}
	if meta.Samples != 3 {
		t.Errorf("expected 3 samples, got %d", meta.Samples)
	}
	if meta.Metrics["energy_wh"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy_wh"])
	}
	if _, ok := meta.Metrics["unbounded"]; ok {
		t.Error("non-finite metric should not be stored")
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != len(result.Samples) {
		t.Fatalf("expected %d samples, got %d", len(result.Samples), len(samples))
	}
	for i, got := range samples {
		want := result.Samples[i].State
		if math.Abs(got.State.EndEffector.X-want.EndEffector.X) > 1e-6 {
			t.Errorf("sample %d x = %f, want %f", i, got.State.EndEffector.X, want.EndEffector.X)
		}
		if math.Abs(got.State.BatteryCharge-want.BatteryCharge) > 1e-6 {
			t.Errorf("sample %d charge = %f, want %f", i, got.State.BatteryCharge, want.BatteryCharge)
		}
		if got.State.Joints[0].Velocity != cfg.Arm.JointVelocities[0] {
			t.Errorf("sample %d velocity not restored", i)
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cfg, result := testResult(t)
	first, err := st.Save("a", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save("b", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs not in save order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	cfg, result := testResult(t)
	runID, err := st.Save("default", cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		t.Fatal("samples.csv not created")
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if header != strings.Join(csvHeader, ",") {
		t.Errorf("unexpected header %q", header)
	}
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadSamples("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"abc123", "abd456"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	st := New(dir)

	tests := []struct {
		prefix string
		want   string
		err    error
	}{
		{"abc", "abc123", nil},
		{"abd456", "abd456", nil},
		{"ab", "", ErrAmbiguousRun},
		{"zz", "", ErrRunNotFound},
		{"", "", ErrRunNotFound},
	}
	for _, tt := range tests {
		got, err := st.Resolve(tt.prefix)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("Resolve(%q) err = %v, want %v", tt.prefix, err, tt.err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Resolve(%q) = %q, %v; want %q", tt.prefix, got, err, tt.want)
		}
	}
}

func TestCSVKeepsUnboundedCapacity(t *testing.T) {
	var s arm.State
	s.PayloadCapacity = math.Inf(1)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []sim.Sample{{State: s}}); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !math.IsInf(got[0].State.PayloadCapacity, 1) {
		t.Errorf("capacity did not survive: %+v", got)
	}
}

func TestExportJSON(t *testing.T) {
	cfg := arm.DefaultConfig()
	est, err := arm.New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	loaded := est.Update(arm.Angles{})
	unloaded := est.Update(arm.Angles{90, 0, 0})
	samples := []sim.Sample{
		{Index: 0, Time: 0, State: loaded},
		{Index: 1, Time: 0.1, State: unloaded},
	}

	var buf bytes.Buffer
	meta := RunMetadata{ID: "x", Motion: motion.DefaultSine()}
	if err := ExportJSON(&buf, meta, samples, est); err != nil {
		t.Fatal(err)
	}

	var out struct {
		Run     RunMetadata `json:"run"`
		Samples []struct {
			PayloadCapacity *float64 `json:"payload_capacity"`
			Warnings        []string `json:"warnings"`
		} `json:"samples"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Run.ID != "x" || len(out.Samples) != 2 {
		t.Fatalf("unexpected export: %+v", out)
	}
	if out.Samples[0].PayloadCapacity == nil {
		t.Error("loaded pose should have a capacity")
	}
	if out.Samples[1].PayloadCapacity != nil {
		t.Error("vertical arm capacity should be null")
	}
	if len(out.Samples[0].Warnings) == 0 {
		t.Error("overloaded pose should carry warnings")
	}
}
