package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/motion"
	"github.com/san-kum/armsim/internal/sim"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(3, 7)
	c.Set(-1, 2)
	c.Set(100, 100)

	if !c.IsSet(0, 0) || !c.IsSet(3, 7) {
		t.Error("expected dots to be set")
	}
	if c.IsSet(1, 0) {
		t.Error("unexpected dot")
	}
	if first := []rune(c.String())[0]; first != 0x2801 {
		t.Errorf("first cell = %U, want U+2801", first)
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("clear left dots behind")
	}
	if lines := strings.Count(c.String(), "\n"); lines != 2 {
		t.Errorf("expected 2 rows, got %d", lines)
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(1, 1, 15, 17)
	if !c.IsSet(1, 1) || !c.IsSet(15, 17) {
		t.Error("line endpoints not set")
	}
}

func TestCanvasSegmentInArmPlane(t *testing.T) {
	c := NewCanvas(30, 10)
	vp := FitArm(arm.DefaultConfig(), c)
	a, b := arm.Vec3{X: -0.5, Y: 0.2}, arm.Vec3{X: 1.1, Y: 1.4}

	c.Segment(vp, a, b)
	if !c.IsSet(vp.Project(a)) || !c.IsSet(vp.Project(b)) {
		t.Error("segment ends not drawn")
	}

	// one dot per step along the major axis
	x0, y0 := vp.Project(a)
	x1, y1 := vp.Project(b)
	want := max(absInt(x1-x0), absInt(y1-y0)) + 1
	lit := 0
	for y := 0; y < c.SubHeight(); y++ {
		for x := 0; x < c.SubWidth(); x++ {
			if c.IsSet(x, y) {
				lit++
			}
		}
	}
	if lit != want {
		t.Errorf("segment lit %d dots, want %d", lit, want)
	}

	mid := arm.Vec3{X: 0.3, Y: 0.8}

	c.Clear()
	c.Plot(vp, mid)
	x, y := vp.Project(mid)
	if !c.IsSet(x, y) || c.IsSet(x+1, y) {
		t.Error("plot should light exactly one dot")
	}
}

func TestViewportProjection(t *testing.T) {
	cfg := arm.DefaultConfig()
	c := NewCanvas(60, 20)
	vp := FitArm(cfg, c)

	// the fully extended arm must land inside the canvas
	for _, p := range []arm.Vec3{
		{X: cfg.TotalLength(), Y: cfg.BaseHeight},
		{X: -cfg.TotalLength(), Y: cfg.BaseHeight},
		{Y: cfg.BaseHeight + cfg.TotalLength()},
		{Y: cfg.BaseHeight - cfg.TotalLength()},
	} {
		x, y := vp.Project(p)
		if x < 0 || x >= c.SubWidth() || y < 0 || y >= c.SubHeight() {
			t.Errorf("%v projects outside canvas: (%d, %d)", p, x, y)
		}
	}

	_, yLow := vp.Project(arm.Vec3{Y: 0})
	_, yHigh := vp.Project(arm.Vec3{Y: 1})
	if yHigh >= yLow {
		t.Error("higher points should have smaller screen y")
	}
}

func TestDrawArmMarksEndEffector(t *testing.T) {
	cfg := arm.DefaultConfig()
	est, err := arm.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCanvas(60, 20)
	vp := FitArm(cfg, c)
	pts := est.JointPositions(arm.Angles{30, -20, 10})

	DrawArm(c, vp, pts, nil)
	if !c.IsSet(vp.Project(pts[arm.NumJoints])) {
		t.Error("end effector not drawn")
	}
	if !c.IsSet(vp.Project(pts[0])) {
		t.Error("shoulder not drawn")
	}
}

func newTestModel(t *testing.T) (Model, *sim.Live) {
	t.Helper()
	est, err := arm.New(arm.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	live := sim.NewLive(sim.New(est, motion.DefaultSine()), 50*time.Millisecond)
	return NewModel(live, nil), live
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelSample(t *testing.T) {
	m, live := newTestModel(t)

	s, ok := live.Tick()
	if !ok {
		t.Fatal("tick rejected")
	}
	next, cmd := m.Update(sampleMsg(s))
	if cmd == nil {
		t.Error("expected a command waiting for the next sample")
	}
	m = next.(Model)

	if !m.received || len(m.trail) != 1 || len(m.power) != 1 {
		t.Errorf("sample not recorded: received=%v trail=%d power=%d", m.received, len(m.trail), len(m.power))
	}
	view := m.View()
	if !strings.Contains(view, "ARM ESTIMATOR") || !strings.Contains(view, "Stability") {
		t.Error("view missing header or stats")
	}
}

func TestModelKeys(t *testing.T) {
	m, live := newTestModel(t)

	next, _ := m.Update(keyMsg(" "))
	m = next.(Model)
	if !live.Paused() {
		t.Error("space should pause")
	}

	before := live.Param("payload_mass")
	next, _ = m.Update(keyMsg("+"))
	m = next.(Model)
	if got := live.Param("payload_mass"); got != before+payloadStep {
		t.Errorf("payload = %f, want %f", got, before+payloadStep)
	}

	for i := 0; i < 20; i++ {
		next, _ = m.Update(keyMsg("-"))
		m = next.(Model)
	}
	if got := live.Param("payload_mass"); got != 0 {
		t.Errorf("payload should clamp at 0, got %f", got)
	}

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelLogs(t *testing.T) {
	m, _ := newTestModel(t)
	rec := &recordPrinter{}
	m.logger = rec

	for i := 0; i < maxLogs+3; i++ {
		next, _ := m.Update(logMsg("line"))
		m = next.(Model)
	}
	if len(m.logs) != maxLogs {
		t.Errorf("kept %d logs, want %d", len(m.logs), maxLogs)
	}
	if rec.n != maxLogs+3 {
		t.Errorf("forwarded %d lines, want %d", rec.n, maxLogs+3)
	}
}

type recordPrinter struct{ n int }

func (r *recordPrinter) Printf(string, ...any) { r.n++ }
