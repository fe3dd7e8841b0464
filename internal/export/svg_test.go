package export

import (
	"strings"
	"testing"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/viz"
)

func TestTrajectoryToSVG(t *testing.T) {
	pts := []arm.Vec3{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	svg := TrajectoryToSVG(pts, 200, 100, "#ff0000")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("not a complete svg document")
	}
	if !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Error("stroke colour missing")
	}
	if got := strings.Count(svg, " L"); got != 2 {
		t.Errorf("expected 2 line segments, got %d", got)
	}
}

func TestTrajectoryToSVGEscapesColor(t *testing.T) {
	pts := []arm.Vec3{{X: 0, Y: 0}, {X: 1, Y: 1}}
	svg := TrajectoryToSVG(pts, 20, 20, `red" onload="alert(1)`)

	if strings.Contains(svg, `onload="`) {
		t.Errorf("colour broke out of the stroke attribute: %s", svg)
	}
	if !strings.Contains(svg, `stroke="red&#34; onload=&#34;alert(1)"`) {
		t.Errorf("colour not escaped: %s", svg)
	}
}

func TestTrajectoryToSVGTooShort(t *testing.T) {
	if svg := TrajectoryToSVG([]arm.Vec3{{X: 1}}, 10, 10, "#fff"); svg != "" {
		t.Error("single point should produce no svg")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}
}
