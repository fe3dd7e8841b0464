package viz

import (
	"math"

	"github.com/san-kum/armsim/internal/arm"
)

// Viewport maps the arm's vertical plane onto canvas dots with a uniform
// scale, keeping the region [MinX, MaxX] x [MinY, MaxY] in view.
type Viewport struct {
	MinX, MaxX float64
	MinY, MaxY float64
	scale      float64
	offX       float64
	offY       float64
	height     int
}

// FitArm returns a viewport that contains every reachable point of an arm
// on a canvas.
func FitArm(cfg arm.Config, c *Canvas) Viewport {
	r := cfg.TotalLength() * 1.05
	vp := Viewport{
		MinX: -r,
		MaxX: r,
		MinY: math.Min(0, cfg.BaseHeight-r),
		MaxY: cfg.BaseHeight + r,
	}
	vp.fit(c.SubWidth(), c.SubHeight())
	return vp
}

func (v *Viewport) fit(w, h int) {
	dx, dy := v.MaxX-v.MinX, v.MaxY-v.MinY
	if dx <= 0 {
		dx = 1
	}
	if dy <= 0 {
		dy = 1
	}
	v.scale = math.Min(float64(w-1)/dx, float64(h-1)/dy)
	v.offX = (float64(w-1) - dx*v.scale) / 2
	v.offY = (float64(h-1) - dy*v.scale) / 2
	v.height = h
}

// Project converts metres to dot coordinates, y pointing down.
func (v Viewport) Project(p arm.Vec3) (int, int) {
	x := v.offX + (p.X-v.MinX)*v.scale
	y := float64(v.height-1) - v.offY - (p.Y-v.MinY)*v.scale
	return int(math.Round(x)), int(math.Round(y))
}

// DrawArm renders a side view: the ground, the base column, the three
// links with their joints, and an optional end-effector trail.
func DrawArm(c *Canvas, vp Viewport, joints [arm.NumJoints + 1]arm.Vec3, trail []arm.Vec3) {
	c.Segment(vp, arm.Vec3{X: vp.MinX}, arm.Vec3{X: vp.MaxX})
	c.Segment(vp, arm.Vec3{}, joints[0])
	c.Joint(vp, arm.Vec3{}, 2)

	for _, p := range trail {
		c.Plot(vp, p)
	}

	for i := 0; i < arm.NumJoints; i++ {
		c.Segment(vp, joints[i], joints[i+1])
		c.Joint(vp, joints[i], 1)
	}
	c.Joint(vp, joints[arm.NumJoints], 1)
}
