package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is an orthographic view onto the x-z plane. Pitch and Yaw tilt it
// away from looking straight down the y axis.
type Camera struct {
	Pitch, Yaw float32
	Zoom       float64
	// Extent is the distance that reaches the canvas edge at Zoom 1.
	Extent float64
	// Log compresses distance so that bodies inside Knee keep their spacing
	// while far ones still fit.
	Log  bool
	Knee float64
}

func NewCamera(extent float64) *Camera {
	return &Camera{Zoom: 1, Extent: extent, Knee: extent / 1000}
}

func (c *Camera) RotatePitch(a float32) { c.Pitch += a }
func (c *Camera) RotateYaw(a float32)   { c.Yaw += a }
func (c *Camera) ZoomIn()               { c.Zoom = math.Min(1000, c.Zoom*1.25) }
func (c *Camera) ZoomOut()              { c.Zoom = math.Max(0.01, c.Zoom/1.25) }

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(c.Pitch).Mul4(mgl32.HomogRotate3DY(c.Yaw))
}

func (c *Camera) radial(r float64) float64 {
	if c.Extent <= 0 {
		return 0
	}
	if c.Log && c.Knee > 0 {
		return math.Log1p(r/c.Knee) / math.Log1p(c.Extent/c.Knee)
	}
	return r / c.Extent
}

// Project maps a camera-relative point onto a w x h dot grid. ok is false
// when the point falls outside it.
func (c *Camera) Project(p mgl32.Vec3, w, h int) (x, y int, ok bool) {
	v := c.View().Mul4x1(p.Vec4(1))
	sx, sy := float64(v.X()), float64(v.Z())

	half := float64(min(w, h)) / 2
	if r := math.Hypot(sx, sy); r > 0 {
		k := c.Zoom * half * c.radial(r) / r
		sx *= k
		sy *= k
	}
	x = w/2 + int(math.Round(sx))
	y = h/2 + int(math.Round(sy))
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}
