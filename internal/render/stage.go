package render

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	gridExtent     = 10
	gridMinorStep  = 1
	gridMajorStep  = 5
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220

	minDistance   = 1.5
	maxDistance   = 20
	maxPitch      = 1.4
	orbitSpeed    = 0.01
	zoomStep      = 0.5
	defaultYaw    = 0.6
	defaultPitch  = 0.25
	defaultDist   = 5.5
	defaultFocusY = 1.0
)

// Stage holds the orbit camera around the character and draws the floor grid.
// Drag with the left mouse button to orbit and use the wheel to zoom.
type Stage struct {
	Camera      rl.Camera3D
	GridVisible bool
	yaw         float32
	pitch       float32
	distance    float32
}

// NewStage returns a stage looking at the character's chest.
func NewStage() *Stage {
	s := &Stage{GridVisible: true}
	s.Camera.Target = rl.NewVector3(0, defaultFocusY, 0)
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = 45
	s.Camera.Projection = rl.CameraPerspective
	s.Reset()
	return s
}

// Reset restores the default orbit.
func (s *Stage) Reset() {
	s.yaw, s.pitch, s.distance = defaultYaw, defaultPitch, defaultDist
	s.place()
}

// SetGridVisible sets whether the floor grid is drawn.
func (s *Stage) SetGridVisible(visible bool) {
	s.GridVisible = visible
}

// Update applies mouse orbit and zoom. Input is ignored while captured is true (console open).
func (s *Stage) Update(captured bool) {
	if captured {
		return
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		s.yaw -= d.X * orbitSpeed
		s.pitch = clamp(s.pitch+d.Y*orbitSpeed, -maxPitch, maxPitch)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		s.distance = clamp(s.distance-wheel*zoomStep, minDistance, maxDistance)
	}
	s.place()
}

func (s *Stage) place() {
	t := s.Camera.Target
	cp := math32.Cos(s.pitch)
	s.Camera.Position = rl.NewVector3(
		t.X+s.distance*cp*math32.Sin(s.yaw),
		t.Y+s.distance*math32.Sin(s.pitch),
		t.Z+s.distance*cp*math32.Cos(s.yaw),
	)
}

// Draw renders the grid, then calls drawCharacter inside the same 3D pass.
func (s *Stage) Draw(drawCharacter func()) {
	rl.BeginMode3D(s.Camera)
	if s.GridVisible {
		drawGrid()
	}
	if drawCharacter != nil {
		drawCharacter()
	}
	rl.EndMode3D()
}

// drawGrid draws the floor grid on the XZ plane with major/minor lines and the X and Z axes.
func drawGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX := rl.NewColor(220, 80, 80, axisLineAlpha)
	axisZ := rl.NewColor(80, 80, 220, axisLineAlpha)

	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(i), 0, -gridExtent
		end.X, end.Y, end.Z = float32(i), 0, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -gridExtent, 0, float32(i)
		end.X, end.Y, end.Z = gridExtent, 0, float32(i)
		rl.DrawLine3D(start, end, c)
	}
	rl.DrawLine3D(rl.NewVector3(-gridExtent, 0, 0), rl.NewVector3(gridExtent, 0, 0), axisX)
	rl.DrawLine3D(rl.NewVector3(0, 0, -gridExtent), rl.NewVector3(0, 0, gridExtent), axisZ)
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
