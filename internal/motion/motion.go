// Package motion perturbs the character root every frame: a periodic idle (breathing,
// sway, bob) and a damped variant that eases toward a moving target for a softer look.
// Both are functions of elapsed time; the damped model also reads the previous pose.
package motion

import (
	"avatar-studio/internal/scene"

	"github.com/chewxy/math32"
)

// Idle amplitudes and angular frequencies (radians per second).
const (
	BreathAmp  = 0.01
	BreathFreq = 1.5
	TurnAmp    = 0.02
	TurnFreq   = 0.8
	BobAmp     = 0.005
	BobFreq    = 1.2

	// baseRate is the update rate the damping constant is tuned for.
	baseRate = 60
)

// Pose is the part of the root transform the animator owns.
type Pose struct {
	ScaleY float32
	RotY   float32
	PosY   float32
	SwayX  float32
	SwayY  float32
}

// Rest is the pose at t=0 and after a reset.
var Rest = Pose{ScaleY: 1}

// Periodic returns the idle pose at t seconds.
func Periodic(t float32) Pose {
	return Pose{
		ScaleY: 1 + math32.Sin(t*BreathFreq)*BreathAmp,
		RotY:   math32.Sin(t*TurnFreq) * TurnAmp,
		PosY:   math32.Sin(t*BobFreq) * BobAmp,
	}
}

// Params tunes the damped model. Damping is expected in (0,1); MaxDisplacement bounds
// the sway offsets.
type Params struct {
	Stiffness       float32
	Damping         float32
	MaxDisplacement float32
}

// DefaultParams are the soft-body defaults of the viewer.
func DefaultParams() Params {
	return Params{Stiffness: 0.5, Damping: 0.15, MaxDisplacement: 0.02}
}

// target is the pose the damped model chases. Stiffer bodies breathe and sway faster.
func target(p Params, t float32) Pose {
	rate := 0.5 + clamp01(p.Stiffness)
	return Pose{
		ScaleY: 1 + math32.Sin(t*BreathFreq*rate)*BreathAmp*1.5,
		RotY:   math32.Sin(t*TurnFreq*rate) * TurnAmp,
		SwayX:  math32.Sin(t*0.9*rate) * 0.03,
		SwayY:  math32.Sin(t*1.7*rate) * 0.015,
	}
}

// Damped eases current toward the target at time t by the factor (1-d)^(dt*60), then
// clamps the sway offsets to ±MaxDisplacement. It is a first-order filter and cannot
// overshoot for any damping in (0,1).
func Damped(p Params, t, dt float32, current Pose) Pose {
	goal := target(p, t)
	d := clamp01(p.Damping)
	factor := math32.Pow(1-d, dt*baseRate)
	if !(factor >= 0) || factor > 1 {
		// NaN from a non-finite dt lands here too
		factor = 0
	}
	next := Pose{
		ScaleY: lerp(current.ScaleY, goal.ScaleY, factor),
		RotY:   lerp(current.RotY, goal.RotY, factor),
		PosY:   lerp(current.PosY, goal.PosY, factor),
		SwayX:  lerp(current.SwayX, goal.SwayX, factor),
		SwayY:  lerp(current.SwayY, goal.SwayY, factor),
	}
	limit := math32.Abs(p.MaxDisplacement)
	if limit != limit {
		limit = 0
	}
	next.SwayX = clamp(next.SwayX, limit)
	next.SwayY = clamp(next.SwayY, limit)
	return next
}

// Apply writes pose into the root transform.
func Apply(root *scene.Node, pose Pose) {
	if root == nil {
		return
	}
	root.Transform.Scale.Y = pose.ScaleY
	root.Transform.Rotation.Y = pose.RotY
	root.Transform.Position.X = pose.SwayX
	root.Transform.Position.Y = pose.PosY + pose.SwayY
}

func lerp(a, b, f float32) float32 {
	return a + (b-a)*f
}

// clamp limits v to [-limit, limit]; NaN becomes 0.
func clamp(v, limit float32) float32 {
	switch {
	case v != v:
		return 0
	case v > limit:
		return limit
	case v < -limit:
		return -limit
	}
	return v
}

func clamp01(v float32) float32 {
	switch {
	case v != v || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
