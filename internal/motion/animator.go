package motion

import "avatar-studio/internal/scene"

// Animator drives the root once per rendered frame. Soft selects the damped model;
// otherwise the periodic idle is applied. The last pose is its only state.
type Animator struct {
	Soft    bool
	Params  Params
	Elapsed float32
	pose    Pose
}

// NewAnimator returns an animator at rest with the default soft-body parameters.
func NewAnimator(soft bool) *Animator {
	return &Animator{Soft: soft, Params: DefaultParams(), pose: Rest}
}

// Step advances the clock by dt seconds, computes the next pose and applies it to root.
func (a *Animator) Step(root *scene.Node, dt float32) Pose {
	if dt < 0 || dt != dt {
		dt = 0
	}
	a.Elapsed += dt
	if a.Soft {
		a.pose = Damped(a.Params, a.Elapsed, dt, a.pose)
	} else {
		a.pose = Periodic(a.Elapsed)
	}
	Apply(root, a.pose)
	return a.pose
}

// Pose returns the last applied pose.
func (a *Animator) Pose() Pose {
	return a.pose
}

// Reset returns the clock and pose to rest, e.g. after the root is replaced.
func (a *Animator) Reset() {
	a.Elapsed = 0
	a.pose = Rest
}
