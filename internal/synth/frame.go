package synth

import (
	"avatar-studio/internal/avatar"

	"github.com/goki/mat32"
)

// Frame holds the body anchors every generator positions against. All dimensions are
// affine in the physique scalars, in meters, with the feet at y=0.
type Frame struct {
	HeightScale float32

	HeadCenter mat32.Vec3
	HeadRadius float32

	NeckRadius float32
	NeckLength float32

	ShoulderY      float32
	ShoulderRadius float32
	WaistY         float32
	WaistRadius    float32
	HipY           float32
	HipRadius      float32
	TorsoHeight    float32
	TorsoDepth     float32

	ArmRadius float32
	ArmLength float32
	ArmX      float32

	LegRadius float32
	LegLength float32
	LegX      float32
}

// NewFrame derives the anchors from a configuration.
func NewFrame(c avatar.Config) Frame {
	p := c.Physique
	female := c.Gender == avatar.Female
	f := Frame{}
	f.HeightScale = 0.85 + 0.3*float32(p.Height)

	f.LegLength = 0.78 * f.HeightScale
	f.LegRadius = 0.048 + 0.02*float32(p.Hips)
	f.HipY = f.LegLength
	f.HipRadius = 0.11 + 0.06*float32(p.Hips)
	if female {
		f.HipRadius += 0.015
	}
	f.LegX = f.HipRadius * 0.5

	f.TorsoHeight = 0.48 * f.HeightScale
	f.ShoulderY = f.HipY + f.TorsoHeight
	f.WaistY = f.HipY + 0.4*f.TorsoHeight
	f.ShoulderRadius = 0.13 + 0.06*float32(p.Width)
	if !female {
		f.ShoulderRadius += 0.02
	}
	f.WaistRadius = 0.09 + 0.06*float32(p.Waist)
	f.TorsoDepth = 0.75
	if female {
		f.TorsoDepth = 0.8 + 0.4*float32(p.Bust)
	}

	f.ArmRadius = 0.032 + 0.015*float32(p.Width)
	f.ArmLength = 0.55 * f.HeightScale
	f.ArmX = f.ShoulderRadius + f.ArmRadius + 0.005

	f.NeckRadius = 0.04
	f.NeckLength = 0.07 * f.HeightScale
	f.HeadRadius = 0.11 + 0.01*float32(p.Height)
	f.HeadCenter = mat32.NewVec3(0, f.ShoulderY+f.NeckLength+f.HeadRadius*0.9, 0)
	return f
}
