package avatar

import (
	"math/rand/v2"
)

// palette is the fixed color pool Randomize draws from.
var palette = []string{
	"#1b1b1b", "#3b2a20", "#8a5a3c", "#d9b38c", "#f2e6d0",
	"#c0392b", "#e85a71", "#f4a6c1", "#8e44ad", "#4a7bd1",
	"#2e86de", "#48c9b0", "#27ae60", "#f1c40f", "#e67e22",
	"#2b2d42", "#ffffff", "#95a5a6",
}

// skinTones is the subset of the palette used for skin.
var skinTones = []string{"#f9e0cc", "#f5d0b5", "#e0b08a", "#c68b5e", "#8d5a3b", "#5c3a24"}

// Palette returns the fixed color pool used by Randomize.
func Palette() []string { return append([]string(nil), palette...) }

const (
	randMin = 0.3
	randMax = 0.7
	// maxRandomAccessories is inclusive.
	maxRandomAccessories = 2
)

// Randomize returns a configuration drawn from the fixed domains using the global source.
func Randomize() Config {
	return RandomizeWith(nil)
}

// RandomizeWith is Randomize with an explicit source. A nil r uses the global source.
// The result always satisfies Validate.
func RandomizeWith(r *rand.Rand) Config {
	rng := newPicker(r)
	c := Default()
	if rng.intN(2) == 0 {
		c.Gender = Male
		c.BaseBody = "base-male"
	} else {
		c.Gender = Female
		c.BaseBody = "base-female"
	}
	c.FaceID = rng.intN(4)
	c.Hair = Hair{
		Style:     pick(rng, styles),
		RootColor: pick(rng, palette),
		TipColor:  pick(rng, palette),
		Gloss:     rng.between(randMin, randMax),
	}
	eye := pick(rng, palette)
	c.Eyes = Eyes{IrisShape: rng.between(randMin, randMax), ColorLeft: eye, ColorRight: eye}
	c.Outfit = Outfit{
		ID:             pick(rng, outfits),
		PrimaryColor:   pick(rng, palette),
		SecondaryColor: pick(rng, palette),
	}
	c.Physique = Physique{
		Height: rng.between(randMin, randMax),
		Width:  rng.between(randMin, randMax),
		Bust:   rng.between(randMin, randMax),
		Waist:  rng.between(randMin, randMax),
		Hips:   rng.between(randMin, randMax),
	}
	c.SkinTone = pick(rng, skinTones)

	n := rng.intN(maxRandomAccessories + 1)
	c.Accessories = make([]Accessory, 0, n)
	for range n {
		c.Accessories = append(c.Accessories, Accessory{
			ID:    pick(rng, accessories),
			Pos:   [3]float64{rng.between(-0.05, 0.05), rng.between(-0.05, 0.05), rng.between(-0.05, 0.05)},
			Rot:   [3]float64{rng.between(-0.2, 0.2), rng.between(-0.2, 0.2), rng.between(-0.2, 0.2)},
			Scale: rng.between(0.8, 1.2),
		})
	}
	return c
}

type picker struct {
	r *rand.Rand
}

func newPicker(r *rand.Rand) picker { return picker{r: r} }

func (p picker) intN(n int) int {
	if p.r == nil {
		return rand.IntN(n)
	}
	return p.r.IntN(n)
}

func (p picker) float() float64 {
	if p.r == nil {
		return rand.Float64()
	}
	return p.r.Float64()
}

func (p picker) between(lo, hi float64) float64 {
	return lo + p.float()*(hi-lo)
}

func pick(p picker, from []string) string {
	return from[p.intN(len(from))]
}
