package avatar

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// template is the process-wide baseline. It is only ever read through Default.
var template = Config{
	Gender:   Female,
	FaceID:   0,
	BaseBody: "base-female",
	Hair: Hair{
		Style:     StyleLong,
		RootColor: "#3b2a20",
		TipColor:  "#8a5a3c",
		Gloss:     0.6,
	},
	Eyes: Eyes{
		IrisShape:  0.5,
		ColorLeft:  "#4a7bd1",
		ColorRight: "#4a7bd1",
	},
	Outfit: Outfit{
		ID:             OutfitCasual,
		PrimaryColor:   "#e85a71",
		SecondaryColor: "#2b2d42",
	},
	Accessories: []Accessory{},
	Physique: Physique{
		Height: 0.5,
		Width:  0.5,
		Bust:   0.5,
		Waist:  0.5,
		Hips:   0.5,
	},
	SkinTone: "#f5d0b5",
}

// Default returns a fresh copy of the baseline configuration.
func Default() Config {
	return Clone(template)
}

// Clone returns a deep copy of c that shares no memory with it.
func Clone(c Config) Config {
	var out Config
	if err := copier.CopyWithOption(&out, &c, copier.Option{CaseSensitive: true, DeepCopy: true}); err != nil {
		// Config holds only values and one slice of values; copier cannot fail on it
		panic(fmt.Sprintf("avatar: clone: %v", err))
	}
	// copier collapses an empty slice to nil; nil and empty serialize differently.
	if c.Accessories != nil && out.Accessories == nil {
		out.Accessories = []Accessory{}
	}
	return out
}
