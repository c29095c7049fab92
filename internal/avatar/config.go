package avatar

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Gender selects the base silhouette. Only Male and Female are valid.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Config is the declarative record that fully determines one avatar.
// Treat values as immutable: edits go through Clone and then patch the copy.
// Field order is the canonical serialization order.
type Config struct {
	Gender      Gender      `json:"gender" yaml:"gender"`
	FaceID      int         `json:"faceId" yaml:"faceId"`
	BaseBody    string      `json:"baseBody" yaml:"baseBody"`
	Hair        Hair        `json:"hair" yaml:"hair"`
	Eyes        Eyes        `json:"eyes" yaml:"eyes"`
	Outfit      Outfit      `json:"outfit" yaml:"outfit"`
	Accessories []Accessory `json:"accessories" yaml:"accessories"`
	Physique    Physique    `json:"physique" yaml:"physique"`
	SkinTone    string      `json:"skinTone" yaml:"skinTone"`
}

// Hair selects a hairstyle and its root-to-tip coloring. Gloss is intended in [0,1].
type Hair struct {
	Style     string  `json:"style" yaml:"style"`
	RootColor string  `json:"rootColor" yaml:"rootColor"`
	TipColor  string  `json:"tipColor" yaml:"tipColor"`
	Gloss     float64 `json:"gloss" yaml:"gloss"`
}

type Eyes struct {
	IrisShape  float64 `json:"irisShape" yaml:"irisShape"`
	ColorLeft  string  `json:"colorLeft" yaml:"colorLeft"`
	ColorRight string  `json:"colorRight" yaml:"colorRight"`
}

type Outfit struct {
	ID             string `json:"id" yaml:"id"`
	PrimaryColor   string `json:"primaryColor" yaml:"primaryColor"`
	SecondaryColor string `json:"secondaryColor" yaml:"secondaryColor"`
}

// Accessory places one accessory on the character. Pos and Rot (radians) are in the
// character's local space; Scale is uniform.
type Accessory struct {
	ID    string     `json:"id" yaml:"id"`
	Pos   [3]float64 `json:"pos" yaml:"pos,flow"`
	Rot   [3]float64 `json:"rot" yaml:"rot,flow"`
	Scale float64    `json:"scale" yaml:"scale"`
}

// Physique scalars are intended in [0,1]. Out-of-range values are accepted and
// extrapolated by the body formulas.
type Physique struct {
	Height float64 `json:"height" yaml:"height"`
	Width  float64 `json:"width" yaml:"width"`
	Bust   float64 `json:"bust" yaml:"bust"`
	Waist  float64 `json:"waist" yaml:"waist"`
	Hips   float64 `json:"hips" yaml:"hips"`
}

// ErrInvalidConfig is returned when a candidate document fails Validate.
// Callers receive Default() alongside it.
var ErrInvalidConfig = errors.New("avatar: invalid configuration")

// Hair styles.
const (
	StyleShort     = "short"
	StyleLong      = "long"
	StyleTwinTails = "twin-tails"
	StylePonytail  = "ponytail"
	StyleBob       = "bob"
	StyleMessy     = "messy"
)

// Outfit ids.
const (
	OutfitCasual = "casual"
	OutfitSchool = "school"
	OutfitDress  = "dress"
	OutfitSporty = "sporty"
)

// Accessory ids.
const (
	AccessoryHornsSmall = "horns-small"
	AccessoryHornsLarge = "horns-large"
	AccessoryTailShort  = "tail-short"
	AccessoryTailLong   = "tail-long"
	AccessoryGoggles    = "goggles"
	AccessoryMask       = "mask"
)

var (
	styles      = []string{StyleShort, StyleLong, StyleTwinTails, StylePonytail, StyleBob, StyleMessy}
	outfits     = []string{OutfitCasual, OutfitSchool, OutfitDress, OutfitSporty}
	accessories = []string{AccessoryHornsSmall, AccessoryHornsLarge, AccessoryTailShort, AccessoryTailLong, AccessoryGoggles, AccessoryMask}
)

// Styles returns the known hair style ids.
func Styles() []string { return append([]string(nil), styles...) }

// Outfits returns the known outfit ids.
func Outfits() []string { return append([]string(nil), outfits...) }

// AccessoryIDs returns the known accessory ids.
func AccessoryIDs() []string { return append([]string(nil), accessories...) }

// ValidGender reports whether g is one of the two supported values.
func ValidGender(g Gender) bool {
	return g == Male || g == Female
}

// ValidColor reports whether s is a "#rrggbb" or "#rgb" hex color.
func ValidColor(s string) bool {
	if len(s) != 7 && len(s) != 4 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, c := range strings.ToLower(s[1:]) {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	_, err := colorful.Hex(s)
	return err == nil
}

// ParseColor parses a hex color string.
func ParseColor(s string) (colorful.Color, error) {
	if !ValidColor(s) {
		return colorful.Color{}, fmt.Errorf("avatar: %q is not a hex color", s)
	}
	return colorful.Hex(s)
}
