package studio

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"avatar-studio/internal/avatar"

	"go.uber.org/zap"
)

var errArgs = errors.New("bad arguments")

// registerCommands wires the console vocabulary onto the studio.
func (s *Studio) registerCommands() {
	s.reg.Register("help", "list commands, or show the flags of one", func(fs *flag.FlagSet) func() error {
		return func() error {
			if name := fs.Arg(0); name != "" {
				s.log.Info(name + "\n" + s.reg.Usage(name))
				return nil
			}
			for _, line := range s.reg.Help() {
				s.log.Info(line)
			}
			return nil
		}
	})

	s.reg.Register("gender", "set gender: male | female", func(fs *flag.FlagSet) func() error {
		return func() error {
			g := avatar.Gender(fs.Arg(0))
			if !avatar.ValidGender(g) {
				return fmt.Errorf("%w: gender must be male or female", errArgs)
			}
			return s.Edit(func(c *avatar.Config) {
				c.Gender = g
				c.BaseBody = "base-" + string(g)
			})
		}
	})

	s.reg.Register("hair", "edit hair: -style -root -tip -gloss", func(fs *flag.FlagSet) func() error {
		style := fs.String("style", "", "one of "+strings.Join(avatar.Styles(), ", "))
		root := fs.String("root", "", "root color (#rrggbb)")
		tip := fs.String("tip", "", "tip color (#rrggbb)")
		gloss := fs.Float64("gloss", 0, "gloss in [0,1]")
		return func() error {
			return s.Edit(func(c *avatar.Config) {
				fs.Visit(func(f *flag.Flag) {
					switch f.Name {
					case "style":
						c.Hair.Style = *style
					case "root":
						c.Hair.RootColor = *root
					case "tip":
						c.Hair.TipColor = *tip
					case "gloss":
						c.Hair.Gloss = *gloss
					}
				})
			})
		}
	})

	s.reg.Register("eyes", "edit eyes: -left -right -color -iris", func(fs *flag.FlagSet) func() error {
		left := fs.String("left", "", "left iris color")
		right := fs.String("right", "", "right iris color")
		both := fs.String("color", "", "color for both eyes")
		iris := fs.Float64("iris", 0, "iris shape in [0,1]")
		return func() error {
			return s.Edit(func(c *avatar.Config) {
				fs.Visit(func(f *flag.Flag) {
					switch f.Name {
					case "left":
						c.Eyes.ColorLeft = *left
					case "right":
						c.Eyes.ColorRight = *right
					case "color":
						c.Eyes.ColorLeft, c.Eyes.ColorRight = *both, *both
					case "iris":
						c.Eyes.IrisShape = *iris
					}
				})
			})
		}
	})

	s.reg.Register("outfit", "edit outfit: -id -primary -secondary", func(fs *flag.FlagSet) func() error {
		id := fs.String("id", "", "one of "+strings.Join(avatar.Outfits(), ", "))
		primary := fs.String("primary", "", "top color")
		secondary := fs.String("secondary", "", "bottom color")
		return func() error {
			return s.Edit(func(c *avatar.Config) {
				fs.Visit(func(f *flag.Flag) {
					switch f.Name {
					case "id":
						c.Outfit.ID = *id
					case "primary":
						c.Outfit.PrimaryColor = *primary
					case "secondary":
						c.Outfit.SecondaryColor = *secondary
					}
				})
			})
		}
	})

	s.reg.Register("skin", "set skin tone: -tone #rrggbb", func(fs *flag.FlagSet) func() error {
		tone := fs.String("tone", "", "skin color")
		return func() error {
			return s.Edit(func(c *avatar.Config) { c.SkinTone = *tone })
		}
	})

	s.reg.Register("face", "set face id: -id n", func(fs *flag.FlagSet) func() error {
		id := fs.Int("id", 0, "face id")
		return func() error {
			return s.Edit(func(c *avatar.Config) { c.FaceID = *id })
		}
	})

	s.reg.Register("physique", "edit body: -height -width -bust -waist -hips", func(fs *flag.FlagSet) func() error {
		p := s.cfg.Physique
		fs.Float64Var(&p.Height, "height", p.Height, "height in [0,1]")
		fs.Float64Var(&p.Width, "width", p.Width, "width in [0,1]")
		fs.Float64Var(&p.Bust, "bust", p.Bust, "bust in [0,1]")
		fs.Float64Var(&p.Waist, "waist", p.Waist, "waist in [0,1]")
		fs.Float64Var(&p.Hips, "hips", p.Hips, "hips in [0,1]")
		return func() error {
			return s.Edit(func(c *avatar.Config) { c.Physique = p })
		}
	})

	s.reg.Register("accessory", "edit accessories: -add id [-pos x,y,z -rot x,y,z -scale s] | -remove i | -clear", func(fs *flag.FlagSet) func() error {
		add := fs.String("add", "", "accessory id: "+strings.Join(avatar.AccessoryIDs(), ", "))
		remove := fs.Int("remove", -1, "index to remove")
		clearAll := fs.Bool("clear", false, "remove every accessory")
		pos := fs.String("pos", "0,0,0", "offset x,y,z")
		rot := fs.String("rot", "0,0,0", "rotation x,y,z in radians")
		scale := fs.Float64("scale", 1, "uniform scale")
		return func() error {
			switch {
			case *clearAll:
				return s.Edit(func(c *avatar.Config) { c.Accessories = []avatar.Accessory{} })
			case *remove >= 0:
				if *remove >= len(s.cfg.Accessories) {
					return fmt.Errorf("%w: no accessory %d", errArgs, *remove)
				}
				return s.Edit(func(c *avatar.Config) {
					c.Accessories = append(c.Accessories[:*remove], c.Accessories[*remove+1:]...)
				})
			case *add != "":
				p, err := parseVec3(*pos)
				if err != nil {
					return err
				}
				r, err := parseVec3(*rot)
				if err != nil {
					return err
				}
				return s.Edit(func(c *avatar.Config) {
					c.Accessories = append(c.Accessories, avatar.Accessory{ID: *add, Pos: p, Rot: r, Scale: *scale})
				})
			}
			return fmt.Errorf("%w: need -add, -remove or -clear", errArgs)
		}
	})

	s.reg.Register("randomize", "apply a random character", func(*flag.FlagSet) func() error {
		return s.Randomize
	})

	s.reg.Register("reset", "apply the default character", func(*flag.FlagSet) func() error {
		return s.Reset
	})

	s.reg.Register("load", "apply a config file: load path", func(fs *flag.FlagSet) func() error {
		return func() error {
			if fs.NArg() != 1 {
				return fmt.Errorf("%w: load takes one path", errArgs)
			}
			return s.LoadFile(fs.Arg(0))
		}
	})

	s.reg.Register("outline", "outline settings: -on -width -color", func(fs *flag.FlagSet) func() error {
		o := s.prefs.Outline
		fs.BoolVar(&o.Enabled, "on", o.Enabled, "draw outlines")
		width := fs.Float64("width", float64(o.Width), "hull inflation")
		fs.StringVar(&o.Color, "color", o.Color, "ink color")
		return func() error {
			return s.SetOutline(o.Enabled, float32(*width), o.Color)
		}
	})

	s.reg.Register("soft", "toggle damped soft-body motion: -on", func(fs *flag.FlagSet) func() error {
		on := fs.Bool("on", !s.prefs.SoftBody.Enabled, "enable soft-body motion")
		return func() error {
			s.SetSoftBody(*on)
			return nil
		}
	})

	s.reg.Register("grid", "toggle the floor grid: -on", func(fs *flag.FlagSet) func() error {
		on := fs.Bool("on", !s.prefs.GridVisible, "show the grid")
		return func() error {
			s.SetGridVisible(*on)
			return nil
		}
	})

	s.reg.Register("debug", "overlays: -fps -mem -stats", func(fs *flag.FlagSet) func() error {
		fps := fs.Bool("fps", s.prefs.ShowFPS, "show frames per second")
		mem := fs.Bool("mem", s.prefs.ShowMemAlloc, "show heap allocation")
		stats := fs.Bool("stats", s.prefs.ShowStats, "show mesh and vertex counts")
		return func() error {
			s.SetOverlay(*fps, *mem, *stats)
			return nil
		}
	})

	s.reg.Register("export", "export: -format json | glb | zip", func(fs *flag.FlagSet) func() error {
		format := fs.String("format", "zip", "json, glb or zip")
		return func() error {
			switch *format {
			case "json":
				_, err := s.ExportConfig()
				return err
			case "glb":
				j := s.ExportScene()
				s.log.Info("export started", zap.String("job", j.ID), zap.String("kind", j.Kind))
			case "zip":
				j := s.ExportBundle()
				s.log.Info("export started", zap.String("job", j.ID), zap.String("kind", j.Kind))
			default:
				return fmt.Errorf("%w: unknown format %q", errArgs, *format)
			}
			return nil
		}
	})

	s.reg.Register("copy", "copy the config text to the clipboard", func(*flag.FlagSet) func() error {
		return func() error {
			if !s.CopyConfig() {
				return errors.New("clipboard unavailable")
			}
			return nil
		}
	})

	s.reg.Register("thumb", "save a thumbnail of the current frame", func(*flag.FlagSet) func() error {
		return func() error {
			_, err := s.Thumbnail()
			return err
		}
	})

	s.reg.Register("prefs", "save viewer preferences", func(*flag.FlagSet) func() error {
		return s.SavePrefs
	})
}

// parseVec3 reads "x,y,z".
func parseVec3(s string) ([3]float64, error) {
	var v [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("%w: %q is not x,y,z", errArgs, s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v, fmt.Errorf("%w: %q is not x,y,z", errArgs, s)
		}
		v[i] = f
	}
	return v, nil
}
