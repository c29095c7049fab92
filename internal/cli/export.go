package cli

import (
	"fmt"

	"avatar-studio/internal/assembler"
	"avatar-studio/internal/avatar"
	"avatar-studio/internal/export"
	"avatar-studio/internal/synth"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadConfig reads path, or returns the default config when path is empty.
func loadConfig(path string) (avatar.Config, error) {
	if path == "" {
		return avatar.Default(), nil
	}
	return avatar.Load(path)
}

func newExportCmd(app *App) *cobra.Command {
	var (
		cfgPath string
		format  string
		outDir  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a config, glb or zip bundle without opening a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = app.Prefs.ExportDir
			}
			log := app.Log.Logger
			exp := export.NewExporter(outDir, export.WithExportLogger(log))

			var path string
			switch format {
			case "json":
				path, err = exp.ExportConfig(cfg)
			case "glb", "zip":
				a := assembler.New(synth.New(synth.WithLogger(log)),
					assembler.WithLogger(log),
					assembler.WithOutline(app.Prefs.Outline.Width, app.Prefs.Outline.Color))
				a.SetOutline(app.Prefs.Outline.Enabled)
				defer a.Close()
				root, aerr := a.Assemble(cfg)
				if aerr != nil {
					return aerr
				}
				var job *export.Job
				if format == "zip" {
					job = exp.ExportBundle(cfg, root)
				} else {
					job = exp.ExportScene(root)
				}
				path, err = job.Wait(cmd.Context())
			default:
				return fmt.Errorf("unknown format %q (want json, glb or zip)", format)
			}
			if err != nil {
				return err
			}
			log.Info("exported", zap.String("format", format), zap.String("path", path))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "character config (JSON or YAML); default character when empty")
	cmd.Flags().StringVarP(&format, "format", "f", "zip", "json, glb or zip")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from prefs)")
	return cmd
}
