// Package cli holds the cobra command tree of the avatar binary. The windowed viewer
// command is added by cmd/avatar so this package stays free of the GPU stack.
package cli

import (
	"fmt"

	"avatar-studio/internal/env"
	"avatar-studio/internal/logger"
	"avatar-studio/internal/viewerconfig"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is reported by --version.
var Version = "dev"

// App is the state shared by every subcommand. Prefs and Log are filled in before any
// subcommand runs.
type App struct {
	PrefsPath string
	EnvFile   string
	LogFile   string
	LogLevel  string
	Quiet     bool
	Prefs     viewerconfig.Prefs
	Log       *logger.Logger
}

// Init loads the dotenv file and preferences, then builds the logger. AVATAR_* variables
// override the prefs file and flags override both.
func (a *App) Init() error {
	if err := env.Load(a.EnvFile); err != nil {
		return err
	}
	prefs, err := viewerconfig.Load(a.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}
	if a.LogFile != "" {
		prefs.Log.File = a.LogFile
	}
	if a.LogLevel != "" {
		prefs.Log.Level = a.LogLevel
	}
	a.Prefs = prefs
	a.Log = logger.New(logger.Options{
		Level:      prefs.Log.Level,
		File:       prefs.Log.File,
		MaxSizeMB:  prefs.Log.MaxSizeMB,
		MaxBackups: prefs.Log.MaxBackups,
		MaxAgeDays: prefs.Log.MaxAgeDays,
		Quiet:      a.Quiet,
	})
	a.Log.Debug("prefs loaded", zap.String("path", a.PrefsPath), zap.String("export_dir", prefs.ExportDir))
	return nil
}

// NewRootCmd returns the command tree with the headless subcommands attached.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "avatar",
		Short:         "Build, view and export stylized 3D avatars.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Log != nil {
				_ = app.Log.Sync()
			}
		},
	}
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")
	root.PersistentFlags().StringVar(&app.PrefsPath, "prefs", viewerconfig.DefaultPath, "viewer preferences file")
	root.PersistentFlags().StringVar(&app.EnvFile, "env-file", env.DefaultFile, "dotenv file with AVATAR_* overrides")
	root.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "log file (default from prefs)")
	root.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "debug, info, warn or error (default from prefs)")
	root.PersistentFlags().BoolVarP(&app.Quiet, "quiet", "q", false, "do not log to stderr")

	root.AddCommand(
		newExportCmd(app),
		newRandomizeCmd(app),
		newValidateCmd(app),
		newUnpackCmd(app),
	)
	return root
}
