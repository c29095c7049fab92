package main

import (
	"errors"

	"avatar-studio/internal/avatar"
	"avatar-studio/internal/cli"
	"avatar-studio/internal/console"
	"avatar-studio/internal/debug"
	"avatar-studio/internal/graphics"
	"avatar-studio/internal/render"
	"avatar-studio/internal/studio"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// hotkeys map a key to the console line it stands for. Only read while the console is closed.
var hotkeys = []struct {
	key  int32
	line string
}{
	{rl.KeyR, "cmd randomize"},
	{rl.KeyG, "cmd grid"},
	{rl.KeyE, "cmd export"},
	{rl.KeyC, "cmd copy"},
	{rl.KeyT, "cmd thumb"},
	{rl.KeyF3, "cmd debug -fps -mem -stats"},
}

func newViewCmd(app *cli.App) *cobra.Command {
	var (
		cfgPath    string
		fullscreen bool
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive viewer",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// the console draws the log; stderr would only duplicate it
			app.Quiet = true
			return app.Init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return view(app, cfgPath, fullscreen)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "character config to open (default from prefs)")
	cmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "open fullscreen")
	return cmd
}

func view(app *cli.App, cfgPath string, fullscreen bool) error {
	log := app.Log.Logger
	backend := render.NewBackend(log)
	st := studio.New(app.Prefs,
		studio.WithUploader(backend),
		studio.WithClipboard(render.Clipboard{}),
		studio.WithCapture(render.CaptureFrame),
		studio.WithPrefsPath(app.PrefsPath),
		studio.WithLogger(log),
	)
	stage := render.NewStage()
	con := console.New(app.Log, st.Submit)
	dbg := debug.New(st.Stats)

	setup := func() error {
		if cfgPath == "" {
			cfgPath = app.Prefs.ConfigPath
		}
		cfg := avatar.Default()
		if cfgPath != "" {
			loaded, err := avatar.LoadOrDefault(cfgPath)
			if err != nil {
				log.Warn("config not loaded, using default", zap.String("path", cfgPath), zap.Error(err))
			}
			cfg = loaded
		}
		if err := st.Start(cfg); err != nil && !errors.Is(err, avatar.ErrInvalidConfig) {
			return err
		}
		return nil
	}
	update := func(dt float32) {
		con.Update()
		prefs := st.Prefs()
		stage.SetGridVisible(prefs.GridVisible)
		dbg.Set(prefs.ShowFPS, prefs.ShowMemAlloc, prefs.ShowStats)
		stage.Update(con.IsOpen())
		if !con.IsOpen() {
			for _, h := range hotkeys {
				if rl.IsKeyPressed(h.key) {
					_ = st.Submit(h.line)
				}
			}
		}
		st.Tick(dt)
	}
	draw := func() {
		stage.Draw(func() { backend.Draw(st.Stage()) })
		con.Draw()
		dbg.Draw()
	}
	teardown := func() {
		st.Close()
		backend.Close()
	}

	return graphics.Run(graphics.Window{Title: "Avatar Studio", Fullscreen: fullscreen}, setup, update, draw, teardown)
}
