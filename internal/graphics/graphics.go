package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window describes the viewer window. Zero sizes fall back to 1280x720.
type Window struct {
	Title      string
	Width      int32
	Height     int32
	Fullscreen bool
}

// background is a soft studio gray so dark outlines read against it.
var background = rl.NewColor(52, 56, 64, 255)

// Run opens the window and runs the main loop. Each frame it calls update with the frame
// time in seconds, then clears the screen and calls draw. setup runs once after the GL
// context exists; if it fails the window closes and its error is returned. teardown runs
// once before the context is destroyed, also after a failed setup.
// ESC is reserved for the console; close via the window button.
func Run(w Window, setup func() error, update func(dt float32), draw func(), teardown func()) error {
	if w.Width <= 0 || w.Height <= 0 {
		w.Width, w.Height = 1280, 720
	}
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if w.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(w.Width, w.Height, w.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(60)

	if teardown != nil {
		defer teardown()
	}
	if setup != nil {
		if err := setup(); err != nil {
			return err
		}
	}
	for !rl.WindowShouldClose() {
		update(rl.GetFrameTime())

		rl.BeginDrawing()
		rl.ClearBackground(background)
		draw()
		rl.EndDrawing()
	}
	return nil
}
