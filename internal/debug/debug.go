package debug

import (
	"fmt"
	"runtime"

	"avatar-studio/internal/studio"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh overlay text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug draws the runtime overlays (FPS, heap, character stats). All are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool
	stats        func() studio.Stats
	frameCount   uint32
	fpsText      string
	memText      string
	statsText    string
	memStats     runtime.MemStats
}

// New returns a Debug system with all overlays hidden. stats, if non-nil, feeds the
// character line.
func New(stats func() studio.Stats) *Debug {
	return &Debug{stats: stats}
}

// Set updates which overlays are drawn.
func (d *Debug) Set(fps, mem, stats bool) {
	d.ShowFPS = fps
	d.ShowMemAlloc = mem
	d.ShowStats = stats
}

// Draw renders the enabled overlays stacked at the top-right. Call after the 3D pass and
// the console. Text is only recomputed every updateInterval frames.
func (d *Debug) Draw() {
	d.frameCount++
	update := d.frameCount%updateInterval == 0

	y := int32(padding)
	if d.ShowFPS {
		if update || d.fpsText == "" {
			d.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		drawRight(d.fpsText, y, rl.Green)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		if update || d.memText == "" {
			runtime.ReadMemStats(&d.memStats)
			d.memText = fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024))
		}
		drawRight(d.memText, y, rl.Green)
		y += lineHeight
	}
	if d.ShowStats && d.stats != nil {
		if update || d.statsText == "" {
			st := d.stats()
			d.statsText = fmt.Sprintf("Meshes: %d  Verts: %d  Exports: %d", st.Meshes, st.Vertices, st.Pending)
		}
		drawRight(d.statsText, y, rl.SkyBlue)
	}
}

func drawRight(text string, y int32, c rl.Color) {
	w := rl.MeasureText(text, fontSize)
	rl.DrawText(text, int32(rl.GetScreenWidth())-w-padding, y, fontSize, c)
}
