// Package console is the viewer's command line: an input bar at the bottom of the window
// with the recent log lines above it. ESC shows and hides it.
package console

import (
	"unicode/utf8"

	"avatar-studio/internal/logger"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	BarHeight = 40
	// When windowed, move bar up by this many pixels so it stays visible above the taskbar.
	WindowedBarOffset = 56
	prompt            = "> "
	fontSize          = 20
	padding           = 8
	maxLinesOnScreen  = 14
	lineHeight        = fontSize + 4
	maxLineChars      = 200
	maxHistory        = 50
)

var (
	barColor  = rl.NewColor(40, 40, 40, 255)
	lineColor = rl.NewColor(80, 80, 80, 255)
	historyBg = rl.NewColor(24, 24, 24, 240)
)

// Console collects a line of input and hands it to Submit on Enter. Submit handles
// "cmd ..." lines and logs everything else; its errors are already logged.
type Console struct {
	log     *logger.Logger
	submit  func(line string) error
	input   string
	open    bool
	history []string
	recall  int
}

// New returns a closed console that draws from log and sends lines to submit.
func New(log *logger.Logger, submit func(line string) error) *Console {
	return &Console{log: log, submit: submit}
}

// IsOpen returns true when the console is visible and capturing keyboard and mouse.
func (c *Console) IsOpen() bool {
	return c.open
}

// Update handles ESC (toggle), and when open: typing, paste, backspace, history and enter.
// Call once per frame.
func (c *Console) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		c.open = !c.open
	}
	if !c.open {
		return
	}
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
	if rl.IsKeyPressed(rl.KeyV) && ctrl {
		c.input += rl.GetClipboardText()
	} else {
		for ch := rl.GetCharPressed(); ch != 0; ch = rl.GetCharPressed() {
			c.input += string(rune(ch))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(c.input) > 0 {
		_, size := utf8.DecodeLastRuneInString(c.input)
		c.input = c.input[:len(c.input)-size]
	}
	if rl.IsKeyPressed(rl.KeyUp) && c.recall > 0 {
		c.recall--
		c.input = c.history[c.recall]
	}
	if rl.IsKeyPressed(rl.KeyDown) && c.recall < len(c.history) {
		c.recall++
		c.input = ""
		if c.recall < len(c.history) {
			c.input = c.history[c.recall]
		}
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && c.input != "" {
		line := c.input
		c.input = ""
		c.remember(line)
		_ = c.submit(line)
	}
}

func (c *Console) remember(line string) {
	c.history = append(c.history, line)
	if over := len(c.history) - maxHistory; over > 0 {
		c.history = c.history[over:]
	}
	c.recall = len(c.history)
}

// Draw draws the input bar at the bottom when open, and the recent log lines above it.
func (c *Console) Draw() {
	if !c.open {
		return
	}
	screenW := int(rl.GetScreenWidth())
	screenH := int(rl.GetScreenHeight())
	barY := screenH - BarHeight
	if !rl.IsWindowFullscreen() {
		barY -= WindowedBarOffset
	}

	histH := maxLinesOnScreen * lineHeight
	histY := barY - histH
	if histY < 0 {
		histH = barY
		histY = 0
	}
	if histH > 0 {
		rl.DrawRectangle(0, int32(histY), int32(screenW), int32(histH), historyBg)
	}
	lines := c.log.Lines()
	start := max(0, len(lines)-maxLinesOnScreen)
	for i := start; i < len(lines); i++ {
		y := histY + (i-start)*lineHeight + padding
		line := lines[i]
		if len(line) > maxLineChars {
			line = line[:maxLineChars-3] + "..."
		}
		rl.DrawText(line, padding, int32(y), fontSize, rl.LightGray)
	}

	rl.DrawRectangle(0, int32(barY), int32(screenW), BarHeight, barColor)
	rl.DrawRectangle(0, int32(barY), int32(screenW), 1, lineColor)
	rl.DrawText(prompt+c.input+"|", padding, int32(barY+padding), fontSize, rl.White)
}
