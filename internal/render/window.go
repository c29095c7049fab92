package render

import (
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Clipboard writes to the window system clipboard. Requires an open window.
type Clipboard struct{}

// SetText replaces the clipboard contents.
func (Clipboard) SetText(text string) error {
	rl.SetClipboardText(text)
	return nil
}

// CaptureFrame reads back the last rendered frame.
func CaptureFrame() image.Image {
	img := rl.LoadImageFromScreen()
	defer rl.UnloadImage(img)
	return img.ToImage()
}
