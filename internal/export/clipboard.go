package export

import (
	"avatar-studio/internal/avatar"

	"go.uber.org/zap"
)

// Clipboard receives text. The viewer backs it with the window system clipboard.
type Clipboard interface {
	SetText(text string) error
}

// CopyConfigToClipboard puts the canonical config text on cb and reports success.
// Errors and panics from cb are logged, never propagated.
func CopyConfigToClipboard(cb Clipboard, cfg avatar.Config, log *zap.Logger) (ok bool) {
	if log == nil {
		log = zap.NewNop()
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn("clipboard panicked", zap.Any("panic", rec))
			ok = false
		}
	}()
	if cb == nil {
		return false
	}
	data, err := EncodeConfig(cfg)
	if err != nil {
		log.Warn("clipboard copy failed", zap.Error(err))
		return false
	}
	if err := cb.SetText(string(data)); err != nil {
		log.Warn("clipboard copy failed", zap.Error(err))
		return false
	}
	return true
}
