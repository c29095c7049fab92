// Package env reads a dotenv file into the process environment so AVATAR_* overrides can
// live next to the binary.
package env

import (
	"errors"
	"fmt"
	"os"

	"github.com/subosito/gotenv"
)

// DefaultFile is read from the working directory.
const DefaultFile = ".env"

// Load exports every KEY=VALUE of path that is not already set. Variables from the real
// environment win. A missing file is not an error.
func Load(path string) error {
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("env %s: %w", path, err)
	}
	return nil
}
