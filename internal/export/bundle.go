package export

import (
	"bytes"
	"fmt"
	"time"

	"avatar-studio/internal/archive"
	"avatar-studio/internal/avatar"
	"avatar-studio/internal/scene"

	"golang.org/x/sync/errgroup"
)

// EncodeBundle encodes cfg and root concurrently and zips them as ConfigEntry and
// SceneEntry. The archive is finalized only after both encodings have completed;
// either failure fails the bundle. Entries are stamped with modTime.
func EncodeBundle(cfg avatar.Config, root *scene.Node, modTime time.Time) ([]byte, error) {
	var cfgData, sceneData []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		cfgData, err = EncodeConfig(cfg)
		return err
	})
	g.Go(func() error {
		var err error
		sceneData, err = EncodeScene(root)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export bundle: %w", err)
	}
	var buf bytes.Buffer
	err := archive.Zip(&buf, modTime,
		archive.Entry{Name: ConfigEntry, Data: cfgData},
		archive.Entry{Name: SceneEntry, Data: sceneData},
	)
	if err != nil {
		return nil, fmt.Errorf("export bundle: %w", err)
	}
	return buf.Bytes(), nil
}
