package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	assert.NoError(t, Load(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("# viewer\nAVATAR_ENV_TEST_DIR=\"out/avatars\"\nAVATAR_ENV_TEST_KEPT=file\n"), 0644))
	t.Setenv("AVATAR_ENV_TEST_KEPT", "shell")
	t.Cleanup(func() { os.Unsetenv("AVATAR_ENV_TEST_DIR") })

	require.NoError(t, Load(path))
	assert.Equal(t, "out/avatars", os.Getenv("AVATAR_ENV_TEST_DIR"))
	assert.Equal(t, "shell", os.Getenv("AVATAR_ENV_TEST_KEPT"))
}
