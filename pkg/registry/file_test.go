package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/recprobe/pkg/codec"
)

const yamlTable = `candidates:
  - name: A_Qiii
    format: "<Qiii"
    columns: [timestamp, x, y, z]
  - name: K_explicit
    byte_order: big
    fields:
      - {name: timestamp, kind: uint, width: 8}
      - {name: heading, kind: half, width: 2}
  - name: Z_broken
    fields:
      - {name: v, kind: float, width: 3}
`

const tomlTable = `
[[candidates]]
name = "A_Qiii"
format = "<Qiii"
columns = ["timestamp", "x", "y", "z"]

[[candidates]]
name = "K_explicit"
byte_order = "big"

  [[candidates.fields]]
  name = "timestamp"
  kind = "uint"
  width = 8

  [[candidates.fields]]
  name = "heading"
  kind = "half"
  width = 2

[[candidates]]
name = "Z_broken"

  [[candidates.fields]]
  name = "v"
  kind = "float"
  width = 3
`

func TestLoadTable(t *testing.T) {
	testCases := []struct {
		file    string
		content string
	}{
		{"candidates.yaml", yamlTable},
		{"candidates.yml", yamlTable},
		{"candidates.toml", tomlTable},
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0600))

			reg, err := LoadTable(path)
			require.NotNil(t, reg)
			require.Error(t, err)
			assert.ErrorIs(t, err, codec.ErrMalformedDescriptor)
			assert.Contains(t, err.Error(), "Z_broken")

			assert.Equal(t, []string{"A_Qiii", "K_explicit"}, names(reg.ListCandidates()))
			k, ok := reg.Lookup("K_explicit")
			require.True(t, ok)
			assert.Equal(t, ">Qe", k.Layout())
			assert.Equal(t, 10, k.Size())
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "candidates.ini")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
		_, err := LoadFile(path)
		assert.ErrorIs(t, err, ErrUnsupportedTable)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("candidates: [unterminated"), 0600))
		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("unknown toml key", func(t *testing.T) {
		path := filepath.Join(dir, "extra.toml")
		require.NoError(t, os.WriteFile(path, []byte("[[candidates]]\nname = \"a\"\nformat = \"<I\"\nstride = 4\n"), 0600))
		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown keys")
	})
}

func TestSaveFile_RoundTrip(t *testing.T) {
	specs, err := BuiltinSet("nav-v1")
	require.NoError(t, err)

	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "set"+ext)
			require.NoError(t, SaveFile(path, specs))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, specs, loaded)
		})
	}

	assert.ErrorIs(t, SaveFile(filepath.Join(t.TempDir(), "set.json"), specs), ErrUnsupportedTable)
}
