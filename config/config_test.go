package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/recordcomp/config"
	"github.com/iamNilotpal/recordcomp/internal/core/domain"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	algorithm, err := cfg.Record.Algorithm()
	require.NoError(t, err)
	require.Equal(t, domain.Deflate, algorithm)
	require.Positive(t, cfg.Record.MaxRecordSize)
	require.Positive(t, cfg.Record.MaxPlainSize)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
record:
  method: deflate
  level: 6
  max_record_size: 4096
  max_plain_size: 8192
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "deflate", cfg.Record.Method)
	require.Equal(t, 6, cfg.Record.Level)
	require.Equal(t, 4096, cfg.Record.MaxRecordSize)
	require.Equal(t, 8192, cfg.Record.MaxPlainSize)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{
			name: "unknown method",
			contents: `
record:
  method: lzs
  level: 3
  max_record_size: 4096
  max_plain_size: 4096
`,
		},
		{
			name: "level out of range",
			contents: `
record:
  method: deflate
  level: 12
  max_record_size: 4096
  max_plain_size: 4096
`,
		},
		{
			name: "zero record size",
			contents: `
record:
  method: deflate
  level: 3
  max_record_size: 0
  max_plain_size: 4096
`,
		},
		{
			name: "zero plain size",
			contents: `
record:
  method: deflate
  level: 3
  max_record_size: 4096
  max_plain_size: 0
`,
		},
		{
			name:     "malformed yaml",
			contents: "record: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, tt.contents))
			require.Error(t, err)
		})
	}
}
