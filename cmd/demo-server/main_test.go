package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotewebdemo/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.ConfigFileEnv, "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "defaults",
			args: []string{"config"},
			want: []string{"port: 8051", "host: localhost", "interval: 1s"},
		},
		{
			name: "flags override",
			args: []string{"config", "--port", "9000", "--host", "0.0.0.0", "--workers", "3", "--log-level", "debug"},
			want: []string{"port: 9000", "host: 0.0.0.0", "workers: 3", "level: debug"},
		},
		{
			name:    "port out of range",
			args:    []string{"config", "--port", "70000"},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			args:    []string{"config", "--log-level", "loud"},
			wantErr: true,
		},
		{
			name:    "unexpected argument",
			args:    []string{"config", "extra"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o600))

	out, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "port: 9100")

	// Flags still win over the file
	out, err = execute(t, "config", "-c", path, "-p", "9200")
	require.NoError(t, err)
	assert.Contains(t, out, "port: 9200")
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, config.AppName+" version "+config.AppVersion+"\n", out)
}
