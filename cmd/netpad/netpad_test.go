package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/NetPad/internal/config"
	"github.com/Alia5/NetPad/internal/log"
)

func TestFindUserConfig(t *testing.T) {
	t.Setenv("NETPAD_CONFIG", "/env/netpad.yaml")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"equals", []string{"receive", "--config=/a.toml", "wii"}, "/a.toml"},
		{"separate", []string{"--config", "/b.json", "send"}, "/b.json"},
		{"dangling flag", []string{"send", "--config"}, "/env/netpad.yaml"},
		{"env", []string{"send"}, "/env/netpad.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findUserConfig(tt.args))
		})
	}
}

func TestSetupRawLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.log")
	cli := &config.CLI{Log: config.Log{Level: "info", RawFile: path}}
	var closers []io.Closer
	raw := setupRawLogger(cli, slog.New(slog.NewTextHandler(io.Discard, nil)), &closers)
	require.Len(t, closers, 1)
	raw.Log(true, []byte{0xca, 0xfe})
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(b, []byte("-> ")))
	assert.True(t, bytes.Contains(b, []byte(" 2 cafe")))
}

func TestDescription(t *testing.T) {
	d := Description()
	assert.Contains(t, d, "Version: "+Version)
	assert.Contains(t, d, "github.com/Alia5/NetPad")
}

func TestSetupRawLogger_Levels(t *testing.T) {
	var closers []io.Closer
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	off := setupRawLogger(&config.CLI{Log: config.Log{Level: "info"}}, quiet, &closers)
	assert.Equal(t, log.NewRaw(nil), off)

	on := setupRawLogger(&config.CLI{Log: config.Log{Level: "TRACE"}}, quiet, &closers)
	assert.NotEqual(t, log.NewRaw(nil), on)
	assert.Empty(t, closers)
}
