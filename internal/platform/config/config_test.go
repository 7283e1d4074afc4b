package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 10, cfg.MaxRequests)
	require.Equal(t, 60, cfg.WindowSeconds)
	require.Equal(t, "none", cfg.ChecksumMode)
}

func TestFromEnv_RejectsNonPositiveLimit(t *testing.T) {
	t.Setenv("MAX_REQUESTS", "0")
	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnv_RejectsNonPositiveWindow(t *testing.T) {
	t.Setenv("WINDOW_SECONDS", "-5")
	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnv_RejectsMalformedValues(t *testing.T) {
	t.Setenv("MAX_REQUESTS", "ten")
	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnv_RejectsUnknownChecksumMode(t *testing.T) {
	t.Setenv("NID_CHECKSUM", "crc32")
	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnv_ParsesOverrides(t *testing.T) {
	t.Setenv("MAX_REQUESTS", "25")
	t.Setenv("WINDOW_SECONDS", "120")
	t.Setenv("NID_CHECKSUM", "weighted")
	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, 25, cfg.MaxRequests)
	require.Equal(t, 120, cfg.WindowSeconds)
	require.Equal(t, "weighted", cfg.ChecksumMode)
}
