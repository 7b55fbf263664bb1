package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunDefaultToneSmallVector(t *testing.T) {
	err := run([]string{"--n", "512", "--fft-order", "6", "--log-level", "error"})
	require.NoError(t, err)
}

func TestRunRadix4(t *testing.T) {
	err := run([]string{"--n", "256", "--fft-order", "6", "--fft-radix", "4", "--log-level", "error"})
	require.NoError(t, err)
}

func TestRunRejectsBadRadix(t *testing.T) {
	err := run([]string{"--n", "16", "--fft-radix", "bogus", "--log-level", "error"})
	require.Error(t, err)
}

func TestRunWithPresetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preset.yaml")
	yaml := "ddc_frequency_word: 2684355\nddc_decimation1: 5\nddc_decimation2: 4\nddc_decimation3: 2\nddc_enable_input: true\nspectrometer_use_ddc_out: true\nnum_integrations: 4\npeak_detect: false\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	err := run([]string{"--n", "512", "--config", path, "--log-level", "error"})
	require.NoError(t, err)
}
