package convert_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/pdf-image-converter/internal/config"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, loggerErr := logger.New(t.TempDir(), "test.log")
	require.NoError(t, loggerErr)

	return log
}

// newTestConfig builds a normalized configuration with fresh input and
// output directories inside a temporary workspace.
func newTestConfig(t *testing.T, mode config.WorkMode) *config.Config {
	t.Helper()

	workspace := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(workspace, "input"), 0o750))

	cfg := &config.Config{
		Paths: config.Paths{
			WorkSpace:   workspace,
			InputDir:    "input",
			OutputDir:   "output",
			BaseLogsDir: "",
		},
		Settings: config.Settings{WorkMode: mode},
		PDFOutput: config.PDFOutput{
			FanInPolicy:     "",
			OutputName:      "",
			OverwritePolicy: "",
		},
		ImageOutput: config.ImageOutput{
			Format:          "",
			ColorMode:       "",
			OverwritePolicy: "",
			DPI:             72,
			Quality:         0,
			StartIndex:      0,
		},
	}
	cfg.Normalize(newTestLogger(t))

	return cfg
}

// writeTestPNG writes a small solid-color PNG fixture.
func writeTestPNG(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	pngFile, createErr := os.Create(path)
	require.NoError(t, createErr)
	require.NoError(t, png.Encode(pngFile, img))
	require.NoError(t, pngFile.Close())
}

// writeTruncatedPNG writes a PNG cut off after its header. The file has a
// valid signature and IHDR chunk but no complete pixel data, so a header
// check accepts it while a full decode fails.
func writeTruncatedPNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 200, 200))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	require.NoError(t, os.WriteFile(path, buf.Bytes()[:60], 0o600))
}
