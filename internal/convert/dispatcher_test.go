package convert_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/pdf-image-converter/internal/config"
	"github.com/book-expert/pdf-image-converter/internal/convert"
)

var errStubConversion = errors.New("stub conversion failure")

// stubConverter flips each item's status without touching the filesystem,
// failing the configured base names.
type stubConverter struct {
	failNames map[string]bool
}

func (s *stubConverter) Convert(
	_ context.Context,
	items []*convert.Item,
	step func(),
) error {
	for _, item := range items {
		if s.failNames[filepath.Base(item.Path)] {
			item.FailForTest(errStubConversion)
		} else {
			item.SucceedForTest()
		}

		step()
	}

	return nil
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, "pdf2docx")

	_, err := convert.New(cfg, newTestLogger(t), nil)
	require.ErrorIs(t, err, config.ErrUnknownWorkMode)
}

func TestRun_EmptyInputCompletesWithZeroItems(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, config.WorkModePDFToImage)

	dispatcher, err := convert.New(cfg, newTestLogger(t), nil)
	require.NoError(t, err)
	assert.Equal(t, convert.StateIdle, dispatcher.State())

	summary, err := dispatcher.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, convert.StateDone, dispatcher.State())
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.True(t, summary.Ok())
}

func TestRun_MissingInputDirIsFatal(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, config.WorkModePDFToImage)
	cfg.Paths.InputDir = "does-not-exist"

	dispatcher, err := convert.New(cfg, newTestLogger(t), nil)
	require.NoError(t, err)

	_, err = dispatcher.Run(context.Background())
	require.Error(t, err)
}

func TestRun_PerItemFailureIsolation(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, config.WorkModePDFToImage)
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		require.NoError(t, os.WriteFile(
			filepath.Join(cfg.AbsInputDir(), name), []byte("%PDF-1.4"), 0o600,
		))
	}

	var progressBuf bytes.Buffer

	dispatcher, err := convert.New(cfg, newTestLogger(t), &progressBuf)
	require.NoError(t, err)
	dispatcher.SetConverterForTest(&stubConverter{
		failNames: map[string]bool{"b.pdf": true},
	})

	summary, err := dispatcher.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, summary.Ok())

	require.Len(t, summary.Failures, 1)
	assert.Equal(t, filepath.Join(cfg.AbsInputDir(), "b.pdf"), summary.Failures[0].Path)
	assert.Contains(t, summary.Failures[0].Reason, "stub conversion failure")

	// The progress bar rendered to the injected writer.
	assert.NotEqual(t, 0, progressBuf.Len())
}

func TestRun_CreatesOutputDirectory(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, config.WorkModePDFToImage)
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.AbsInputDir(), "a.pdf"), []byte("%PDF-1.4"), 0o600,
	))

	dispatcher, err := convert.New(cfg, newTestLogger(t), nil)
	require.NoError(t, err)
	dispatcher.SetConverterForTest(&stubConverter{failNames: nil})

	_, err = dispatcher.Run(context.Background())
	require.NoError(t, err)

	info, statErr := os.Stat(cfg.AbsOutputDir())
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestSummarize_PendingItemsCountAsFailures(t *testing.T) {
	t.Parallel()

	items := convert.NewItemsForTest([]string{"/in/a.pdf", "/in/b.pdf"})
	items[0].SucceedForTest()

	summary := convert.SummarizeForTest("run", items)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "item was never processed", summary.Failures[0].Reason)
}
