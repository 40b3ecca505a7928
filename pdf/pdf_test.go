package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orayew2002/paperwork/domain"
)

// fakeOffice writes a shell script standing in for libreoffice.
func fakeOffice(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-office")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func workbook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "S1_Yard.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("xlsx"), 0o644))
	return path
}

func TestRenderDisabled(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	lo := NewLibreOffice(fakeOffice(t, "touch "+marker), 0, nil)

	path, err := lo.Render(context.Background(), workbook(t), false)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.NoFileExists(t, marker, "no process started")
}

func TestRenderSuccess(t *testing.T) {
	// $5 is --outdir's value, $6 the workbook
	bin := fakeOffice(t, `name=$(basename "$6" .xlsx); echo pdf > "$5/$name.pdf"`)
	xlsx := workbook(t)

	path, err := NewLibreOffice(bin, time.Minute, nil).Render(context.Background(), xlsx, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(xlsx), "S1_Yard.pdf"), path)
	assert.FileExists(t, path)
}

func TestRenderFailures(t *testing.T) {
	tests := []struct {
		name    string
		binary  func(t *testing.T) string
		timeout time.Duration
	}{
		{"missing binary", func(t *testing.T) string { return filepath.Join(t.TempDir(), "no-such-office") }, time.Minute},
		{"non-zero exit", func(t *testing.T) string { return fakeOffice(t, "echo boom >&2; exit 3") }, time.Minute},
		{"no output", func(t *testing.T) string { return fakeOffice(t, "exit 0") }, time.Minute},
		{"timeout", func(t *testing.T) string { return fakeOffice(t, "exec sleep 5") }, 50 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo := NewLibreOffice(tt.binary(t), tt.timeout, nil)
			path, err := lo.Render(context.Background(), workbook(t), true)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrPDFConversionFailed))
			assert.True(t, domain.IsDegraded(err))
			assert.Empty(t, path)
		})
	}
}

func TestRenderTimeoutKillsChildren(t *testing.T) {
	// no exec: the shell waits on a child that holds the output pipe
	bin := fakeOffice(t, "sleep 3")
	lo := NewLibreOffice(bin, 100*time.Millisecond, nil)

	start := time.Now()
	_, err := lo.Render(context.Background(), workbook(t), true)
	took := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPDFConversionFailed))
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, took, 2*time.Second)
}

func TestRenderIgnoresStalePDF(t *testing.T) {
	xlsx := workbook(t)
	stale := filepath.Join(filepath.Dir(xlsx), "S1_Yard.pdf")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	path, err := NewLibreOffice(fakeOffice(t, "exit 0"), time.Minute, nil).Render(context.Background(), xlsx, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPDFConversionFailed))
	assert.Empty(t, path)
	assert.NoFileExists(t, stale)
}

func TestRenderReplacesPreviousPDF(t *testing.T) {
	xlsx := workbook(t)
	prev := filepath.Join(filepath.Dir(xlsx), "S1_Yard.pdf")
	require.NoError(t, os.WriteFile(prev, []byte("old"), 0o644))

	bin := fakeOffice(t, `name=$(basename "$6" .xlsx); echo new > "$5/$name.pdf"`)
	path, err := NewLibreOffice(bin, time.Minute, nil).Render(context.Background(), xlsx, true)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}

func TestRenderMissingWorkbook(t *testing.T) {
	lo := NewLibreOffice(fakeOffice(t, "exit 0"), 0, nil)
	_, err := lo.Render(context.Background(), filepath.Join(t.TempDir(), "gone.xlsx"), true)
	assert.True(t, errors.Is(err, domain.ErrPDFConversionFailed))
}

func TestDefaults(t *testing.T) {
	lo := NewLibreOffice("", 0, nil)
	assert.Equal(t, DefaultBinary, lo.Binary)
	assert.Equal(t, DefaultTimeout, lo.Timeout)
}
