// Package pdf renders filled workbooks to PDF with a headless office suite.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orayew2002/paperwork/domain"
)

const (
	DefaultBinary  = "libreoffice"
	DefaultTimeout = 60 * time.Second

	// waitDelay bounds how long output pipes stay open after the office
	// process group is killed.
	waitDelay = 2 * time.Second
)

// Renderer converts a workbook into a PDF next to it.
type Renderer interface {
	// Render returns "" and no error when enabled is false.
	Render(ctx context.Context, xlsxPath string, enabled bool) (string, error)
}

// LibreOffice runs `<Binary> --headless --convert-to pdf`.
type LibreOffice struct {
	Binary  string
	Timeout time.Duration
	logger  *zap.Logger
}

// NewLibreOffice creates a renderer; empty binary and zero timeout take the
// defaults.
func NewLibreOffice(binary string, timeout time.Duration, logger *zap.Logger) *LibreOffice {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibreOffice{Binary: binary, Timeout: timeout, logger: logger}
}

// Render converts xlsxPath into <dir>/<stem>.pdf. It is attempted once;
// every failure wraps domain.ErrPDFConversionFailed.
func (lo *LibreOffice) Render(ctx context.Context, xlsxPath string, enabled bool) (string, error) {
	if !enabled {
		lo.logger.Debug("pdf conversion disabled", zap.String("path", xlsxPath))
		return "", nil
	}
	if _, err := os.Stat(xlsxPath); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPDFConversionFailed, err)
	}

	bin, err := exec.LookPath(lo.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPDFConversionFailed, err)
	}

	dir := filepath.Dir(xlsxPath)
	pdfPath := filepath.Join(dir, strings.TrimSuffix(filepath.Base(xlsxPath), filepath.Ext(xlsxPath))+".pdf")
	// Drop any earlier rendition so a zero exit without output fails.
	if err := os.Remove(pdfPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: remove stale %s: %v", domain.ErrPDFConversionFailed, pdfPath, err)
	}

	ctx, cancel := context.WithTimeout(ctx, lo.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "--headless", "--convert-to", "pdf", "--outdir", dir, xlsxPath)
	killGroup(cmd)
	cmd.WaitDelay = waitDelay

	start := time.Now()
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: timed out after %s", domain.ErrPDFConversionFailed, lo.Timeout)
		}
		return "", fmt.Errorf("%w: %v: %s", domain.ErrPDFConversionFailed, err, strings.TrimSpace(string(out)))
	}

	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("%w: no output at %s", domain.ErrPDFConversionFailed, pdfPath)
	}

	lo.logger.Info("pdf rendered", zap.String("path", pdfPath), zap.Duration("took", time.Since(start)))
	return pdfPath, nil
}
