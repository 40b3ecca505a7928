// Package signature turns signature directives into image files on disk.
package signature

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/orayew2002/paperwork/domain"
)

// Extensions lists the image types accepted in a slot directory.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// Resolver looks signatures up under Root/<slot>/.
type Resolver struct {
	Root string
	// Pick returns an index in [0, n). Defaults to a uniform random choice.
	Pick   func(n int) int
	logger *zap.Logger
}

// NewResolver creates a Resolver rooted at root.
func NewResolver(root string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{Root: root, Pick: rand.Intn, logger: logger}
}

// Dir is the image directory of slot.
func (r *Resolver) Dir(slot domain.Slot) string {
	return filepath.Join(r.Root, string(slot))
}

// Resolve returns the image path for sig in slot, or "" for no signature.
// A missing directory or file yields ErrNoSignatureAvailable or
// ErrSignatureNotFound; callers treat both as non-fatal.
func (r *Resolver) Resolve(sig domain.Signature, slot domain.Slot) (string, error) {
	switch sig.Kind() {
	case domain.SignatureNone:
		return "", nil
	case domain.SignatureRandom:
		return r.random(slot)
	case domain.SignaturePath:
		return r.lookup(sig.Path(), slot)
	}
	return "", fmt.Errorf("signature kind %d", sig.Kind())
}

// List returns the image file names in slot, sorted. A missing directory
// lists as empty.
func (r *Resolver) List(slot domain.Slot) ([]string, error) {
	entries, err := os.ReadDir(r.Dir(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.Dir(slot), err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (r *Resolver) random(slot domain.Slot) (string, error) {
	names, err := r.List(slot)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrNoSignatureAvailable, slot, err)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: no images in %s", domain.ErrNoSignatureAvailable, r.Dir(slot))
	}

	pick := r.Pick
	if pick == nil {
		pick = rand.Intn
	}
	name := names[pick(len(names))]
	r.logger.Debug("picked random signature", zap.String("slot", string(slot)), zap.String("file", name))
	return filepath.Join(r.Dir(slot), name), nil
}

// lookup accepts a path as given, or a bare file name inside the slot
// directory.
func (r *Resolver) lookup(path string, slot domain.Slot) (string, error) {
	if isFile(path) {
		return path, nil
	}
	if filepath.Base(path) == path {
		if candidate := filepath.Join(r.Dir(slot), path); isFile(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrSignatureNotFound, path)
}

// IsImage reports whether name has an accepted image extension.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
