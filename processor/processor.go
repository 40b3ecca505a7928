// Package processor writes mapped placements into a template workbook and
// saves the result under the output tree.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/orayew2002/paperwork/domain"
	"github.com/orayew2002/paperwork/excel"
	"github.com/orayew2002/paperwork/signature"
	"github.com/orayew2002/paperwork/template"
)

// Image is a resolved signature bound for an anchor.
type Image struct {
	Anchor template.SignatureAnchor
	Path   string
}

// Job is one document to assemble.
type Job struct {
	Layout     template.Layout
	Placements []template.Placement
	Images     []Image
	Folder     string
	FileName   string
}

// Output is the saved workbook and anything that degraded on the way.
type Output struct {
	Path     string
	Warnings []domain.Warning
}

// Assembler fills templates from templatesDir and saves them under
// outputRoot/<folder>/.
type Assembler struct {
	templatesDir string
	outputRoot   string
	logger       *zap.Logger
}

// New creates an Assembler.
func New(templatesDir, outputRoot string, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{templatesDir: templatesDir, outputRoot: outputRoot, logger: logger}
}

// TemplatePath is where the template of layout is expected.
func (a *Assembler) TemplatePath(layout template.Layout) string {
	return filepath.Join(a.templatesDir, layout.TemplateFile())
}

// Assemble writes job into a copy of its template and saves it atomically.
// Image problems do not fail the job; they come back as warnings.
func (a *Assembler) Assemble(ctx context.Context, job Job) (Output, error) {
	tpl := a.TemplatePath(job.Layout)
	if _, err := os.Stat(tpl); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Output{}, fmt.Errorf("%w: %s", domain.ErrTemplateMissing, tpl)
		}
		return Output{}, fmt.Errorf("stat %s: %w", tpl, err)
	}

	f, err := excelize.OpenFile(tpl)
	if err != nil {
		return Output{}, fmt.Errorf("open %s: %w", tpl, err)
	}
	defer f.Close()

	sheet, err := sheetName(f, job.Layout.Sheet())
	if err != nil {
		return Output{}, err
	}

	merges, err := loadMerges(f, sheet)
	if err != nil {
		return Output{}, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	if err := a.writePlacements(ctx, f, sheet, merges, job.Placements); err != nil {
		return Output{}, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	out := Output{Warnings: a.embedImages(f, sheet, merges, job.Images)}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      job.Layout.Document().Title(),
		Creator:    "paperwork",
		Identifier: job.Layout.Version(),
	}); err != nil {
		return Output{}, fmt.Errorf("set doc props: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	dir := filepath.Join(a.outputRoot, job.Folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Output{}, fmt.Errorf("create %s: %w", dir, err)
	}

	out.Path = filepath.Join(dir, job.FileName)
	if err := saveAtomic(f, out.Path); err != nil {
		return Output{}, err
	}

	a.logger.Info("workbook saved",
		zap.String("document", string(job.Layout.Document())),
		zap.String("version", job.Layout.Version()),
		zap.String("path", out.Path),
		zap.Int("cells", len(job.Placements)))
	return out, nil
}

func (a *Assembler) writePlacements(ctx context.Context, f *excelize.File, sheet string, merges mergeIndex, placements []template.Placement) error {
	styles := NewStyleManager(f)
	for _, p := range placements {
		if err := ctx.Err(); err != nil {
			return err
		}

		cell := merges.topLeft(p.Cell).Name()
		if err := f.SetCellValue(sheet, cell, p.Value); err != nil {
			return fmt.Errorf("cell %s (%s): %w", cell, p.Field, err)
		}

		if p.Style == template.StyleWrap {
			base, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return fmt.Errorf("cell %s style: %w", cell, err)
			}
			id, err := styles.Wrapped(base)
			if err != nil {
				return fmt.Errorf("cell %s style: %w", cell, err)
			}
			if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
				return fmt.Errorf("cell %s style: %w", cell, err)
			}
		}
	}
	return nil
}

func (a *Assembler) embedImages(f *excelize.File, sheet string, merges mergeIndex, images []Image) []domain.Warning {
	var warnings []domain.Warning
	for _, im := range images {
		if im.Path == "" {
			continue
		}
		if err := embed(f, sheet, merges.topLeft(im.Anchor.Cell), im); err != nil {
			a.logger.Warn("signature not embedded",
				zap.String("slot", string(im.Anchor.Slot)),
				zap.String("path", im.Path),
				zap.Error(err))
			warnings = append(warnings, domain.Warning{
				Code:    domain.WarnImage,
				Message: fmt.Sprintf("%s: %v", im.Anchor.Slot, err),
			})
		}
	}
	return warnings
}

func embed(f *excelize.File, sheet string, cell excel.Ref, im Image) error {
	img, err := signature.Load(im.Path)
	if err != nil {
		return err
	}
	scale := signature.Fit(img.Width, img.Height, im.Anchor.MaxWidth, im.Anchor.MaxHeight)
	return f.AddPictureFromBytes(sheet, cell.Name(), &excelize.Picture{
		Extension: img.Ext,
		File:      img.Data,
		Format: &excelize.GraphicOptions{
			ScaleX:          scale,
			ScaleY:          scale,
			LockAspectRatio: true,
			Positioning:     "oneCell",
		},
	})
}

// sheetName returns want if set, otherwise the workbook's first sheet.
func sheetName(f *excelize.File, want string) (string, error) {
	sheets := f.GetSheetList()
	if want == "" {
		if len(sheets) == 0 {
			return "", errors.New("workbook has no sheets")
		}
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == want {
			return s, nil
		}
	}
	return "", &domain.FieldError{Field: "sheet", Reason: fmt.Sprintf("template has no sheet %q", want)}
}
