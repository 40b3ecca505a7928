// Package paperwork sequences one document generation: week folder, cell
// mapping, signatures, workbook assembly and the optional PDF.
package paperwork

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/orayew2002/paperwork/config"
	"github.com/orayew2002/paperwork/domain"
	"github.com/orayew2002/paperwork/pdf"
	"github.com/orayew2002/paperwork/processor"
	"github.com/orayew2002/paperwork/signature"
	"github.com/orayew2002/paperwork/template"
	"github.com/orayew2002/paperwork/week"
)

// Options wires a Generator.
type Options struct {
	Registry   *template.Registry
	Weeks      week.Resolver
	Signatures *signature.Resolver
	Assembler  *processor.Assembler
	Renderer   pdf.Renderer
	// PDFEnabled is the process-wide toggle; a request can only narrow it.
	PDFEnabled bool
	Logger     *zap.Logger
}

// Generator produces loadsheets and timesheets. It keeps no per-request
// state and is safe for concurrent use.
type Generator struct {
	registry   *template.Registry
	weeks      week.Resolver
	signatures *signature.Resolver
	assembler  *processor.Assembler
	renderer   pdf.Renderer
	pdfEnabled bool
	logger     *zap.Logger
}

// New creates a Generator from o.
func New(o Options) *Generator {
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		registry:   o.Registry,
		weeks:      o.Weeks,
		signatures: o.Signatures,
		assembler:  o.Assembler,
		renderer:   o.Renderer,
		pdfEnabled: o.PDFEnabled,
		logger:     logger,
	}
}

// FromConfig builds a Generator with the default layouts sized by cfg.
func FromConfig(cfg *config.AppConfig, logger *zap.Logger) (*Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry, err := template.NewDefault(cfg.Capacities())
	if err != nil {
		return nil, fmt.Errorf("layouts: %w", err)
	}
	return New(Options{
		Registry:   registry,
		Weeks:      week.Resolver{Anchor: cfg.WeekAnchor()},
		Signatures: signature.NewResolver(cfg.Paths.Signatures, logger.Named("signature")),
		Assembler:  processor.New(cfg.Paths.Templates, cfg.Paths.Output, logger.Named("assembler")),
		Renderer:   pdf.NewLibreOffice(cfg.PDF.Binary, cfg.PDFTimeout(), logger.Named("pdf")),
		PDFEnabled: cfg.PDF.Enabled,
		Logger:     logger,
	}), nil
}

// Registry exposes the layouts in use.
func (g *Generator) Registry() *template.Registry { return g.registry }

// PDFEnabled reports the process-wide PDF toggle.
func (g *Generator) PDFEnabled() bool { return g.pdfEnabled }

// Generate dispatches payload by document type. Payload is a request struct
// or a pointer to one.
func (g *Generator) Generate(ctx context.Context, doc domain.DocumentType, payload any) (domain.Result, error) {
	switch doc {
	case domain.Loadsheet:
		switch req := payload.(type) {
		case *domain.LoadsheetRequest:
			return g.GenerateLoadsheet(ctx, req)
		case domain.LoadsheetRequest:
			return g.GenerateLoadsheet(ctx, &req)
		}
	case domain.Timesheet:
		switch req := payload.(type) {
		case *domain.TimesheetRequest:
			return g.GenerateTimesheet(ctx, req)
		case domain.TimesheetRequest:
			return g.GenerateTimesheet(ctx, &req)
		}
	default:
		return domain.Result{}, &domain.FieldError{Field: "document_type", Reason: fmt.Sprintf("unknown document type %q", doc)}
	}
	return domain.Result{}, fmt.Errorf("%w: %T is not a %s payload", domain.ErrInvalidPayload, payload, doc)
}

// GenerateLoadsheet fills the loadsheet template from req.
func (g *Generator) GenerateLoadsheet(ctx context.Context, req *domain.LoadsheetRequest) (domain.Result, error) {
	layout, err := g.registry.Loadsheet()
	if err != nil {
		return domain.Result{}, err
	}

	cells, err := layout.Cells(req)
	if err != nil {
		return domain.Result{}, fmt.Errorf("map loadsheet: %w", err)
	}

	w := g.weeks.Of(req.LoadDate.Time)
	images, warnings := g.resolveSignatures(layout.Anchors(), map[domain.Slot]domain.Signature{
		domain.Sig1: req.Sig1,
		domain.Sig2: req.Sig2,
	})

	return g.produce(ctx, produceArgs{
		layout:    layout,
		cells:     cells,
		images:    images,
		warnings:  warnings,
		week:      w,
		fileName:  processor.LoadsheetFilename(req.LoadNumber, req.CollectionPoint),
		wantsPDF:  req.WantsPDF(),
		logFields: []zap.Field{zap.String("load_number", req.LoadNumber), zap.Int("cars", len(req.Cars))},
	})
}

// GenerateTimesheet fills the timesheet template from req.
func (g *Generator) GenerateTimesheet(ctx context.Context, req *domain.TimesheetRequest) (domain.Result, error) {
	layout, err := g.registry.Timesheet()
	if err != nil {
		return domain.Result{}, err
	}

	w := g.weeks.Of(req.WeekEnding.Time)
	cells, err := layout.Cells(req, w)
	if err != nil {
		return domain.Result{}, fmt.Errorf("map timesheet: %w", err)
	}

	return g.produce(ctx, produceArgs{
		layout:    layout,
		cells:     cells,
		week:      w,
		fileName:  processor.TimesheetFilename(w.Sunday, req.Driver),
		wantsPDF:  req.WantsPDF(),
		logFields: []zap.Field{zap.String("driver", req.Driver), zap.Int("days", len(req.Days))},
	})
}

// ListSignatures returns the image names available in slot.
func (g *Generator) ListSignatures(slot domain.Slot) ([]string, error) {
	return g.signatures.List(slot)
}

type produceArgs struct {
	layout    template.Layout
	cells     []template.Placement
	images    []processor.Image
	warnings  []domain.Warning
	week      week.Week
	fileName  string
	wantsPDF  bool
	logFields []zap.Field
}

func (g *Generator) produce(ctx context.Context, a produceArgs) (domain.Result, error) {
	doc := a.layout.Document()
	log := g.logger.With(append(a.logFields, zap.String("document", string(doc)), zap.String("week", a.week.Folder()))...)
	log.Info("generating")

	out, err := g.assembler.Assemble(ctx, processor.Job{
		Layout:     a.layout,
		Placements: a.cells,
		Images:     a.images,
		Folder:     a.week.Folder(),
		FileName:   a.fileName,
	})
	if err != nil {
		return domain.Result{}, fmt.Errorf("assemble %s: %w", doc, err)
	}

	res := domain.Result{
		ExcelPath:  out.Path,
		WeekFolder: a.week.Folder(),
		Warnings:   append(a.warnings, out.Warnings...),
	}

	switch {
	case !a.wantsPDF:
		res.Message = doc.Title() + " generated (Excel only - PDF conversion skipped per request)"
	case !g.pdfEnabled:
		res.Message = doc.Title() + " generated (Excel only - PDF conversion failed or disabled)"
	default:
		pdfPath, err := g.renderer.Render(ctx, out.Path, true)
		if err != nil {
			log.Warn("pdf conversion failed", zap.String("path", out.Path), zap.Error(err))
			res.Warnings = append(res.Warnings, domain.Warning{Code: domain.WarnPDF, Message: err.Error()})
			res.Message = doc.Title() + " generated (Excel only - PDF conversion failed or disabled)"
		} else {
			res.PDFPath = pdfPath
			res.Message = doc.Title() + " generated successfully"
		}
	}

	log.Info("generated", zap.String("excel", res.ExcelPath), zap.String("pdf", res.PDFPath), zap.Int("warnings", len(res.Warnings)))
	return res, nil
}

// resolveSignatures resolves each anchor's directive. Failures leave the
// slot blank and become warnings.
func (g *Generator) resolveSignatures(anchors []template.SignatureAnchor, sigs map[domain.Slot]domain.Signature) ([]processor.Image, []domain.Warning) {
	var (
		images   []processor.Image
		warnings []domain.Warning
	)
	for _, anchor := range anchors {
		path, err := g.signatures.Resolve(sigs[anchor.Slot], anchor.Slot)
		if err != nil {
			g.logger.Warn("signature skipped", zap.String("slot", string(anchor.Slot)), zap.Error(err))
			warnings = append(warnings, domain.Warning{
				Code:    domain.WarnSignature,
				Message: fmt.Sprintf("%s: %v", anchor.Slot, err),
			})
			continue
		}
		if path == "" {
			continue
		}
		images = append(images, processor.Image{Anchor: anchor, Path: path})
	}
	return images, warnings
}
