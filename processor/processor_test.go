package processor_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/orayew2002/paperwork/domain"
	"github.com/orayew2002/paperwork/excel"
	"github.com/orayew2002/paperwork/processor"
	"github.com/orayew2002/paperwork/scaffold"
	"github.com/orayew2002/paperwork/template"
)

type fixture struct {
	templates string
	output    string
	registry  *template.Registry
	assembler *processor.Assembler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	reg, err := template.NewDefault(template.Capacities{})
	require.NoError(t, err)

	fx := &fixture{
		templates: filepath.Join(root, "templates"),
		output:    filepath.Join(root, "output"),
		registry:  reg,
	}
	_, err = scaffold.InitDir(reg, fx.templates, false)
	require.NoError(t, err)
	fx.assembler = processor.New(fx.templates, fx.output, nil)
	return fx
}

func createTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func loadsheetJob(t *testing.T, fx *fixture) processor.Job {
	t.Helper()
	l, err := fx.registry.Loadsheet()
	require.NoError(t, err)

	cells, err := l.Cells(&domain.LoadsheetRequest{
		LoadDate:        domain.NewDate(2025, 5, 17),
		LoadNumber:      "S1",
		CollectionPoint: "Maidstone",
		DeliveryPoint:   "Yard",
		FleetReg:        "Y6BTT",
		Summary:         "1 CARS LOADED",
		LoadNotes:       "keys in glovebox",
		Cars:            []domain.CarEntry{{Reg: "AB12CDE", MakeModel: "Ford Focus", Offloaded: "N", Docs: "Y", SpareKeys: "Y"}},
	})
	require.NoError(t, err)

	return processor.Job{
		Layout:     l,
		Placements: cells,
		Folder:     "18-05-25",
		FileName:   processor.LoadsheetFilename("S1", "Maidstone"),
	}
}

func openResult(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestAssembleLoadsheet(t *testing.T) {
	fx := newFixture(t)
	job := loadsheetJob(t, fx)

	sig := filepath.Join(t.TempDir(), "sig.png")
	createTestPNG(t, sig, 360, 60)
	l, _ := fx.registry.Loadsheet()
	job.Images = []processor.Image{
		{Anchor: l.Signatures[0], Path: sig},
		{Anchor: l.Signatures[1]},
	}

	out, err := fx.assembler.Assemble(context.Background(), job)
	require.NoError(t, err)
	assert.Empty(t, out.Warnings)
	assert.Equal(t, filepath.Join(fx.output, "18-05-25", "S1_Maidstone.xlsx"), out.Path)

	f := openResult(t, out.Path)
	sheet := f.GetSheetName(0)

	for cell, want := range map[string]string{
		"C6":  "Saturday 17/05/25",
		"H46": "Saturday 17/05/25",
		"G6":  "S1",
		"B9":  "MAIDSTONE",
		"B13": "AB12CDE",
		"G10": "Y",
		"C39": "1 CARS LOADED\nKEYS IN GLOVEBOX",
	} {
		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	pics, err := f.GetPictures(sheet, "C42")
	require.NoError(t, err)
	assert.Len(t, pics, 1)
	pics, err = f.GetPictures(sheet, "H42")
	require.NoError(t, err)
	assert.Empty(t, pics)

	styleID, err := f.GetCellStyle(sheet, "C39")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Alignment)
	assert.True(t, style.Alignment.WrapText)

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, template.LoadsheetVersion, props.Identifier)
}

func TestAssembleLeavesNoTempFiles(t *testing.T) {
	fx := newFixture(t)
	job := loadsheetJob(t, fx)

	_, err := fx.assembler.Assemble(context.Background(), job)
	require.NoError(t, err)
	// same payload again replaces the file
	_, err = fx.assembler.Assemble(context.Background(), job)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(fx.output, "18-05-25"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "S1_Maidstone.xlsx", entries[0].Name())
}

func TestAssembleRedirectsMergedCells(t *testing.T) {
	fx := newFixture(t)
	l, err := fx.registry.Timesheet()
	require.NoError(t, err)

	out, err := fx.assembler.Assemble(context.Background(), processor.Job{
		Layout: l,
		Placements: []template.Placement{
			{Field: "driver", Cell: excel.MustParse("L3"), Value: "CRAIG"},
		},
		Folder:   "18-05-25",
		FileName: "ts.xlsx",
	})
	require.NoError(t, err)

	f := openResult(t, out.Path)
	got, err := f.GetCellValue(f.GetSheetName(0), "K3")
	require.NoError(t, err)
	assert.Equal(t, "CRAIG", got)
}

func TestAssembleTemplateMissing(t *testing.T) {
	fx := newFixture(t)
	job := loadsheetJob(t, fx)
	require.NoError(t, os.Remove(filepath.Join(fx.templates, "loadsheet.xlsx")))

	_, err := fx.assembler.Assemble(context.Background(), job)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTemplateMissing))

	_, statErr := os.Stat(fx.output)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing written")
}

func TestAssembleBadImageIsAWarning(t *testing.T) {
	fx := newFixture(t)
	job := loadsheetJob(t, fx)

	junk := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("not a png"), 0o644))
	l, _ := fx.registry.Loadsheet()
	job.Images = []processor.Image{{Anchor: l.Signatures[0], Path: junk}}

	out, err := fx.assembler.Assemble(context.Background(), job)
	require.NoError(t, err)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, domain.WarnImage, out.Warnings[0].Code)
	assert.FileExists(t, out.Path)
}

func TestAssembleCancelled(t *testing.T) {
	fx := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fx.assembler.Assemble(ctx, loadsheetJob(t, fx))
	assert.True(t, errors.Is(err, context.Canceled))
}
