package domain

// Warning is a degraded outcome that did not stop generation.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warning codes.
const (
	WarnSignature = "signature"
	WarnImage     = "image"
	WarnPDF       = "pdf"
)

// Result describes one generated document.
type Result struct {
	ExcelPath  string    `json:"excel_path"`
	PDFPath    string    `json:"pdf_path,omitempty"`
	Message    string    `json:"message"`
	WeekFolder string    `json:"week_folder"`
	Warnings   []Warning `json:"warnings,omitempty"`
}
