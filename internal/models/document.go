package models

import (
	"time"

	"github.com/google/uuid"
)

// PDFDocument is the input payload for a summarization request. Text
// extraction happens upstream; the pipeline only cares whether extracted
// text is present.
type PDFDocument struct {
	id               string
	originalFilename string
	filePath         string
	fileSize         int64
	extractedText    string
	hasText          bool
	createdAt        time.Time
}

// NewPDFDocument registers an uploaded document before text extraction.
func NewPDFDocument(originalFilename, filePath string, fileSize int64) *PDFDocument {
	return &PDFDocument{
		id:               uuid.New().String(),
		originalFilename: originalFilename,
		filePath:         filePath,
		fileSize:         fileSize,
		createdAt:        time.Now(),
	}
}

func (d *PDFDocument) ID() string               { return d.id }
func (d *PDFDocument) OriginalFilename() string { return d.originalFilename }
func (d *PDFDocument) FileSize() int64          { return d.fileSize }
func (d *PDFDocument) CreatedAt() time.Time     { return d.createdAt }

// SetExtractedText stores the extraction result. An empty string means
// extraction found no usable text, so the document stays content-less.
func (d *PDFDocument) SetExtractedText(text string) {
	d.extractedText = text
	d.hasText = text != ""
}

func (d *PDFDocument) HasExtractedText() bool { return d.hasText }
func (d *PDFDocument) ExtractedText() string  { return d.extractedText }

// PDFDocumentView is the read-only reporting projection of a PDFDocument.
// The extracted text itself is not exposed, only whether it exists.
type PDFDocumentView struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	HasText          bool      `json:"has_text"`
	CreatedAt        time.Time `json:"created_at"`
}

func (d *PDFDocument) View() PDFDocumentView {
	return PDFDocumentView{
		ID:               d.id,
		OriginalFilename: d.originalFilename,
		FileSize:         d.fileSize,
		HasText:          d.hasText,
		CreatedAt:        d.createdAt,
	}
}
