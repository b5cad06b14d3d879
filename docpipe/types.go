// CLAUDE:SUMMARY Defines Format, Document, and ExtractionError types for the docpipe extraction engine.
package docpipe

import "fmt"

// Format identifies a document type.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDocx    Format = "docx"
	FormatUnknown Format = ""
)

// Document is the result of extracting text from an uploaded file.
type Document struct {
	Format  Format             `json:"format"`
	Title   string             `json:"title,omitempty"`
	Text    string             `json:"text"`
	Quality *ExtractionQuality `json:"quality,omitempty"` // PDF only
}

// ExtractionError reports that a document of a supported format could not
// be decoded. It is fatal to the triggering request and never retried.
// An unsupported format is NOT an ExtractionError — it yields empty text.
type ExtractionError struct {
	Format Format
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
