// CLAUDE:SUMMARY Core extraction engine that dispatches by declared mime type (pdf, docx).
// Package docpipe extracts plain text from uploaded résumé documents.
//
// Supported formats:
//   - application/pdf — PDF text extraction (pdfcpu, content-stream decoding)
//   - application/vnd.openxmlformats-officedocument.wordprocessingml.document —
//     Microsoft Word (archive/zip → word/document.xml)
//
// Any other declared type yields empty text without an error: callers must
// treat empty text as "extraction unsupported", not "empty document".
// Corrupt bytes of a supported format yield an *ExtractionError.
//
// Usage:
//
//	pipe := docpipe.New(docpipe.Config{})
//	text, err := pipe.Extract(ctx, data, "application/pdf")
package docpipe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Pipeline is the document extraction engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Detect maps a declared mime type to a Format. Unrecognised types map to
// FormatUnknown. Bare extension aliases ("pdf", "docx") are accepted because
// upload clients are sloppy about content types.
func Detect(mimeType string) Format {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	// Strip parameters: "application/pdf; charset=binary".
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "application/pdf", "pdf", ".pdf":
		return FormatPDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"docx", ".docx":
		return FormatDocx
	default:
		return FormatUnknown
	}
}

// Extract converts raw document bytes into plain text.
// Unsupported declared types return ("", nil). Decode failures return an
// *ExtractionError. Pure transformation, no side effects.
func (p *Pipeline) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	doc, err := p.ExtractDocument(ctx, data, mimeType)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

// ExtractDocument is Extract with structure: it also reports the detected
// format, a best-effort title, and PDF extraction quality metrics.
func (p *Pipeline) ExtractDocument(ctx context.Context, data []byte, mimeType string) (*Document, error) {
	if int64(len(data)) > p.cfg.MaxFileSize {
		return nil, &ExtractionError{
			Format: Detect(mimeType),
			Err:    fmt.Errorf("file too large: %d bytes (max %d)", len(data), p.cfg.MaxFileSize),
		}
	}

	format := Detect(mimeType)
	p.logger.Debug("extracting document", "mime_type", mimeType, "format", format, "bytes", len(data))

	switch format {
	case FormatPDF:
		title, text, quality, err := extractPDF(data)
		if err != nil {
			return nil, &ExtractionError{Format: FormatPDF, Err: err}
		}
		return &Document{Format: FormatPDF, Title: title, Text: text, Quality: quality}, nil

	case FormatDocx:
		title, text, err := extractDocx(data)
		if err != nil {
			return nil, &ExtractionError{Format: FormatDocx, Err: err}
		}
		return &Document{Format: FormatDocx, Title: title, Text: text}, nil

	default:
		// Unsupported type: empty text, no error.
		return &Document{Format: FormatUnknown}, nil
	}
}

// SupportedMimeTypes returns the declared types the engine can decode.
func SupportedMimeTypes() []string {
	return []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}
