package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"clubportal/pkg/contracts/domain"
)

// Content types of the export artifacts
const (
	ContentTypeCSV  = "text/csv;charset=utf-8"
	ContentTypePDF  = "application/pdf"
	ContentTypeXML  = "application/xml"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeZIP  = "application/zip"
	ContentTypeJSON = "application/json"
)

// ContentTypeFor returns the content type of an export kind
func ContentTypeFor(kind domain.ExportKind) string {
	switch kind {
	case domain.ExportKindCSV:
		return ContentTypeCSV
	case domain.ExportKindSummaryPDF, domain.ExportKindStatisticsPDF:
		return ContentTypePDF
	case domain.ExportKindSEPA:
		return ContentTypeXML
	case domain.ExportKindXLSX:
		return ContentTypeXLSX
	case domain.ExportKindBundle:
		return ContentTypeZIP
	default:
		return "application/octet-stream"
	}
}

// Artifact is one rendered export document held in memory
type Artifact struct {
	Kind        domain.ExportKind
	Filename    string
	ContentType string
	Body        []byte
}

// Size returns the body length in bytes
func (a *Artifact) Size() int {
	return len(a.Body)
}

// WriteFile writes the artifact body to path, creating the parent directory
func (a *Artifact) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, a.Body, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
