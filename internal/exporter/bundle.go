package exporter

import (
	"archive/zip"
	"fmt"
	"io"
	"time"
)

// WriteBundle writes artifacts as one zip archive, in the given order
func WriteBundle(w io.Writer, artifacts []*Artifact, modified time.Time) error {
	zw := zip.NewWriter(w)
	for _, a := range artifacts {
		hdr := &zip.FileHeader{
			Name:     a.Filename,
			Method:   zip.Deflate,
			Modified: modified,
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("failed to add %s to bundle: %w", a.Filename, err)
		}
		if _, err := fw.Write(a.Body); err != nil {
			return fmt.Errorf("failed to write %s to bundle: %w", a.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close bundle: %w", err)
	}
	return nil
}
