package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	apierrors "clubportal/internal/errors"
	"clubportal/internal/exporter"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// writeArtifact sends an artifact as a file download
func writeArtifact(w http.ResponseWriter, artifact *exporter.Artifact) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Filename})
	if disposition == "" {
		disposition = "attachment"
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(artifact.Size()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(artifact.Body)
	return err
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return apierrors.ErrInvalidRequest.WithCause(err)
	}
	return nil
}
