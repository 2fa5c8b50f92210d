package web

import (
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/logging"
)

// uploadResponse summarizes one manifest ingestion for the client.
type uploadResponse struct {
	Created      int             `json:"created"`
	Errors       int             `json:"errors"`
	ShipmentIDs  []uuid.UUID     `json:"shipment_ids"`
	ErrorDetails []core.RowError `json:"error_details"`
}

// handleUpload ingests a multipart manifest upload. Row-level failures
// come back in the response body; only manifest-level problems produce
// an error status.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondError(w, r, badRequest(fmt.Errorf("parse multipart form: %w", err)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, badRequest(fmt.Errorf("missing file field: %w", err)))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := s.service.Ingest(r.Context(), data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("manifest ingested",
		"filename", header.Filename,
		"size", header.Size,
		"created", len(result.Created),
		"row_errors", len(result.Errors),
	)

	resp := uploadResponse{
		Created:      len(result.Created),
		Errors:       len(result.Errors),
		ShipmentIDs:  result.Created,
		ErrorDetails: result.Errors,
	}
	if resp.ShipmentIDs == nil {
		resp.ShipmentIDs = []uuid.UUID{}
	}
	if resp.ErrorDetails == nil {
		resp.ErrorDetails = []core.RowError{}
	}
	writeJSON(w, http.StatusOK, resp)
}
