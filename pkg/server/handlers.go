package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sentra-hq/sentra/pkg/scan"
	"sentra-hq/sentra/pkg/service"
)

func (s *Server) handleScanPrompt(w http.ResponseWriter, r *http.Request) {
	s.handleScan(w, r, s.service.ScanPrompt)
}

func (s *Server) handleScanOutput(w http.ResponseWriter, r *http.Request) {
	s.handleScan(w, r, s.service.ScanOutput)
}

type scanFunc func(ctx context.Context, req service.Request) (*service.Verdict, error)

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request, scanOp scanFunc) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid JSON body: "+err.Error())
		return
	}
	if req.Input == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "input must not be empty")
		return
	}

	verdict, err := scanOp(r.Context(), service.Request{
		RequestID: RequestID(r.Context()),
		Input:     req.Input,
		Scanners:  req.Scanners,
		NoCache:   req.NoCache,
	})
	if err != nil {
		writeScanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verdictView(verdict))
}

func (s *Server) handleScanBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid JSON body: "+err.Error())
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "items must not be empty")
		return
	}
	if s.maxBatchItems > 0 && len(req.Items) > s.maxBatchItems {
		writeError(w, http.StatusUnprocessableEntity, "validation_error",
			"too many items in batch")
		return
	}
	for i, item := range req.Items {
		if item.Input == "" {
			writeError(w, http.StatusUnprocessableEntity, "validation_error",
				fmt.Sprintf("items[%d].input must not be empty", i))
			return
		}
	}

	reqs := make([]service.Request, len(req.Items))
	for i, item := range req.Items {
		reqs[i] = service.Request{
			RequestID: item.ID,
			Input:     item.Input,
			Scanners:  item.Scanners,
			NoCache:   item.NoCache,
		}
	}

	res, err := s.service.ScanBatch(r.Context(), reqs, req.MaxConcurrent)
	if err != nil {
		// Batch-level errors are request validation failures: out-of-range
		// concurrency or colliding item IDs.
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	out := BatchScanResponse{
		Items:      []BatchItemView{},
		Succeeded:  res.Succeeded,
		Failed:     res.Failed,
		DurationMs: res.Duration.Milliseconds(),
	}
	for _, item := range res.Items {
		view := BatchItemView{ID: item.ID, Error: item.Error}
		if item.Verdict != nil {
			view.Verdict = verdictView(item.Verdict)
		}
		out.Items = append(out.Items, view)
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListScanners(w http.ResponseWriter, r *http.Request) {
	registry := s.service.Registry()

	out := ScannersResponse{Scanners: []ScannerView{}}
	for _, name := range registry.Names() {
		sc, ok := registry.Get(name)
		if !ok {
			continue
		}
		out.Scanners = append(out.Scanners, ScannerView{
			Name:        sc.Name(),
			Type:        sc.Type().String(),
			Description: sc.Description(),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeScanError maps scan errors to status codes: unknown scanner is 404,
// an empty roster is 400, everything else is 500.
func writeScanError(w http.ResponseWriter, err error) {
	var nf *scan.NotFoundError
	switch {
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, scan.ErrNoScanners):
		writeError(w, http.StatusBadRequest, "no_scanners", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Type: errType, Message: message}})
}
