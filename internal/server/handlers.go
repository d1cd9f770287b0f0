package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Rana718/Seedbed/internal/dispatch"
	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/records"
)

func (s *Server) badBody(w http.ResponseWriter, r *http.Request, err error) {
	JSONError(w, r, http.StatusBadRequest, errs.CodeInvalidArgument.String(), fmt.Sprintf("Invalid request body: %v", err))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req dispatch.GenerateRequest
	if err := ParseJSON(w, r, &req); err != nil {
		s.badBody(w, r, err)
		return
	}

	res, err := s.dispatcher.Generate(r.Context(), req)
	if err != nil {
		writeResultError(w, r, err, res)
		return
	}
	JSONMessage(w, fmt.Sprintf("Generated %d", req.Count))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var req dispatch.ClearRequest
	if err := ParseJSON(w, r, &req); err != nil {
		s.badBody(w, r, err)
		return
	}

	res, err := s.dispatcher.Clear(r.Context(), req)
	if err != nil {
		writeResultError(w, r, err, res)
		return
	}
	JSONMessage(w, fmt.Sprintf("Cleared %s", res.DBType))
}

// handleFetch serves /staff. POST reads db_type and table_name from the body,
// GET from the query string. table_name defaults to staff.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var req dispatch.FetchRequest
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		req.DBType = q.Get("db_type")
		req.TableName = q.Get("table_name")
	} else if err := ParseJSON(w, r, &req); err != nil {
		s.badBody(w, r, err)
		return
	}
	if req.TableName == "" {
		req.TableName = string(records.KindStaff)
	}

	batch, err := s.dispatcher.Fetch(r.Context(), req)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	JSON(w, batch)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger == nil {
		JSON(w, map[string]any{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	failed := s.pinger.Ping(ctx)
	if len(failed) == 0 {
		JSON(w, map[string]any{"status": "ok"})
		return
	}
	details := make(map[string]string, len(failed))
	for b, err := range failed {
		details[b.String()] = err.Error()
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "failed": details})
}
