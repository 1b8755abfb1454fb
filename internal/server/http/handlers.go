package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rubberove/switflake/pkg/switflake"
)

type decodedJSON struct {
	ID        string `json:"id"`
	Timestamp uint64 `json:"timestamp"`
	NodeID    uint16 `json:"nodeId"`
	Slot      uint8  `json:"slot"`
	Counter   uint8  `json:"counter"`
	Time      string `json:"time"`
}

func toDecodedJSON(id uint64, d switflake.Decoded) decodedJSON {
	return decodedJSON{
		ID:        strconv.FormatUint(id, 10),
		Timestamp: d.Timestamp,
		NodeID:    uint16(d.NodeID),
		Slot:      d.Slot,
		Counter:   d.Counter,
		Time:      d.Time().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func parseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	claims, err := s.rt.Claims()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list claims")
		return
	}
	writeJSON(w, map[string]any{
		"nodeId":     s.rt.Claim().NodeID,
		"owner":      s.rt.Claim().Owner,
		"claimedAt":  s.rt.Claim().ClaimedAtMs,
		"slotsInUse": s.rt.Generator().SlotsInUse(),
		"claims":     claims,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	ids, err := s.svc.Generate(r.Context(), req.Count)
	if err != nil {
		writeError(w, generateStatus(err), err.Error())
		return
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatUint(id, 10)
	}
	writeJSON(w, map[string]any{"ids": out})
}

// generateStatus maps generation failures to HTTP statuses: caller mistakes
// are 4xx, clock trouble is 503 (retryable or terminal, the body says
// which), slot starvation is 429.
func generateStatus(err error) int {
	switch {
	case errors.Is(err, switflake.ErrClockBackwards), errors.Is(err, switflake.ErrClockOverflow):
		return http.StatusServiceUnavailable
	case errors.Is(err, switflake.ErrCapacityExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id, err := parseID(req.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a decimal uint64 string")
		return
	}
	writeJSON(w, toDecodedJSON(id, s.svc.Decode(id)))
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req struct {
		IDs    []string `json:"ids"`
		Filter string   `json:"filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ids := make([]uint64, 0, len(req.IDs))
	for _, s := range req.IDs {
		id, err := parseID(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ids must be decimal uint64 strings")
			return
		}
		ids = append(ids, id)
	}
	results, err := s.svc.Inspect(ids, req.Filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out := make([]decodedJSON, len(results))
	for i, res := range results {
		out[i] = toDecodedJSON(res.ID, res.Decoded)
	}
	writeJSON(w, map[string]any{"results": out})
}
