package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/model"
)

// maxHistoryPerRequest caps one GET /messages response.
const maxHistoryPerRequest = 50

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HandleHealth handles GET /healthz
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"clients": h.Registry.Count(),
	})
}

// GetHistory handles GET /messages?a=&b=&limit=
// Returns the recent conversation between two identities, oldest first.
// This is the recovery path for messages that settled in sent state
// while the recipient was offline.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	log.Printf("[GET /messages] Request received from %s", r.RemoteAddr)

	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		log.Printf("[GET /messages] ❌ Bad Request: missing participants")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a and b are required"})
		return
	}

	limit := maxHistoryPerRequest
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		if n < limit {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	msgList, err := h.Store.History(ctx, a, b, limit)
	if err != nil {
		log.Printf("[GET /messages] ❌ Database error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
		return
	}
	if msgList == nil {
		msgList = []model.Message{}
	}

	log.Printf("[GET /messages] ✅ Returned %d messages", len(msgList))
	writeJSON(w, http.StatusOK, msgList)
}
