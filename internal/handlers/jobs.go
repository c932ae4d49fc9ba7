package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"pose-viewer/internal/database"
	"pose-viewer/internal/logging"
)

// GetJob returns the status record of one job.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	job, err := h.db.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, database.ErrJobNotFound) {
			writeJSONError(w, "job not found", http.StatusNotFound)
			return
		}
		logging.Error("failed to load job %s: %v", jobID, err)
		writeJSONError(w, "failed to load job", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, job)
}
