package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
)

// GetVideo serves an annotated output video. http.ServeFile handles
// range requests, which browsers use when seeking.
func (h *Handlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	h.serveProcessed(w, r, ".mp4", "video/mp4")
}

// GetPoster serves a poster image for an annotated video.
func (h *Handlers) GetPoster(w http.ResponseWriter, r *http.Request) {
	h.serveProcessed(w, r, ".jpg", "image/jpeg")
}

func (h *Handlers) serveProcessed(w http.ResponseWriter, r *http.Request, wantExt, contentType string) {
	name := mux.Vars(r)["name"]

	// Security check
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeJSONError(w, "invalid name", http.StatusBadRequest)
		return
	}
	if !strings.EqualFold(filepath.Ext(name), wantExt) {
		writeJSONError(w, "invalid name", http.StatusBadRequest)
		return
	}

	fullPath := filepath.Join(h.processedDir, name)
	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		writeJSONError(w, "file not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, fullPath)
}
