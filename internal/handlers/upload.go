package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"pose-viewer/internal/logging"
	"pose-viewer/internal/metrics"
	"pose-viewer/internal/video"
)

// allowedUploadExtensions are the container formats accepted for upload.
// The decoder shells out to ffmpeg, so anything it can demux would work,
// but unknown extensions are usually misdirected uploads.
var allowedUploadExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
	".m4v":  true,
}

// UploadResponse is returned for an accepted upload.
type UploadResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Job    string `json:"job"`
	Video  string `json:"video"`
	Poster string `json:"poster"`
}

// UploadVideo accepts a multipart video upload, records a job, and
// kicks off processing in the background. The response is 202 with the
// job ID and the URLs where the results will appear.
func (h *Handlers) UploadVideo(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.maxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	// Small memory budget; larger files spill to temp files.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		writeJSONError(w, fmt.Sprintf("upload too large or malformed (limit %d MiB)", h.maxUploadMB), http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		writeJSONError(w, "missing 'video' form field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExtensions[ext] {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		writeJSONError(w, fmt.Sprintf("unsupported file extension %q", ext), http.StatusBadRequest)
		return
	}

	var hint *int
	orientation := 0
	if rotStr := r.FormValue("rotation"); rotStr != "" {
		rot, err := strconv.Atoi(rotStr)
		if err != nil {
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			writeJSONError(w, "rotation must be an integer number of degrees", http.StatusBadRequest)
			return
		}
		if _, err := video.ParseOrientation(rot); err != nil {
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		hint = &rot
		orientation = rot
	}

	jobID := uuid.New().String()
	inputPath := filepath.Join(h.uploadDir, jobID+"_input"+ext)

	written, err := saveUpload(file, inputPath)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		logging.Error("failed to store upload %s: %v", header.Filename, err)
		writeJSONError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}

	if err := h.db.CreateJob(r.Context(), jobID, header.Filename, orientation); err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		logging.Error("failed to create job record: %v", err)
		if rmErr := os.Remove(inputPath); rmErr != nil {
			logging.Warn("failed to remove orphaned upload %s: %v", inputPath, rmErr)
		}
		writeJSONError(w, "failed to create job", http.StatusInternalServerError)
		return
	}

	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	metrics.UploadBytes.Add(float64(written))
	logging.Info("accepted upload %s as job %s (%d bytes)", header.Filename, jobID, written)

	go h.process(jobID, inputPath, hint)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, UploadResponse{
		ID:     jobID,
		Status: "processing",
		Job:    "/api/jobs/" + jobID,
		Video:  "/api/video/" + jobID + "_output.mp4",
		Poster: "/api/poster/" + jobID + "_poster.jpg",
	})
}

func saveUpload(src io.Reader, path string) (int64, error) {
	dst, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		os.Remove(path)
		return 0, err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return 0, err
	}
	return written, nil
}
