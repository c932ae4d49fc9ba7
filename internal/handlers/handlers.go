package handlers

import (
	"time"

	"pose-viewer/internal/database"
	"pose-viewer/internal/startup"
)

// ProcessFunc runs one overlay job in the background. Implementations
// record the job outcome in the database and in the metrics.
type ProcessFunc func(jobID, inputPath string, orientationHint *int)

type Handlers struct {
	db           *database.Database
	uploadDir    string
	processedDir string
	maxUploadMB  int64
	process      ProcessFunc
	startedAt    time.Time
}

func New(db *database.Database, config *startup.Config, process ProcessFunc) *Handlers {
	return &Handlers{
		db:           db,
		uploadDir:    config.UploadDir,
		processedDir: config.ProcessedDir,
		maxUploadMB:  config.MaxUploadMB,
		process:      process,
		startedAt:    time.Now(),
	}
}
