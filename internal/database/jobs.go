package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pose-viewer/internal/metrics"
)

// JobStatus is the lifecycle state of an overlay job.
type JobStatus string

const (
	// JobProcessing means the pipeline is still running.
	JobProcessing JobStatus = "processing"
	// JobDone means the final output exists and is servable.
	JobDone JobStatus = "done"
	// JobFailed means the job aborted before producing output.
	JobFailed JobStatus = "failed"
)

// ErrJobNotFound is returned when a job ID has no record.
var ErrJobNotFound = errors.New("job not found")

// Job is one overlay job record.
type Job struct {
	ID               string    `json:"id"`
	InputName        string    `json:"inputName"`
	Status           JobStatus `json:"status"`
	Orientation      int       `json:"orientation"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	Frames           int       `json:"frames"`
	DetectorFailures int       `json:"detectorFailures"`
	Truncated        bool      `json:"truncated"`
	Outcome          string    `json:"outcome,omitempty"`
	ErrorReason      string    `json:"errorReason,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CreateJob inserts a new job in the processing state.
func (d *Database) CreateJob(ctx context.Context, id, inputName string, orientation int) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("create_job", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO jobs (id, input_name, status, orientation) VALUES (?, ?, ?, ?)`,
		id, inputName, JobProcessing, orientation,
	)
	return err
}

// CompleteJob marks a job done and records its run summary.
func (d *Database) CompleteJob(ctx context.Context, job *Job) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("update_job", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx, `
		UPDATE jobs SET
			status = ?,
			orientation = ?,
			width = ?, height = ?,
			frames = ?, detector_failures = ?, truncated = ?,
			outcome = ?,
			updated_at = strftime('%s', 'now')
		WHERE id = ?`,
		JobDone, job.Orientation, job.Width, job.Height,
		job.Frames, job.DetectorFailures, job.Truncated,
		job.Outcome, job.ID,
	)
	return err
}

// FailJob marks a job failed with a reason.
func (d *Database) FailJob(ctx context.Context, id, reason string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("update_job", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, error_reason = ?, updated_at = strftime('%s', 'now')
		WHERE id = ?`,
		JobFailed, reason, id,
	)
	return err
}

// GetJob fetches one job record by ID.
func (d *Database) GetJob(ctx context.Context, id string) (*Job, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_job", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var job Job
	var truncated int
	var createdAt, updatedAt int64

	err = d.db.QueryRowContext(ctx, `
		SELECT id, input_name, status, orientation, width, height,
			frames, detector_failures, truncated, outcome, error_reason,
			created_at, updated_at
		FROM jobs WHERE id = ?`, id,
	).Scan(
		&job.ID, &job.InputName, &job.Status, &job.Orientation,
		&job.Width, &job.Height, &job.Frames, &job.DetectorFailures,
		&truncated, &job.Outcome, &job.ErrorReason,
		&createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrJobNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	job.Truncated = truncated != 0
	job.CreatedAt = time.Unix(createdAt, 0)
	job.UpdatedAt = time.Unix(updatedAt, 0)
	return &job, nil
}

// GetStats counts job records by status for the metrics collector.
func (d *Database) GetStats() metrics.Stats {
	start := time.Now()
	var err error
	defer func() { recordQuery("count_jobs", start, err) }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var stats metrics.Stats
	rows, err := d.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return stats
	}
	defer rows.Close()

	for rows.Next() {
		var status JobStatus
		var count int
		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			continue
		}
		switch status {
		case JobProcessing:
			stats.ProcessingJobs = count
		case JobDone:
			stats.CompletedJobs = count
		case JobFailed:
			stats.FailedJobs = count
		}
	}
	err = rows.Err()
	return stats
}
