// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// The following environment variables are supported:
//
//   - UPLOAD_DIR: Path to the directory holding uploaded videos (default: /uploads)
//   - PROCESSED_DIR: Path to the directory holding annotated output videos (default: /processed)
//   - DATABASE_DIR: Path to database directory (default: /database)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - RETENTION: How long uploads and outputs are kept, as Go duration (default: 2h)
//   - SWEEP_INTERVAL: How often expired files are removed, as Go duration (default: 30m)
//   - MAX_UPLOAD_MB: Upload size limit in MiB (default: 500)
//   - POSE_WORKER_CMD: Command used to start the pose detector worker process
//   - POSE_MODEL_COMPLEXITY: Detector model complexity, 0-2 (default: 2)
//   - POSE_MIN_DETECTION_CONFIDENCE: Detector detection threshold (default: 0.5)
//   - POSE_MIN_TRACKING_CONFIDENCE: Detector tracking threshold (default: 0.8)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// # Directory Setup
//
// The package creates the upload, processed, and database directories when
// missing and verifies that all three are writable. Any failure is fatal
// since every job touches all three.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides structured logging functions for consistent output:
//   - [LogDatabaseInit]: Database initialization timing
//   - [LogPipelineInit]: FFmpeg and detector worker availability
//   - [LogSweeperInit]: Retention sweeper configuration
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
//
// # Example Usage
//
//	config, err := startup.LoadConfig()
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//
//	// Initialize components...
//	startup.LogDatabaseInit(dbInitDuration)
//	startup.LogPipelineInit(config.Detector.WorkerCommand)
//	startup.LogSweeperInit(config.Retention, config.SweepInterval)
//
//	// Start server...
//	startup.LogServerStarted(startup.ServerConfig{
//	    Port:            config.Port,
//	    MetricsPort:     config.MetricsPort,
//	    MetricsEnabled:  config.MetricsEnabled,
//	    StartupDuration: time.Since(startTime),
//	})
//
//	// On shutdown...
//	startup.LogShutdownInitiated("SIGTERM")
//	// ... cleanup ...
//	startup.LogShutdownComplete()
package startup
