package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	// Check that all fields are populated
	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}

	// Verify that runtime values are correct
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
			setEnv:       false,
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
		{
			name:         "Returns empty string when env var is empty",
			key:          "TEST_EMPTY_VAR",
			defaultValue: "default",
			envValue:     "",
			want:         "",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				// Ensure the variable is not set
				os.Unsetenv(tt.key)
				t.Cleanup(func() {
					os.Unsetenv(tt.key)
				})
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestRouteInfo(t *testing.T) {
	route := RouteInfo{
		Method: "GET",
		Path:   "/api/test",
		Name:   "TestRoute",
	}

	if route.Method != "GET" {
		t.Errorf("Expected Method=GET, got %s", route.Method)
	}
	if route.Path != "/api/test" {
		t.Errorf("Expected Path=/api/test, got %s", route.Path)
	}
	if route.Name != "TestRoute" {
		t.Errorf("Expected Name=TestRoute, got %s", route.Name)
	}
}

func TestLoadConfig(t *testing.T) {
	base := t.TempDir()
	t.Setenv("UPLOAD_DIR", filepath.Join(base, "uploads"))
	t.Setenv("PROCESSED_DIR", filepath.Join(base, "processed"))
	t.Setenv("DATABASE_DIR", filepath.Join(base, "database"))
	t.Setenv("PORT", "8181")
	t.Setenv("RETENTION", "1h")
	t.Setenv("SWEEP_INTERVAL", "10m")
	t.Setenv("MAX_UPLOAD_MB", "100")
	t.Setenv("POSE_MODEL_COMPLEXITY", "1")
	t.Setenv("POSE_MIN_DETECTION_CONFIDENCE", "0.6")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != "8181" {
		t.Errorf("Port = %q, want 8181", cfg.Port)
	}
	if cfg.Retention != time.Hour {
		t.Errorf("Retention = %v, want 1h", cfg.Retention)
	}
	if cfg.SweepInterval != 10*time.Minute {
		t.Errorf("SweepInterval = %v, want 10m", cfg.SweepInterval)
	}
	if cfg.MaxUploadMB != 100 {
		t.Errorf("MaxUploadMB = %d, want 100", cfg.MaxUploadMB)
	}
	if cfg.Detector.ModelComplexity != 1 {
		t.Errorf("ModelComplexity = %d, want 1", cfg.Detector.ModelComplexity)
	}
	if cfg.Detector.MinDetectionConfidence != 0.6 {
		t.Errorf("MinDetectionConfidence = %v, want 0.6", cfg.Detector.MinDetectionConfidence)
	}
	if cfg.DatabasePath != filepath.Join(cfg.DatabaseDir, "jobs.db") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}

	// LoadConfig must create the directories it was pointed at.
	for _, dir := range []string{cfg.UploadDir, cfg.ProcessedDir, cfg.DatabaseDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %q not created: %v", dir, err)
		}
	}
}

func TestLoadConfigInvalidDurationsFallBack(t *testing.T) {
	base := t.TempDir()
	t.Setenv("UPLOAD_DIR", filepath.Join(base, "uploads"))
	t.Setenv("PROCESSED_DIR", filepath.Join(base, "processed"))
	t.Setenv("DATABASE_DIR", filepath.Join(base, "database"))
	t.Setenv("RETENTION", "soon")
	t.Setenv("SWEEP_INTERVAL", "often")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Retention != 2*time.Hour {
		t.Errorf("Retention = %v, want default 2h", cfg.Retention)
	}
	if cfg.SweepInterval != 30*time.Minute {
		t.Errorf("SweepInterval = %v, want default 30m", cfg.SweepInterval)
	}
}

func TestLoadConfigRejectsBadDetectorConfig(t *testing.T) {
	base := t.TempDir()
	t.Setenv("UPLOAD_DIR", filepath.Join(base, "uploads"))
	t.Setenv("PROCESSED_DIR", filepath.Join(base, "processed"))
	t.Setenv("DATABASE_DIR", filepath.Join(base, "database"))
	t.Setenv("POSE_MODEL_COMPLEXITY", "7")

	if _, err := LoadConfig(); err == nil {
		t.Error("invalid detector configuration accepted")
	}
}
