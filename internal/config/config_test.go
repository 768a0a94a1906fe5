package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	t.Setenv("TEST_GETENV", "")
	if result := getenv("TEST_GETENV", "default"); result != "default" {
		t.Errorf("Expected default value 'default', got '%s'", result)
	}

	t.Setenv("TEST_GETENV", "  test-value ")
	if result := getenv("TEST_GETENV", "default"); result != "test-value" {
		t.Errorf("Expected 'test-value', got '%s'", result)
	}
}

func TestGetenvTyped(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		check func(t *testing.T)
	}{
		{
			name:  "int",
			value: "100",
			check: func(t *testing.T) {
				if v := getenvInt("TEST_TYPED", 42); v != 100 {
					t.Errorf("Expected 100, got %d", v)
				}
			},
		},
		{
			name:  "invalid int",
			value: "not-an-int",
			check: func(t *testing.T) {
				if v := getenvInt("TEST_TYPED", 42); v != 42 {
					t.Errorf("Expected default value 42, got %d", v)
				}
			},
		},
		{
			name:  "float",
			value: "12.5",
			check: func(t *testing.T) {
				if v := getenvFloat("TEST_TYPED", 15); v != 12.5 {
					t.Errorf("Expected 12.5, got %v", v)
				}
			},
		},
		{
			name:  "bool",
			value: "true",
			check: func(t *testing.T) {
				if v := getenvBool("TEST_TYPED", false); !v {
					t.Errorf("Expected true, got %v", v)
				}
			},
		},
		{
			name:  "invalid bool",
			value: "maybe",
			check: func(t *testing.T) {
				if v := getenvBool("TEST_TYPED", true); !v {
					t.Errorf("Expected default value true, got %v", v)
				}
			},
		},
		{
			name:  "duration",
			value: "90s",
			check: func(t *testing.T) {
				if v := getenvDuration("TEST_TYPED", time.Second); v != 90*time.Second {
					t.Errorf("Expected 90s, got %v", v)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_TYPED", tc.value)
			tc.check(t)
		})
	}
}

func clearEnv(t *testing.T) {
	for _, k := range []string{
		FileEnv, "DEGREEPLAN_CATALOG_DIR", "DEGREEPLAN_CATALOG_URL", "DEGREEPLAN_HTTP_TIMEOUT",
		"DEGREEPLAN_UNITS_PER_TERM", "DEGREEPLAN_UPPER_DIVISION_UNITS", "LOG_MODE", "LOG_LEVEL",
		"DEGREEPLAN_WORKERS", "SFTP_HOST", "SFTP_PORT", "SFTP_USER", "SFTP_PASS", "SFTP_DIR",
		"SFTP_KNOWN_HOSTS", "SFTP_INSECURE_IGNORE_HOSTKEY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
	if cfg.Planner().UnitsPerTerm != 15 {
		t.Errorf("Expected 15 units per term, got %v", cfg.Planner().UnitsPerTerm)
	}
	if cfg.SFTPDir != "/inbound" || cfg.SFTPPort != 22 {
		t.Errorf("Expected SFTP defaults, got %q:%d", cfg.SFTPDir, cfg.SFTPPort)
	}
}

func TestLoadLayers(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "degreeplan.yaml")
	yaml := "catalog_dir: /srv/catalog\nunits_per_term: 12\nworkers: 4\nsftp_host: file.example\nhttp_timeout: 5s\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(FileEnv, path)
	t.Setenv("DEGREEPLAN_WORKERS", "8")
	t.Setenv("SFTP_HOST", "sftp.test")
	t.Setenv("SFTP_PORT", "2222")
	t.Setenv("SFTP_PASS", "sftp-pass")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.CatalogDir != "/srv/catalog" {
		t.Errorf("Expected CatalogDir from file, got %q", cfg.CatalogDir)
	}
	if cfg.UnitsPerTerm != 12 || cfg.Planner().UnitsPerTerm != 12 {
		t.Errorf("Expected 12 units per term from file, got %v", cfg.UnitsPerTerm)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("Expected 5s timeout from file, got %v", cfg.HTTPTimeout)
	}
	if cfg.Workers != 8 {
		t.Errorf("Expected env to override file workers, got %d", cfg.Workers)
	}
	sftp := cfg.SFTP()
	if sftp.Host != "sftp.test" || sftp.Port != 2222 || sftp.Pass != "sftp-pass" {
		t.Errorf("Expected SFTP settings from env, got %+v", sftp)
	}
}

func TestLoadBadFile(t *testing.T) {
	clearEnv(t)

	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Errorf("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("workers: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(FileEnv, path)
	if _, err := Load(); err == nil {
		t.Errorf("Expected error for malformed file")
	}
}
