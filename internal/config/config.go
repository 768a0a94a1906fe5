// Package config loads runtime settings: defaults, then an optional YAML file
// named by DEGREEPLAN_CONFIG, then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"degree-planner/internal/planner"
	"degree-planner/internal/sftpclient"
)

const FileEnv = "DEGREEPLAN_CONFIG"

type Config struct {
	// Catalog
	CatalogDir  string        `yaml:"catalog_dir"`
	CatalogURL  string        `yaml:"catalog_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Planner
	UnitsPerTerm       float64 `yaml:"units_per_term"`
	UpperDivisionUnits float64 `yaml:"upper_division_units"`

	// Runtime
	LogMode  string `yaml:"log_mode"`
	LogLevel string `yaml:"log_level"`
	Workers  int    `yaml:"workers"`

	// SFTP
	SFTPHost                  string `yaml:"sftp_host"`
	SFTPPort                  int    `yaml:"sftp_port"`
	SFTPUser                  string `yaml:"sftp_user"`
	SFTPPass                  string `yaml:"-"`
	SFTPDir                   string `yaml:"sftp_dir"`
	SFTPKnownHosts            string `yaml:"sftp_known_hosts"`
	SFTPInsecureIgnoreHostKey bool   `yaml:"sftp_insecure_ignore_hostkey"`
}

func Default() Config {
	def := planner.DefaultConfig()
	return Config{
		CatalogDir:         "data",
		HTTPTimeout:        60 * time.Second,
		UnitsPerTerm:       def.UnitsPerTerm,
		UpperDivisionUnits: def.UpperDivisionUnits,
		LogMode:            "dev",
		LogLevel:           "info",
		Workers:            10,
		SFTPPort:           22,
		SFTPDir:            "/inbound",
	}
}

// Load applies the YAML overlay (when DEGREEPLAN_CONFIG is set) and then the
// environment on top of Default.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv(FileEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	// Catalog
	cfg.CatalogDir = getenv("DEGREEPLAN_CATALOG_DIR", cfg.CatalogDir)
	cfg.CatalogURL = getenv("DEGREEPLAN_CATALOG_URL", cfg.CatalogURL)
	cfg.HTTPTimeout = getenvDuration("DEGREEPLAN_HTTP_TIMEOUT", cfg.HTTPTimeout)

	// Planner
	cfg.UnitsPerTerm = getenvFloat("DEGREEPLAN_UNITS_PER_TERM", cfg.UnitsPerTerm)
	cfg.UpperDivisionUnits = getenvFloat("DEGREEPLAN_UPPER_DIVISION_UNITS", cfg.UpperDivisionUnits)

	// Runtime
	cfg.LogMode = getenv("LOG_MODE", cfg.LogMode)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.Workers = getenvInt("DEGREEPLAN_WORKERS", cfg.Workers)

	// SFTP
	cfg.SFTPHost = getenv("SFTP_HOST", cfg.SFTPHost)
	cfg.SFTPPort = getenvInt("SFTP_PORT", cfg.SFTPPort)
	cfg.SFTPUser = getenv("SFTP_USER", cfg.SFTPUser)
	cfg.SFTPPass = getenv("SFTP_PASS", cfg.SFTPPass)
	cfg.SFTPDir = getenv("SFTP_DIR", cfg.SFTPDir)
	cfg.SFTPKnownHosts = getenv("SFTP_KNOWN_HOSTS", cfg.SFTPKnownHosts)
	cfg.SFTPInsecureIgnoreHostKey = getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", cfg.SFTPInsecureIgnoreHostKey)

	return cfg, nil
}

// Planner returns the scheduling thresholds with the configured overrides.
func (c Config) Planner() planner.Config {
	p := planner.DefaultConfig().WithUnitsPerTerm(c.UnitsPerTerm)
	if c.UpperDivisionUnits > 0 {
		p.UpperDivisionUnits = c.UpperDivisionUnits
	}
	return p
}

func (c Config) SFTP() sftpclient.Config {
	return sftpclient.Config{
		Host:                  c.SFTPHost,
		Port:                  c.SFTPPort,
		User:                  c.SFTPUser,
		Pass:                  c.SFTPPass,
		RemoteDir:             c.SFTPDir,
		KnownHostsFile:        c.SFTPKnownHosts,
		InsecureIgnoreHostKey: c.SFTPInsecureIgnoreHostKey,
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v, err := strconv.Atoi(getenv(k, ""))
	if err != nil {
		return def
	}
	return v
}

func getenvFloat(k string, def float64) float64 {
	v, err := strconv.ParseFloat(getenv(k, ""), 64)
	if err != nil {
		return def
	}
	return v
}

func getenvBool(k string, def bool) bool {
	v, err := strconv.ParseBool(getenv(k, ""))
	if err != nil {
		return def
	}
	return v
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getenv(k, ""))
	if err != nil {
		return def
	}
	return v
}
