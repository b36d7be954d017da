package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Poller   *pollerConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"jobs"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address               string `envconfig:"DASHBOARD_ADDRESS" default:":3443"`
	MetricsAddress        string `envconfig:"DASHBOARD_METRICS_ADDRESS" default:":8080"`
	LogLevel              string `envconfig:"DASHBOARD_LOG_LEVEL" default:"info"`
	AdminToken            string `envconfig:"DASHBOARD_ADMIN_TOKEN" default:""`
	DefaultJobsLimit      int    `envconfig:"DASHBOARD_DEFAULT_JOBS_LIMIT" default:"100"`
	MaxJobsLimit          int    `envconfig:"DASHBOARD_MAX_JOBS_LIMIT" default:"500"`
	StuckThresholdMinutes int    `envconfig:"DASHBOARD_STUCK_THRESHOLD_MINUTES" default:"10"`
	MonitorIntervalSec    int    `envconfig:"DASHBOARD_MONITOR_INTERVAL_SECONDS" default:"30"`
	MigrationFolder       string `envconfig:"DASHBOARD_MIGRATIONS_FOLDER" default:""`
}

type pollerConfig struct {
	BaseURL      string `envconfig:"SORA_POLLER_BASE_URL" default:""`
	Token        string `envconfig:"ADMIN_DASHBOARD_TOKEN" default:""`
	TimeoutSec   int    `envconfig:"SORA_POLLER_TIMEOUT_SECONDS" default:"30"`
	MaxBatchSize int    `envconfig:"SORA_POLLER_MAX_BATCH_SIZE" default:"25"`
	DefaultBatch int    `envconfig:"SORA_POLLER_DEFAULT_BATCH_SIZE" default:"5"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a config suitable for local development and tests:
// an in-memory sqlite store shared across connections.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: "file::memory:?cache=shared",
		},
		Service: &svcConfig{
			Address:               ":3443",
			MetricsAddress:        ":8080",
			LogLevel:              "info",
			DefaultJobsLimit:      100,
			MaxJobsLimit:          500,
			StuckThresholdMinutes: 10,
			MonitorIntervalSec:    30,
		},
		Poller: &pollerConfig{
			MaxBatchSize: 25,
			DefaultBatch: 5,
			TimeoutSec:   30,
		},
	}
}
