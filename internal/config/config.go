package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AWSConfig struct {
	Region string `yaml:"region"`
}

type StorageConfig struct {
	InputsBucket  string `yaml:"inputs_bucket"`
	ResultsBucket string `yaml:"results_bucket"`
	InputsPrefix  string `yaml:"inputs_prefix"`
	ResultsPrefix string `yaml:"results_prefix"`
	ScratchDir    string `yaml:"scratch_dir"`
}

type GlacierConfig struct {
	Vault string `yaml:"vault"`
}

type TableConfig struct {
	Name      string `yaml:"name"`
	UserIndex string `yaml:"user_index"`
}

type QueuesConfig struct {
	SubmissionsURL string `yaml:"submissions_url"`
	// ArchiveURL is a delayed queue; messages surface minutes after the
	// completion notification so free-tier users get a grace window.
	ArchiveURL    string `yaml:"archive_url"`
	RestoreURL    string `yaml:"restore_url"`
	ThawURL       string `yaml:"thaw_url"`
	QuarantineURL string `yaml:"quarantine_url"`

	WaitSeconds int `yaml:"wait_seconds"` // long-poll window per receive
	MaxReceive  int `yaml:"max_receive"`  // deliveries before quarantine
}

type TopicsConfig struct {
	JobRequestsARN  string `yaml:"job_requests_arn"`
	JobResultsARN   string `yaml:"job_results_arn"`
	RestoreStartARN string `yaml:"restore_start_arn"`
	// ThawARN is handed to the cold store so retrieval completions come back
	// to us.
	ThawARN string `yaml:"thaw_arn"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"` // accounts database
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type EngineConfig struct {
	// Command runs the annotation toolchain: Command <input> .
	Command string `yaml:"command"`
	// Wrapper is the completion-reporting binary the ingest worker launches.
	Wrapper string `yaml:"wrapper"`
}

type WebConfig struct {
	Port         int           `yaml:"port"`
	JWTSecret    string        `yaml:"jwt_secret"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

type AdminConfig struct {
	Port int `yaml:"port"` // /metrics and health
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	AWS      AWSConfig      `yaml:"aws"`
	Storage  StorageConfig  `yaml:"storage"`
	Glacier  GlacierConfig  `yaml:"glacier"`
	Table    TableConfig    `yaml:"table"`
	Queues   QueuesConfig   `yaml:"queues"`
	Topics   TopicsConfig   `yaml:"topics"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Engine   EngineConfig   `yaml:"engine"`
	Web      WebConfig      `yaml:"web"`
	Admin    AdminConfig    `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation
	if cfg.AWS.Region == "" {
		return nil, errors.New("aws.region is required")
	}
	if cfg.Storage.InputsBucket == "" || cfg.Storage.ResultsBucket == "" {
		return nil, errors.New("storage.inputs_bucket and storage.results_bucket are required")
	}
	if cfg.Table.Name == "" {
		return nil, errors.New("table.name is required")
	}
	if cfg.Queues.SubmissionsURL == "" {
		return nil, errors.New("queues.submissions_url is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Storage.ScratchDir == "" {
		cfg.Storage.ScratchDir = "jobs"
	}
	if cfg.Table.UserIndex == "" {
		cfg.Table.UserIndex = "user_id_index"
	}
	if cfg.Queues.WaitSeconds <= 0 {
		cfg.Queues.WaitSeconds = 3
	}
	if cfg.Queues.MaxReceive <= 0 {
		cfg.Queues.MaxReceive = 5
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Engine.Command == "" {
		cfg.Engine.Command = "anntools"
	}
	if cfg.Engine.Wrapper == "" {
		cfg.Engine.Wrapper = "annotate"
	}
	if cfg.Web.SessionTTL <= 0 {
		cfg.Web.SessionTTL = 30 * time.Minute
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 9090
	}
}
