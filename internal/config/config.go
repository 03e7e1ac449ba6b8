package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Runtime struct {
	Image            string `yaml:"image"`
	Network          string `yaml:"network"`
	DisplayPort      int    `yaml:"display_port"`
	ShmSizeMB        int    `yaml:"shm_size_mb"`
	OpTimeoutSeconds int    `yaml:"op_timeout_seconds"`
}

type Lifecycle struct {
	IdleTimeoutSeconds   int `yaml:"idle_timeout_seconds"`
	GraceTimeoutSeconds  int `yaml:"grace_timeout_seconds"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
}

type Config struct {
	Listen         string    `yaml:"listen"`
	AuthToken      string    `yaml:"auth_token"`
	ProfilesDir    string    `yaml:"profiles_dir"`
	DBPath         string    `yaml:"db_path"`
	PublicBaseURL  string    `yaml:"public_base_url"`
	CallbackURL    string    `yaml:"callback_url"`
	AllowedOrigins []string  `yaml:"allowed_origins"`
	Runtime        Runtime   `yaml:"runtime"`
	Lifecycle      Lifecycle `yaml:"lifecycle"`
}

func Load(yamlPath string) (*Config, error) {
	cfg := &Config{
		Listen:        "127.0.0.1:3000",
		ProfilesDir:   "./user-profiles",
		DBPath:        "./glaskasten.db",
		PublicBaseURL: "http://localhost:3000",
		CallbackURL:   "http://172.17.0.1:3000",
		AllowedOrigins: []string{
			"https://portal2.ai",
			"https://www.portal2.ai",
		},
		Runtime: Runtime{
			Image:            "remote-chrome:latest",
			Network:          "bridge",
			DisplayPort:      5901,
			ShmSizeMB:        512,
			OpTimeoutSeconds: 30,
		},
		Lifecycle: Lifecycle{
			IdleTimeoutSeconds:   30 * 60,
			GraceTimeoutSeconds:  3 * 24 * 60 * 60,
			SweepIntervalSeconds: 60,
		},
	}

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GLASKASTEN_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("GLASKASTEN_AUTH_TOKEN"); v != "" {
		cfg.AuthToken = v
	}
	if v := os.Getenv("GLASKASTEN_PROFILES_DIR"); v != "" {
		cfg.ProfilesDir = v
	}
	if v := os.Getenv("GLASKASTEN_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("GLASKASTEN_PUBLIC_BASE_URL"); v != "" {
		cfg.PublicBaseURL = v
	}
	if v := os.Getenv("GLASKASTEN_CALLBACK_URL"); v != "" {
		cfg.CallbackURL = v
	}
	if v := os.Getenv("GLASKASTEN_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("GLASKASTEN_RUNTIME_IMAGE"); v != "" {
		cfg.Runtime.Image = v
	}
	if v := os.Getenv("GLASKASTEN_RUNTIME_NETWORK"); v != "" {
		cfg.Runtime.Network = v
	}
	if v := os.Getenv("GLASKASTEN_DISPLAY_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Runtime.DisplayPort = n
		}
	}
	if v := os.Getenv("GLASKASTEN_SHM_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Runtime.ShmSizeMB = n
		}
	}
	if v := os.Getenv("GLASKASTEN_OP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Runtime.OpTimeoutSeconds = n
		}
	}
	if v := os.Getenv("GLASKASTEN_IDLE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Lifecycle.IdleTimeoutSeconds = n
		}
	}
	if v := os.Getenv("GLASKASTEN_GRACE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Lifecycle.GraceTimeoutSeconds = n
		}
	}
	if v := os.Getenv("GLASKASTEN_SWEEP_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Lifecycle.SweepIntervalSeconds = n
		}
	}
}
