package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "INFOFLOW_CONFIG"
	dbPathEnv     = "INFOFLOW_DB_PATH"
	httpHostEnv   = "INFOFLOW_HTTP_HOST"
	httpPortEnv   = "INFOFLOW_HTTP_PORT"
	logLevelEnv   = "INFOFLOW_LOG_LEVEL"
)

// Config holds high-level settings required across the application. The
// scoring, synthesis and decision sections are policy: the engine treats
// their constants as configurable, not load-bearing.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Decision  DecisionConfig  `yaml:"decision"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig describes the SQLite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ScoringConfig holds the inclusive relevance lower bound of each tier.
type ScoringConfig struct {
	CriticalAt float64 `yaml:"criticalAt"`
	HighAt     float64 `yaml:"highAt"`
	MediumAt   float64 `yaml:"mediumAt"`
	LowAt      float64 `yaml:"lowAt"`
}

// SynthesisConfig holds the tier gap that flags a contradiction.
type SynthesisConfig struct {
	ContradictionGap int `yaml:"contradictionGap"`
}

// StyleWeightsConfig weights attribute kinds for one decision style.
type StyleWeightsConfig struct {
	Objective  float64 `yaml:"objective"`
	Subjective float64 `yaml:"subjective"`
}

// RiskCeilingConfig caps the risk attribute per tolerance; 0 means no
// ceiling.
type RiskCeilingConfig struct {
	Low    float64 `yaml:"low"`
	Medium float64 `yaml:"medium"`
	High   float64 `yaml:"high"`
}

// DecisionConfig holds evaluation weights and recommendation ceilings.
type DecisionConfig struct {
	Analytical    StyleWeightsConfig `yaml:"analytical"`
	Intuitive     StyleWeightsConfig `yaml:"intuitive"`
	Collaborative StyleWeightsConfig `yaml:"collaborative"`
	RiskCeilings  RiskCeilingConfig  `yaml:"riskCeilings"`
	RiskAttribute string             `yaml:"riskAttribute"`
}

// Load reads an optional .env file, then YAML configuration (if present),
// and applies environment overrides on top of defaults.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(httpHostEnv); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv(httpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		} else {
			log.Printf("config: invalid %s value %q, keeping %d", httpPortEnv, v, c.Server.Port)
		}
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Host != "" {
		base.Server.Host = override.Server.Host
	}
	if override.Server.Port != 0 {
		base.Server.Port = override.Server.Port
	}
	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Scoring != (ScoringConfig{}) {
		base.Scoring = override.Scoring
	}
	if override.Synthesis.ContradictionGap != 0 {
		base.Synthesis.ContradictionGap = override.Synthesis.ContradictionGap
	}

	if override.Decision.Analytical != (StyleWeightsConfig{}) {
		base.Decision.Analytical = override.Decision.Analytical
	}
	if override.Decision.Intuitive != (StyleWeightsConfig{}) {
		base.Decision.Intuitive = override.Decision.Intuitive
	}
	if override.Decision.Collaborative != (StyleWeightsConfig{}) {
		base.Decision.Collaborative = override.Decision.Collaborative
	}
	if override.Decision.RiskCeilings != (RiskCeilingConfig{}) {
		base.Decision.RiskCeilings = override.Decision.RiskCeilings
	}
	if override.Decision.RiskAttribute != "" {
		base.Decision.RiskAttribute = override.Decision.RiskAttribute
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8080},
		Database: DatabaseConfig{Path: "./data/infoflow.db"},
		Logging:  LoggingConfig{Level: "info"},
		Scoring: ScoringConfig{
			CriticalAt: 0.9,
			HighAt:     0.7,
			MediumAt:   0.4,
			LowAt:      0.15,
		},
		Synthesis: SynthesisConfig{ContradictionGap: 2},
		Decision: DecisionConfig{
			Analytical:    StyleWeightsConfig{Objective: 1.0, Subjective: 0.25},
			Intuitive:     StyleWeightsConfig{Objective: 0.25, Subjective: 1.0},
			Collaborative: StyleWeightsConfig{Objective: 0.625, Subjective: 0.625},
			RiskCeilings:  RiskCeilingConfig{Low: 0.5, Medium: 0.8, High: 0},
			RiskAttribute: "risk",
		},
	}
}
