package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/Rana718/Seedbed/internal/database/common"
	"github.com/Rana718/Seedbed/internal/database/relational"
	"github.com/Rana718/Seedbed/internal/seeder"
	"github.com/Rana718/Seedbed/internal/types"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultConfigName = "seedbed.config"

type Config struct {
	Server     Server     `json:"server" mapstructure:"server"`
	Relational Relational `json:"relational" mapstructure:"relational"`
	Document   Document   `json:"document" mapstructure:"document"`
	WordLists  WordLists  `json:"wordlists" mapstructure:"wordlists"`
	Generator  Generator  `json:"generator" mapstructure:"generator"`
}

type Server struct {
	Port        int      `json:"port" mapstructure:"port"`
	CORSOrigins []string `json:"cors_origins" mapstructure:"cors_origins"`
}

type Relational struct {
	Provider        string        `json:"provider" mapstructure:"provider"`
	URLEnv          string        `json:"url_env" mapstructure:"url_env"`
	MaxOpenConns    int           `json:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	Dedup           string        `json:"dedup" mapstructure:"dedup"`
}

type Document struct {
	URIEnv   string `json:"uri_env" mapstructure:"uri_env"`
	Database string `json:"database" mapstructure:"database"`
	Dedup    string `json:"dedup" mapstructure:"dedup"`
}

type WordLists struct {
	FirstNames string `json:"first_names" mapstructure:"first_names"`
	LastNames  string `json:"last_names" mapstructure:"last_names"`
	Cities     string `json:"cities" mapstructure:"cities"`
	Streets    string `json:"streets" mapstructure:"streets"`
	Strict     bool   `json:"strict" mapstructure:"strict"`
}

type Generator struct {
	MaxAttempts int `json:"max_attempts" mapstructure:"max_attempts"`
	// MaxCount is the largest count one generate request may ask for.
	MaxCount int `json:"max_count" mapstructure:"max_count"`
	// Seed fixes the random source when non-zero.
	Seed int64 `json:"seed" mapstructure:"seed"`
}

// Init loads .env files and points viper at the config file. An empty path
// searches the working directory for seedbed.config.json. A missing config
// file is not an error.
func Init(path string) error {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
	}
	godotenv.Load(".env.local")

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName(DefaultConfigName)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:5173"}
	}
	if cfg.Relational.Provider == "" {
		cfg.Relational.Provider = "mysql"
	}
	if cfg.Relational.URLEnv == "" {
		cfg.Relational.URLEnv = "MYSQL_URL"
	}
	if cfg.Relational.MaxOpenConns == 0 {
		cfg.Relational.MaxOpenConns = 10
	}
	if cfg.Relational.MaxIdleConns == 0 {
		cfg.Relational.MaxIdleConns = 5
	}
	if cfg.Relational.MaxIdleConns > cfg.Relational.MaxOpenConns {
		cfg.Relational.MaxIdleConns = cfg.Relational.MaxOpenConns
	}
	if cfg.Relational.ConnMaxLifetime == 0 {
		cfg.Relational.ConnMaxLifetime = 5 * time.Minute
	}
	if cfg.Relational.Dedup == "" {
		cfg.Relational.Dedup = common.DedupConstraint
	}
	if cfg.Document.URIEnv == "" {
		cfg.Document.URIEnv = "MONGODB_URI"
	}
	if cfg.Document.Dedup == "" {
		cfg.Document.Dedup = common.DedupPrefilter
	}
	if cfg.WordLists.FirstNames == "" {
		cfg.WordLists.FirstNames = "data/names.txt"
	}
	if cfg.WordLists.LastNames == "" {
		cfg.WordLists.LastNames = "data/last_names.txt"
	}
	if cfg.WordLists.Cities == "" {
		cfg.WordLists.Cities = "data/cities.txt"
	}
	if cfg.WordLists.Streets == "" {
		cfg.WordLists.Streets = "data/streets.txt"
	}
	if cfg.Generator.MaxAttempts == 0 {
		cfg.Generator.MaxAttempts = 1000
	}
	if cfg.Generator.MaxCount == 0 {
		cfg.Generator.MaxCount = seeder.DefaultMaxCount
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := relational.DialectFor(c.Relational.Provider); err != nil {
		return fmt.Errorf("unsupported relational provider: %s. Supported providers: %v", c.Relational.Provider, relational.Providers())
	}
	if _, err := common.ParseDedupPolicy(c.Relational.Dedup); err != nil {
		return fmt.Errorf("relational.dedup: %w", err)
	}
	if _, err := common.ParseDedupPolicy(c.Document.Dedup); err != nil {
		return fmt.Errorf("document.dedup: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Generator.MaxAttempts < 0 {
		return fmt.Errorf("generator.max_attempts cannot be negative")
	}
	if c.Generator.MaxCount < 0 {
		return fmt.Errorf("generator.max_count cannot be negative")
	}
	return nil
}

func (c *Config) RelationalURL() (string, error) {
	url := os.Getenv(c.Relational.URLEnv)
	if url == "" {
		return "", fmt.Errorf("relational database URL not found in environment variable %s", c.Relational.URLEnv)
	}
	return url, nil
}

func (c *Config) DocumentURI() (string, error) {
	uri := os.Getenv(c.Document.URIEnv)
	if uri == "" {
		return "", fmt.Errorf("MongoDB URI not found in environment variable %s", c.Document.URIEnv)
	}
	return uri, nil
}

// Configured lists the backends whose connection string is present in the
// environment.
func (c *Config) Configured() []types.DBType {
	var out []types.DBType
	if _, err := c.RelationalURL(); err == nil {
		out = append(out, types.DBMySQL)
	}
	if _, err := c.DocumentURI(); err == nil {
		out = append(out, types.DBMongoDB)
	}
	return out
}

func (c *Config) IsConfigured(backend types.DBType) bool {
	return slices.Contains(c.Configured(), backend)
}
