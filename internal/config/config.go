package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type OwnershipRule struct {
	Method    string `yaml:"method"`
	Path      string `yaml:"path"`
	Source    string `yaml:"source"`
	ParamName string `yaml:"paramName"`
}

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
	Env     string `yaml:"env"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTBackendConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type HostedAuthConfig struct {
	BaseURL string `yaml:"base_url"`
	AnonKey string `yaml:"anon_key"`
	Timeout string `yaml:"timeout"`
}

type SessionConfig struct {
	TTL          string `yaml:"ttl"`
	RefreshLead  string `yaml:"refresh_lead"`
	LoginTimeout string `yaml:"login_timeout"`
}

type ChatConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWTBackend JWTBackendConfig `yaml:"jwt_backend"`
	HostedAuth HostedAuthConfig `yaml:"hosted_auth"`
	Session    SessionConfig    `yaml:"session"`
	Chat       ChatConfig       `yaml:"chat"`
	Casbin     CasbinConfig     `yaml:"casbin"`
}

type Config struct {
	Port              string
	GinMode           string
	Env               string
	DSN               string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	JWTBackendURL     string
	JWTBackendTimeout time.Duration
	HostedAuthURL     string
	HostedAnonKey     string
	HostedTimeout     time.Duration
	SessionTTL        time.Duration
	RefreshLead       time.Duration
	LoginTimeout      time.Duration
	ChatAPIKey        string
	ChatBaseURL       string
	ChatModel         string
	ChatTemperature   float64
	ChatMaxTokens     int
	CasbinModelPath   string
	OwnershipRules    []OwnershipRule
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml and applies environment overrides for secrets.
func Load() (*Config, error) {
	return LoadFrom("config/config.yml")
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	sessionTTL, err := parseDuration(configFile.Session.TTL, 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}
	refreshLead, err := parseDuration(configFile.Session.RefreshLead, 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh lead: %w", err)
	}
	loginTimeout, err := parseDuration(configFile.Session.LoginTimeout, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid login timeout: %w", err)
	}
	jwtTimeout, err := parseDuration(configFile.JWTBackend.Timeout, 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt backend timeout: %w", err)
	}
	hostedTimeout, err := parseDuration(configFile.HostedAuth.Timeout, 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid hosted auth timeout: %w", err)
	}

	ownershipRules, err := loadOwnershipRules("config/ownership_rules.yml")
	if err != nil {
		// Ownership rules are optional; missing file means none configured.
		ownershipRules = []OwnershipRule{}
	}

	temperature := configFile.Chat.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	maxTokens := configFile.Chat.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &Config{
		Port:              fmt.Sprintf("%d", configFile.App.Port),
		GinMode:           configFile.App.GinMode,
		Env:               env("APP_ENV", configFile.App.Env),
		DSN:               env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:         env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:     env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:           configFile.Redis.DB,
		JWTBackendURL:     env("JWT_BACKEND_URL", configFile.JWTBackend.BaseURL),
		JWTBackendTimeout: jwtTimeout,
		HostedAuthURL:     env("HOSTED_AUTH_URL", configFile.HostedAuth.BaseURL),
		HostedAnonKey:     env("HOSTED_ANON_KEY", configFile.HostedAuth.AnonKey),
		HostedTimeout:     hostedTimeout,
		SessionTTL:        sessionTTL,
		RefreshLead:       refreshLead,
		LoginTimeout:      loginTimeout,
		ChatAPIKey:        env("GROQ_API_KEY", configFile.Chat.APIKey),
		ChatBaseURL:       env("GROQ_API_URL", configFile.Chat.BaseURL),
		ChatModel:         configFile.Chat.Model,
		ChatTemperature:   temperature,
		ChatMaxTokens:     maxTokens,
		CasbinModelPath:   configFile.Casbin.ModelPath,
		OwnershipRules:    ownershipRules,
	}, nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func loadOwnershipRules(path string) ([]OwnershipRule, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read ownership rules file: %w", err)
	}

	var rules struct {
		Rules []OwnershipRule `yaml:"ownershipRules"`
	}
	if err := yaml.Unmarshal(bytes, &rules); err != nil {
		return nil, fmt.Errorf("could not parse ownership rules yaml: %w", err)
	}
	return rules.Rules, nil
}
