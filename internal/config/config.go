package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envFile           = ".env"
	defaultConfigFile = "config.yaml"
)

// AppConfig collects the settings both processes need.
type AppConfig struct {
	ListenAddr         string        `yaml:"listen_addr"`
	Port               string        `yaml:"port"`
	DatabasePath       string        `yaml:"database_path"`
	SessionSecret      string        `yaml:"session_secret"`
	SecureCookies      bool          `yaml:"secure_cookies"`
	GinMode            string        `yaml:"gin_mode"`
	UploadDir          string        `yaml:"upload_dir"`
	UploadURLPath      string        `yaml:"upload_url_path"`
	SuperRootUserName  string        `yaml:"super_root_user_name"`
	SuperRootPassword  string        `yaml:"super_root_password"`
	SuperRootEmail     string        `yaml:"super_root_email"`
	LogLevel           string        `yaml:"log_level"`
	PortalListenAddr   string        `yaml:"portal_listen_addr"`
	StoreBaseURL       string        `yaml:"store_base_url"`
	StoreTimeout       time.Duration `yaml:"store_timeout"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
}

// Load reads .env, then the optional YAML file named by CONFIG_FILE, then
// environment variables, and fills safe defaults for anything still missing.
func Load() (AppConfig, error) {
	_ = godotenv.Load(envFile)

	var cfg AppConfig
	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		path = defaultConfigFile
	}
	if err := loadFile(path, &cfg); err != nil {
		return AppConfig{}, err
	}

	applyEnv(&cfg)
	if err := applyDefaults(&cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	setFromEnv(&cfg.Port, "PORT")
	setFromEnv(&cfg.ListenAddr, "LISTEN_ADDR")
	setFromEnv(&cfg.DatabasePath, "DATABASE_PATH")
	setFromEnv(&cfg.SessionSecret, "SESSION_SECRET")
	setFromEnv(&cfg.GinMode, "GIN_MODE")
	setFromEnv(&cfg.UploadDir, "UPLOAD_DIR")
	setFromEnv(&cfg.UploadURLPath, "UPLOAD_URL_PATH")
	setFromEnv(&cfg.SuperRootUserName, "SUPER_ROOT_USER_NAME")
	setFromEnv(&cfg.SuperRootPassword, "SUPER_ROOT_PASSWORD")
	setFromEnv(&cfg.SuperRootEmail, "SUPER_ROOT_EMAIL")
	setFromEnv(&cfg.LogLevel, "LOG_LEVEL")
	setFromEnv(&cfg.PortalListenAddr, "PORTAL_LISTEN_ADDR")
	setFromEnv(&cfg.StoreBaseURL, "STORE_BASE_URL")

	if raw := strings.TrimSpace(os.Getenv("SECURE_COOKIES")); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			cfg.SecureCookies = b
		}
	}
	if raw := strings.TrimSpace(os.Getenv("STORE_TIMEOUT")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.StoreTimeout = d
		}
	}
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		cfg.CORSAllowedOrigins = splitList(raw)
	}
}

func applyDefaults(cfg *AppConfig) error {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "newsportal.db"
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "newsportal-dev-secret"
	}
	if cfg.GinMode == "" {
		cfg.GinMode = "release"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "web/static/uploads"
	}
	if cfg.UploadURLPath == "" {
		cfg.UploadURLPath = "/static/uploads"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.PortalListenAddr == "" {
		cfg.PortalListenAddr = ":3000"
	}
	if cfg.StoreBaseURL == "" {
		cfg.StoreBaseURL = "http://localhost:8080/api"
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 10 * time.Second
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if !strings.HasPrefix(cfg.UploadURLPath, "/") {
		return fmt.Errorf("upload url path must start with '/': %q", cfg.UploadURLPath)
	}
	return nil
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
