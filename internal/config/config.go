package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	OpenAIKey           string
	OpenAIBaseURL       string
	Model               string
	MaxCompletionTokens int
	GenerationTimeout   time.Duration

	HTTPAddr   string
	CatalogDSN string
	RolesFile  string
	LogLevel   string

	TelegramToken  string
	AdminUserIDs   []int64
	AllowedUserIDs []int64
	SessionTTL     time.Duration
	SimulationURL  string

	// Warnings collects values that were ignored while loading; they are
	// logged once a logger exists.
	Warnings []string
}

func Load(path string) (Config, error) {
	var cfg Config
	if err := loadDotEnv(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		cfg.warnf("could not read %s: %v", path, err)
	}

	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	cfg.Model = getenvDefault("OPENAI_MODEL", "gpt-4o-mini")
	cfg.MaxCompletionTokens = cfg.getenvIntDefault("MAX_TOKENS", 800)
	cfg.GenerationTimeout = time.Duration(cfg.getenvIntDefault("GENERATION_TIMEOUT_SECONDS", 30)) * time.Second

	cfg.HTTPAddr = getenvDefault("HTTP_ADDR", ":8080")
	cfg.CatalogDSN = getenvDefault("CATALOG_DSN", "file:leaply.db?_pragma=busy_timeout(5000)")
	cfg.RolesFile = os.Getenv("ROLES_FILE")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.AdminUserIDs = cfg.parseIDs(os.Getenv("ADMIN_USER_IDS"))
	cfg.AllowedUserIDs = cfg.parseIDs(os.Getenv("ALLOWED_TELEGRAM_USER_IDS"))
	cfg.SessionTTL = time.Duration(cfg.getenvIntDefault("SESSION_TTL_MINUTES", 60)) * time.Minute
	cfg.SimulationURL = getenvDefault("SIMULATION_BASE_URL", "https://leaply.app/simulations/")

	if cfg.MaxCompletionTokens <= 0 {
		return cfg, fmt.Errorf("MAX_TOKENS must be positive, got %d", cfg.MaxCompletionTokens)
	}
	return cfg, nil
}

func (c Config) RequireOpenAI() error {
	if c.OpenAIKey == "" {
		return errors.New("openai api key is required")
	}
	return nil
}

func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("telegram token is required")
	}
	return nil
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func (c *Config) parseIDs(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			c.warnf("skipping user id %q: %v", p, err)
			continue
		}
		ids = append(ids, v)
	}
	return ids
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func (c *Config) getenvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.warnf("invalid int for %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func loadDotEnv(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, val)
		}
	}
	return scanner.Err()
}

func parseEnvLine(line string) (string, string, bool) {
	if strings.HasPrefix(line, "export ") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	}
	key, val, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	val = strings.Trim(strings.TrimSpace(val), `"'`)
	if key == "" {
		return "", "", false
	}
	return key, val, true
}
