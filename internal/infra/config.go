package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is a browser-like user agent string to avoid bot detection
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config는 애플리케이션의 모든 설정을 담습니다.
// LoadConfig로 로드된 후에 환경 변수를 통해 민감 내용을 덮어씁니다.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		BaseURL    string  `yaml:"base_url"`
		TimeoutSec int     `yaml:"timeout_sec"`
		RatePerSec float64 `yaml:"rate_per_sec"`
		RateBurst  int     `yaml:"rate_burst"`
	} `yaml:"api"`

	Feed struct {
		WSURL           string   `yaml:"ws_url"`
		Symbols         []string `yaml:"symbols"`
		PingIntervalSec int      `yaml:"ping_interval_sec"`
	} `yaml:"feed"`

	Auth struct {
		BankID   string `yaml:"bank_id"`
		Password string `yaml:"password"`
		DevMode  bool   `yaml:"dev_mode"` // seed a default session, skip login
	} `yaml:"auth"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig는 설정 파일을 읽고 파싱합니다.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// 보안 우선 - 환경 변수 오버라이드 지원
	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.API.BaseURL == "" || (!hasPrefix(c.API.BaseURL, "http://") && !hasPrefix(c.API.BaseURL, "https://")) {
		return fmt.Errorf("invalid API base URL: %s", c.API.BaseURL)
	}

	if c.Feed.WSURL == "" || (!hasPrefix(c.Feed.WSURL, "ws://") && !hasPrefix(c.Feed.WSURL, "wss://")) {
		return fmt.Errorf("invalid feed WS URL: %s", c.Feed.WSURL)
	}
	if len(c.Feed.Symbols) == 0 {
		return fmt.Errorf("at least one feed symbol is required")
	}

	if c.API.TimeoutSec < 0 || c.Feed.PingIntervalSec < 0 {
		return fmt.Errorf("intervals must be non-negative")
	}

	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv는 환경 변수가 존재할 경우 설정 값을 덮어씁니다.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("CREPE_API_BASE_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if id := os.Getenv("CREPE_BANK_ID"); id != "" {
		cfg.Auth.BankID = id
	}
	if pw := os.Getenv("CREPE_BANK_PASSWORD"); pw != "" {
		cfg.Auth.Password = pw
	}
}
