package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Price sources and narrative providers accepted by Validate.
const (
	PriceSourceAlphaVantage = "alphavantage"
	PriceSourceClickHouse   = "clickhouse"

	NarrativeAnthropic = "anthropic"
	NarrativeGemini    = "gemini"
	NarrativeNone      = "none"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORSOrigins     []string      `yaml:"cors_origins"`
		RateLimit       struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Logging struct {
		Level     string `yaml:"level"`
		Format    string `yaml:"format"`
		Output    string `yaml:"output"`
		Collector struct {
			Enabled        bool          `yaml:"enabled"`
			Topic          string        `yaml:"topic"`
			Interval       time.Duration `yaml:"interval"`
			CountThreshold int           `yaml:"count_threshold"`
		} `yaml:"collector"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Analysis struct {
		Timeout    time.Duration `yaml:"timeout"`
		Indicators struct {
			EMAPeriod     int     `yaml:"ema_period"`
			MACDFast      int     `yaml:"macd_fast"`
			MACDSlow      int     `yaml:"macd_slow"`
			MACDSignal    int     `yaml:"macd_signal"`
			RSIPeriod     int     `yaml:"rsi_period"`
			RSIOversold   float64 `yaml:"rsi_oversold"`
			RSIOverbought float64 `yaml:"rsi_overbought"`
		} `yaml:"indicators"`
	} `yaml:"analysis"`
	Price struct {
		Source       string `yaml:"source"`
		AlphaVantage struct {
			BaseURL   string        `yaml:"base_url"`
			APIKey    string        `yaml:"api_key"`
			Timeout   time.Duration `yaml:"timeout"`
			PerMinute int           `yaml:"per_minute"`
		} `yaml:"alphavantage"`
		ClickHouse struct {
			Host        string        `yaml:"host"`
			Port        int           `yaml:"port"`
			Database    string        `yaml:"database"`
			User        string        `yaml:"user"`
			Password    string        `yaml:"password"`
			Table       string        `yaml:"table"`
			DialTimeout time.Duration `yaml:"dial_timeout"`
			ReadTimeout time.Duration `yaml:"read_timeout"`
		} `yaml:"clickhouse"`
	} `yaml:"price"`
	News struct {
		BaseURL   string        `yaml:"base_url"`
		APIKey    string        `yaml:"api_key"`
		Timeout   time.Duration `yaml:"timeout"`
		PerMinute int           `yaml:"per_minute"`
	} `yaml:"news"`
	Classifier struct {
		BaseURL       string        `yaml:"base_url"`
		Model         string        `yaml:"model"`
		Token         string        `yaml:"token"`
		Timeout       time.Duration `yaml:"timeout"`
		ChunkSize     int           `yaml:"chunk_size"`
		ChunkInterval time.Duration `yaml:"chunk_interval"`
		MaxTextLength int           `yaml:"max_text_length"`
	} `yaml:"classifier"`
	Narrative struct {
		Provider  string        `yaml:"provider"`
		Timeout   time.Duration `yaml:"timeout"`
		Anthropic struct {
			APIKey string `yaml:"api_key"`
			Model  string `yaml:"model"`
		} `yaml:"anthropic"`
		Gemini struct {
			APIKey string `yaml:"api_key"`
			Model  string `yaml:"model"`
		} `yaml:"gemini"`
	} `yaml:"narrative"`
	Cache struct {
		VerdictTTL time.Duration `yaml:"verdict_ttl"`
		MaxSize    int           `yaml:"max_size"`
	} `yaml:"cache"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		VerdictTopic string   `yaml:"verdict_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Refresh struct {
		Enabled    bool          `yaml:"enabled"`
		Schedule   string        `yaml:"schedule"`
		Symbols    []string      `yaml:"symbols"`
		Workers    int           `yaml:"workers"`
		RetryLimit int           `yaml:"retry_limit"`
		RetryDelay time.Duration `yaml:"retry_delay"`
		KeyPrefix  string        `yaml:"key_prefix"`
	} `yaml:"refresh"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads .env (if present), then the YAML file, then applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.Price.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("BENZINGA_API_KEY"); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv("HUGGING_FACE_TOKEN"); v != "" {
		c.Classifier.Token = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Narrative.Anthropic.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Narrative.Gemini.APIKey = v
	}
	if v := os.Getenv("NARRATIVE_PROVIDER"); v != "" {
		c.Narrative.Provider = v
	}
	if v := os.Getenv("PRICE_SOURCE"); v != "" {
		c.Price.Source = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("REFRESH_SYMBOLS"); v != "" {
		c.Refresh.Symbols = splitList(v)
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}

	switch c.Price.Source {
	case PriceSourceAlphaVantage:
		if c.Price.AlphaVantage.APIKey == "" {
			return fmt.Errorf("price.alphavantage.api_key is required when price.source is 'alphavantage'")
		}
	case PriceSourceClickHouse:
		if c.Price.ClickHouse.Host == "" {
			return fmt.Errorf("price.clickhouse.host is required when price.source is 'clickhouse'")
		}
	default:
		return fmt.Errorf("price.source must be 'alphavantage' or 'clickhouse', got '%s'", c.Price.Source)
	}

	if c.News.APIKey == "" {
		return fmt.Errorf("news.api_key is required")
	}
	if c.Classifier.Token == "" {
		return fmt.Errorf("classifier.token is required")
	}

	switch c.Narrative.Provider {
	case NarrativeAnthropic:
		if c.Narrative.Anthropic.APIKey == "" {
			return fmt.Errorf("narrative.anthropic.api_key is required when provider is 'anthropic'")
		}
	case NarrativeGemini:
		if c.Narrative.Gemini.APIKey == "" {
			return fmt.Errorf("narrative.gemini.api_key is required when provider is 'gemini'")
		}
	case NarrativeNone:
	default:
		return fmt.Errorf("narrative.provider must be 'anthropic', 'gemini' or 'none', got '%s'", c.Narrative.Provider)
	}

	ind := c.Analysis.Indicators
	if ind.EMAPeriod <= 0 || ind.MACDFast <= 0 || ind.MACDSlow <= 0 || ind.MACDSignal <= 0 || ind.RSIPeriod <= 0 {
		return fmt.Errorf("analysis.indicators periods must be positive")
	}
	if ind.MACDFast >= ind.MACDSlow {
		return fmt.Errorf("analysis.indicators.macd_fast must be less than macd_slow")
	}
	if ind.RSIOversold <= 0 || ind.RSIOverbought >= 100 || ind.RSIOversold >= ind.RSIOverbought {
		return fmt.Errorf("analysis.indicators rsi thresholds must satisfy 0 < oversold < overbought < 100")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Refresh.Enabled {
		if !c.Redis.Enabled {
			return fmt.Errorf("refresh requires redis to be enabled")
		}
		if len(c.Refresh.Symbols) == 0 {
			return fmt.Errorf("refresh.symbols cannot be empty when refresh is enabled")
		}
	}
	return nil
}
