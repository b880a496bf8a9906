package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
environment: test
server:
  port: 9090
price:
  source: alphavantage
  alphavantage:
    api_key: av-key
news:
  api_key: bz-key
classifier:
  token: hf-token
  chunk_size: 5
narrative:
  provider: none
cache:
  verdict_ttl: 2m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 5, c.Classifier.ChunkSize)
	assert.Equal(t, 2*time.Minute, c.Cache.VerdictTTL)

	// untouched keys keep defaults
	assert.Equal(t, 20, c.Analysis.Indicators.EMAPeriod)
	assert.Equal(t, 20*time.Second, c.Analysis.Timeout)
	assert.Equal(t, "ProsusAI/finbert", c.Classifier.Model)
}

func TestLoadWithEnv_Overrides(t *testing.T) {
	t.Setenv("PRICE_SOURCE", "clickhouse")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("REFRESH_SYMBOLS", "AAPL,MSFT")
	t.Setenv("NARRATIVE_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	body := `
environment: test
price:
  source: alphavantage
  clickhouse:
    host: ch.local
news:
  api_key: bz-key
classifier:
  token: hf-token
`
	c, err := LoadWithEnv(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, "clickhouse", c.Price.Source)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, []string{"AAPL", "MSFT"}, c.Refresh.Symbols)
	assert.Equal(t, "anthropic", c.Narrative.Provider)
	assert.Equal(t, "sk-test", c.Narrative.Anthropic.APIKey)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Price.AlphaVantage.APIKey = "k"
		c.News.APIKey = "k"
		c.Classifier.Token = "k"
		return c
	}
	require.NoError(t, valid().Validate())

	cases := []struct {
		name string
		mod  func(c *Config)
	}{
		{"missing environment", func(c *Config) { c.Environment = "" }},
		{"unknown price source", func(c *Config) { c.Price.Source = "yahoo" }},
		{"missing alphavantage key", func(c *Config) { c.Price.AlphaVantage.APIKey = "" }},
		{"clickhouse without host", func(c *Config) { c.Price.Source = "clickhouse" }},
		{"missing news key", func(c *Config) { c.News.APIKey = "" }},
		{"missing classifier token", func(c *Config) { c.Classifier.Token = "" }},
		{"unknown narrative provider", func(c *Config) { c.Narrative.Provider = "openai" }},
		{"gemini without key", func(c *Config) { c.Narrative.Provider = "gemini" }},
		{"negative period", func(c *Config) { c.Analysis.Indicators.RSIPeriod = -1 }},
		{"fast not below slow", func(c *Config) { c.Analysis.Indicators.MACDFast = 30 }},
		{"inverted rsi bands", func(c *Config) { c.Analysis.Indicators.RSIOversold = 75 }},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }},
		{"refresh without redis", func(c *Config) { c.Refresh.Enabled = true; c.Refresh.Symbols = []string{"AAPL"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mod(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
