package config

import "time"

// Default returns a config populated with the values used when a key is absent from YAML.
func Default() *Config {
	c := &Config{Environment: "development"}

	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8000
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	c.Server.RateLimit.RPS = 2
	c.Server.RateLimit.Burst = 5

	c.Logging.Level = "info"
	c.Logging.Format = "console"
	c.Logging.Output = "stdout"
	c.Logging.Collector.Topic = "finverdict.logs"
	c.Logging.Collector.Interval = 30 * time.Second
	c.Logging.Collector.CountThreshold = 100

	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"

	c.Analysis.Timeout = 20 * time.Second
	c.Analysis.Indicators.EMAPeriod = 20
	c.Analysis.Indicators.MACDFast = 12
	c.Analysis.Indicators.MACDSlow = 26
	c.Analysis.Indicators.MACDSignal = 9
	c.Analysis.Indicators.RSIPeriod = 14
	c.Analysis.Indicators.RSIOversold = 30
	c.Analysis.Indicators.RSIOverbought = 70

	c.Price.Source = "alphavantage"
	c.Price.AlphaVantage.BaseURL = "https://www.alphavantage.co"
	c.Price.AlphaVantage.Timeout = 10 * time.Second
	c.Price.AlphaVantage.PerMinute = 5
	c.Price.ClickHouse.Port = 9000
	c.Price.ClickHouse.Database = "default"
	c.Price.ClickHouse.User = "default"
	c.Price.ClickHouse.Table = "price_bars"
	c.Price.ClickHouse.DialTimeout = 5 * time.Second
	c.Price.ClickHouse.ReadTimeout = 10 * time.Second

	c.News.BaseURL = "https://api.benzinga.com"
	c.News.Timeout = 10 * time.Second
	c.News.PerMinute = 60

	c.Classifier.BaseURL = "https://api-inference.huggingface.co"
	c.Classifier.Model = "ProsusAI/finbert"
	c.Classifier.Timeout = 15 * time.Second
	c.Classifier.ChunkSize = 10
	c.Classifier.ChunkInterval = 500 * time.Millisecond
	c.Classifier.MaxTextLength = 512

	c.Narrative.Provider = "none"
	c.Narrative.Timeout = 10 * time.Second
	c.Narrative.Anthropic.Model = "claude-3-5-haiku-latest"
	c.Narrative.Gemini.Model = "gemini-2.0-flash"

	c.Cache.VerdictTTL = 5 * time.Minute
	c.Cache.MaxSize = 1000

	c.Redis.Addr = "localhost:6379"

	c.Kafka.Brokers = []string{"localhost:9092"}
	c.Kafka.VerdictTopic = "finverdict.verdicts"
	c.Kafka.RequiredAcks = 1
	c.Kafka.Compression = "snappy"
	c.Kafka.Producer.MaxAttempts = 3
	c.Kafka.Producer.Linger = 10 * time.Millisecond
	c.Kafka.Producer.BatchBytes = 1 << 20
	c.Kafka.Producer.BatchSize = 100
	c.Kafka.Producer.WriteTimeout = 10 * time.Second
	c.Kafka.Producer.ReadTimeout = 10 * time.Second

	c.Refresh.Schedule = "0 */15 * * * *"
	c.Refresh.Workers = 2
	c.Refresh.RetryLimit = 3
	c.Refresh.RetryDelay = 30 * time.Second
	c.Refresh.KeyPrefix = "finverdict:refresh"

	return c
}
