package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Broker struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		Exchange string `mapstructure:"exchange"`
		// ConsumeQueue is read, PublishQueue is written. Routing keys equal
		// the queue names on a direct exchange.
		ConsumeQueue string `mapstructure:"consume_queue"`
		PublishQueue string `mapstructure:"publish_queue"`
	} `mapstructure:"broker"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Name     string `mapstructure:"name"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
	} `mapstructure:"database"`

	Oracle struct {
		Provider string `mapstructure:"provider"` // "huggingface", "openai" or "gemini"
		Model    string `mapstructure:"model"`
		Endpoint string `mapstructure:"endpoint"` // huggingface inference base URL
		APIToken string `mapstructure:"api_token"`

		OpenaiAPIKey string `mapstructure:"openai_api_key"`
		GoogleAPIKey string `mapstructure:"google_api_key"`

		TimeoutSeconds int `mapstructure:"timeout_seconds"`
	} `mapstructure:"oracle"`

	Categorizer struct {
		TopK          int `mapstructure:"top_k"`
		MaxInputChars int `mapstructure:"max_input_chars"`
	} `mapstructure:"categorizer"`

	Worker struct {
		MaxRetries int `mapstructure:"max_retries"`
	} `mapstructure:"worker"`

	Server struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
}

// DSN renders the pgx connection string from the database section.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		c.Database.User, c.Database.Password,
		c.Database.Host, c.Database.Port, c.Database.Name)
}

// BrokerURL renders the AMQP dial string from the broker section.
func (c *Config) BrokerURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.Broker.Username, c.Broker.Password,
		c.Broker.Host, c.Broker.Port)
}

// Validate checks the settings that have no usable default. Broker
// credentials are required; the database falls back to fixed defaults.
func (c *Config) Validate() error {
	if c.Broker.Host == "" {
		return fmt.Errorf("broker host is required (broker.host / RABBITMQ_HOST)")
	}
	if c.Broker.Username == "" || c.Broker.Password == "" {
		return fmt.Errorf("broker credentials are required (RABBITMQ_USERNAME / RABBITMQ_PASSWORD)")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("broker.port", 5672)
	viper.SetDefault("broker.exchange", "transcription_exchange")
	viper.SetDefault("broker.consume_queue", "transcription_queue")
	viper.SetDefault("broker.publish_queue", "categorization_queue")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "categorization_db")
	viper.SetDefault("database.user", "admin")
	viper.SetDefault("database.password", "admin")

	viper.SetDefault("oracle.provider", "huggingface")
	viper.SetDefault("oracle.model", "facebook/bart-large-mnli")
	viper.SetDefault("oracle.endpoint", "https://api-inference.huggingface.co")
	viper.SetDefault("oracle.timeout_seconds", 60)

	viper.SetDefault("categorizer.top_k", 10)
	viper.SetDefault("categorizer.max_input_chars", 4000)

	viper.SetDefault("worker.max_retries", 5)

	viper.SetDefault("server.addr", "0.0.0.0")
	viper.SetDefault("server.port", "8000")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	// Allow Viper to read environment variables. Explicit binds keep the
	// deployment's conventional variable names working without a prefix.
	viper.AutomaticEnv()
	viper.BindEnv("broker.host", "RABBITMQ_HOST")
	viper.BindEnv("broker.port", "RABBITMQ_PORT")
	viper.BindEnv("broker.username", "RABBITMQ_USERNAME")
	viper.BindEnv("broker.password", "RABBITMQ_PASSWORD")
	viper.BindEnv("database.host", "POSTGRES_HOST")
	viper.BindEnv("database.name", "POSTGRES_DB")
	viper.BindEnv("database.user", "POSTGRES_USER")
	viper.BindEnv("database.password", "POSTGRES_PASSWORD")
	viper.BindEnv("oracle.api_token", "HF_API_TOKEN")
	viper.BindEnv("oracle.openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("oracle.google_api_key", "GEMINI_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, env vars and defaults cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
