package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`

	DBUser string `mapstructure:"MYSQL_USER"`
	DBPass string `mapstructure:"MYSQL_PASSWORD"`
	DBHost string `mapstructure:"MYSQL_HOST"`
	DBPort string `mapstructure:"MYSQL_PORT"`
	DBName string `mapstructure:"MYSQL_DATABASE"`

	RedisHost string `mapstructure:"REDIS_HOST"`
	RedisPort string `mapstructure:"REDIS_PORT"`

	RabbitURL      string `mapstructure:"RABBITMQ_URL"`
	RabbitExchange string `mapstructure:"RABBITMQ_EXCHANGE"`

	PaymentBaseURL       string `mapstructure:"PAYMENT_BASE_URL"`
	PaymentAPIKey        string `mapstructure:"PAYMENT_API_KEY"`
	PaymentWebhookSecret string `mapstructure:"PAYMENT_WEBHOOK_SECRET"`
	PaymentCurrency      string `mapstructure:"PAYMENT_CURRENCY"`
}

// Load reads configuration from the environment, optionally seeded from
// an app.env file in the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RABBITMQ_EXCHANGE", "marketplace.notifications")
	v.SetDefault("PAYMENT_CURRENCY", "usd")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
