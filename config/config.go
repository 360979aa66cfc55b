package config

import (
	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	SessionSecret        string `mapstructure:"SESSION_SECRET"`
	SessionTTLHours      int    `mapstructure:"SESSION_TTL_HOURS"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	ResendAPIKey         string `mapstructure:"RESEND_API_KEY"`
	MailFromAddress      string `mapstructure:"MAIL_FROM_ADDRESS"`
	PaymentAPIURL        string `mapstructure:"PAYMENT_API_URL"`
	PaymentAPIKey        string `mapstructure:"PAYMENT_API_KEY"`
	DocumentStoragePath  string `mapstructure:"DOCUMENT_STORAGE_PATH"`
	DocumentPublicURL    string `mapstructure:"DOCUMENT_PUBLIC_URL"`
}

var ConfigInstance Config

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")
	log.Info("Initializing config")

	// Enable automatic environment variable reading first
	viper.AutomaticEnv()

	// Bind environment variables to config keys
	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
		"CORS_ALLOW_ORIGINS",
		"SESSION_SECRET", "SESSION_TTL_HOURS", "SCHEDULER_ENABLED",
		"RESEND_API_KEY", "MAIL_FROM_ADDRESS",
		"PAYMENT_API_URL", "PAYMENT_API_KEY",
		"DOCUMENT_STORAGE_PATH", "DOCUMENT_PUBLIC_URL",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	// Check if key environment variables are already set
	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		// Load base .env file
		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		// Load .env.local overrides if it exists
		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	err := validateConfig(config, log)
	if err != nil {
		return Config{}, err
	}
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.SessionSecret == "" {
		return log.ErrMsg("Fatal error: SESSION_SECRET is required")
	}

	if config.SessionTTLHours <= 0 {
		config.SessionTTLHours = 24
	}

	// Payment links cannot be created without both the endpoint and its key
	if config.PaymentAPIURL != "" && config.PaymentAPIKey == "" {
		return log.ErrMsg("Fatal error: PAYMENT_API_KEY required when PAYMENT_API_URL is set")
	}

	if config.ResendAPIKey != "" && config.MailFromAddress == "" {
		return log.ErrMsg("Fatal error: MAIL_FROM_ADDRESS required when RESEND_API_KEY is set")
	}

	if config.DocumentStoragePath == "" {
		config.DocumentStoragePath = "/app/fleet-documents"
	}

	ConfigInstance = config
	return nil
}
