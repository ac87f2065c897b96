package config

import (
	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

const (
	DEFAULT_IMPORT_CHUNK_SIZE  = 100
	DEFAULT_IMPORT_SCHEDULE_AT = "04:00"
)

type Config struct {
	GeneralVersion        string `mapstructure:"GENERAL_VERSION"`
	Environment           string `mapstructure:"ENVIRONMENT"`
	ServerPort            int    `mapstructure:"SERVER_PORT"`
	DatabaseHost          string `mapstructure:"DB_HOST"`
	DatabasePort          int    `mapstructure:"DB_PORT"`
	DatabaseName          string `mapstructure:"DB_NAME"`
	DatabaseUser          string `mapstructure:"DB_USER"`
	DatabasePassword      string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress  string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort     int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset    int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins      string `mapstructure:"CORS_ALLOW_ORIGINS"`
	ImportDatasetPath     string `mapstructure:"IMPORT_DATASET_PATH"`
	ImportChunkSize       int    `mapstructure:"IMPORT_CHUNK_SIZE"`
	ImportOwnerID         string `mapstructure:"IMPORT_OWNER_ID"`
	ImportScheduleEnabled bool   `mapstructure:"IMPORT_SCHEDULE_ENABLED"`
	ImportScheduleAt      string `mapstructure:"IMPORT_SCHEDULE_AT"`
}

var ConfigInstance Config

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS",
	"IMPORT_DATASET_PATH", "IMPORT_CHUNK_SIZE", "IMPORT_OWNER_ID", "IMPORT_SCHEDULE_ENABLED", "IMPORT_SCHEDULE_AT",
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()
	viper.SetDefault("IMPORT_CHUNK_SIZE", DEFAULT_IMPORT_CHUNK_SIZE)
	viper.SetDefault("IMPORT_SCHEDULE_AT", DEFAULT_IMPORT_SCHEDULE_AT)
	viper.SetDefault("DB_CACHE_RESET", -1)

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

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

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config",
		"environment", config.Environment,
		"serverPort", config.ServerPort,
		"importDatasetPath", config.ImportDatasetPath,
		"importChunkSize", config.ImportChunkSize)

	ConfigInstance = config
	return config, nil
}

func GetConfig() Config {
	return ConfigInstance
}

// OwnerID is the owner stamped on rows created by imports. An unset value
// yields uuid.Nil, which repositories treat as unscoped.
func (c Config) OwnerID() uuid.UUID {
	if c.ImportOwnerID == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(c.ImportOwnerID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort < 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.ImportChunkSize <= 0 {
		return log.Error(
			"Fatal error: IMPORT_CHUNK_SIZE must be positive",
			"chunkSize", config.ImportChunkSize,
		)
	}

	if config.ImportOwnerID != "" {
		if _, err := uuid.Parse(config.ImportOwnerID); err != nil {
			return log.Err("Fatal error: IMPORT_OWNER_ID is not a valid uuid", err, "ownerID", config.ImportOwnerID)
		}
	}

	if config.ImportScheduleEnabled && config.ImportDatasetPath == "" {
		return log.ErrMsg("Fatal error: IMPORT_DATASET_PATH required when IMPORT_SCHEDULE_ENABLED is set")
	}

	return nil
}
