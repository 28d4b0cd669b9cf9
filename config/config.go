package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    Server
	Database  Database
	Metrics   Metrics
	Scheduler Scheduler
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Metrics struct {
	// CacheTTLMinutes bounds how long an aggregated dashboard payload may be
	// served without recomputation.
	CacheTTLMinutes int
	// StorageAggregationThreshold is the answer-row count above which the
	// aggregator switches from in-memory groupby to a SQL GROUP BY.
	StorageAggregationThreshold int
}

type Scheduler struct {
	// ReminderLeadDays is how many days before period end the reminder pass
	// considers an instance worth nagging about.
	ReminderLeadDays int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("METRICS_CACHE_TTL_MINUTES", 30)
	viper.SetDefault("METRICS_STORAGE_AGG_THRESHOLD", 2000)
	viper.SetDefault("SCHEDULER_REMINDER_LEAD_DAYS", 3)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Metrics.CacheTTLMinutes = viper.GetInt("METRICS_CACHE_TTL_MINUTES")
	config.Metrics.StorageAggregationThreshold = viper.GetInt("METRICS_STORAGE_AGG_THRESHOLD")
	config.Scheduler.ReminderLeadDays = viper.GetInt("SCHEDULER_REMINDER_LEAD_DAYS")

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}
