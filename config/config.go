package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"` // comma separated

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Google Maps API Key, used for travel time estimates.
	GoogleAPIKey      string `mapstructure:"GOOGLE_API_KEY"`
	TravelCacheTTLMin int    `mapstructure:"TRAVEL_CACHE_TTL_MIN"`

	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Scheduling.
	UseReachabilityOracle bool    `mapstructure:"USE_REACHABILITY_ORACLE"`
	DefaultMaxDistanceKm  float64 `mapstructure:"DEFAULT_MAX_DISTANCE_KM"`
	SlotDurationMinutes   int     `mapstructure:"SLOT_DURATION_MINUTES"`
}

// SchedulingConfig is handed to the search and reachability components at
// construction time.
type SchedulingConfig struct {
	UseReachabilityOracle bool
	DefaultMaxDistanceKm  float64
	SlotDurationMinutes   int
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017/?replicaSet=rs0")
	viper.SetDefault("DATABASE_NAME", "masterbook")
	viper.SetDefault("GOOGLE_API_KEY", "")
	viper.SetDefault("TRAVEL_CACHE_TTL_MIN", 60)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json")
	viper.SetDefault("USE_REACHABILITY_ORACLE", false)
	viper.SetDefault("DEFAULT_MAX_DISTANCE_KM", 10.0)
	viper.SetDefault("SLOT_DURATION_MINUTES", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// Scheduling returns the scheduling block of the loaded configuration.
func Scheduling() SchedulingConfig {
	return SchedulingConfig{
		UseReachabilityOracle: AppConfig.UseReachabilityOracle,
		DefaultMaxDistanceKm:  AppConfig.DefaultMaxDistanceKm,
		SlotDurationMinutes:   AppConfig.SlotDurationMinutes,
	}
}

// AllowedOrigins splits CORS_ORIGINS.
func AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(AppConfig.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
