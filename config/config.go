package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowedOrigins    string `mapstructure:"ALLOWED_ORIGINS"`

	// Fleet REST backend.
	FleetAPIBaseURL string        `mapstructure:"FLEET_API_BASE_URL"`
	FleetAPITimeout time.Duration `mapstructure:"FLEET_API_TIMEOUT"`

	// Booking wizard.
	SessionTTL       time.Duration `mapstructure:"SESSION_TTL"`
	SubmitLockTTL    time.Duration `mapstructure:"SUBMIT_LOCK_TTL"`
	BookingsListPath string        `mapstructure:"BOOKINGS_LIST_PATH"`
	BookingTimezone  string        `mapstructure:"BOOKING_TIMEZONE"`
	ReminderLeadTime time.Duration `mapstructure:"REMINDER_LEAD_TIME"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// MongoDB holds the submission audit trail. Empty URL disables it.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Firebase credentials for push notices. Empty disables push.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
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
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("FLEET_API_BASE_URL", "http://localhost:3000/api")
	viper.SetDefault("FLEET_API_TIMEOUT", 15*time.Second)
	viper.SetDefault("SESSION_TTL", 30*time.Minute)
	viper.SetDefault("SUBMIT_LOCK_TTL", 30*time.Second)
	viper.SetDefault("BOOKINGS_LIST_PATH", "/bookings")
	viper.SetDefault("BOOKING_TIMEZONE", "UTC")
	viper.SetDefault("REMINDER_LEAD_TIME", 24*time.Hour)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_NAME", "fleetbooking")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// BookingLocation resolves BOOKING_TIMEZONE, falling back to UTC.
func BookingLocation() *time.Location {
	loc, err := time.LoadLocation(AppConfig.BookingTimezone)
	if err != nil || AppConfig.BookingTimezone == "" {
		return time.UTC
	}
	return loc
}
