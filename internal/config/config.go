package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	JWTSecret            string
	Database             DatabaseConfig
	Razorpay             RazorpayConfig
	Shiprocket           ShiprocketConfig
	Twilio               TwilioConfig
	Booking              BookingConfig
	JWTExpirationMinutes int
	AppURL               string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string
	DSN      string
}

// RazorpayConfig holds payment gateway credentials
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

// ShiprocketConfig holds logistics API credentials
type ShiprocketConfig struct {
	Email          string
	Password       string
	BaseURL        string
	PickupLocation string
}

// TwilioConfig holds WhatsApp messaging credentials
type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	WhatsAppNumber string
}

// BookingConfig holds the consultation reservation settings.
// LockTTL bounds how long an unconverted slot lock stays valid;
// SweepInterval is how often the stale-lock reclaimer runs.
type BookingConfig struct {
	LockTTL         time.Duration
	SweepInterval   time.Duration
	MeetingLink     string
	ConsultationFee float64
	SlotTimesOfDay  []string
	SlotHorizonDays int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		Username: getEnv("DB_USERNAME", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "kiraka"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Build DSN for the Postgres connection
	dbConfig.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		dbConfig.Host, dbConfig.Username, dbConfig.Password, dbConfig.Name, dbConfig.Port, dbConfig.SSLMode)

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	lockTTLMinutes, err := strconv.Atoi(getEnv("SLOT_LOCK_TTL_MINUTES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SLOT_LOCK_TTL_MINUTES: %w", err)
	}

	sweepSeconds, err := strconv.Atoi(getEnv("SLOT_SWEEP_INTERVAL_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid SLOT_SWEEP_INTERVAL_SECONDS: %w", err)
	}

	consultationFee, err := strconv.ParseFloat(getEnv("CONSULTATION_FEE", "500"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CONSULTATION_FEE: %w", err)
	}

	slotHorizonDays, err := strconv.Atoi(getEnv("SLOT_HORIZON_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid SLOT_HORIZON_DAYS: %w", err)
	}

	return &Config{
		Port:        getEnv("PORT", "8000"),
		Origin:      getEnv("ORIGIN", "http://localhost:5173"),
		Environment: getEnv("APP_ENV", "development"),
		JWTSecret:   getEnv("JWT_SECRET", "default_jwt_secret"),
		Database:    dbConfig,
		Razorpay: RazorpayConfig{
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		},
		Shiprocket: ShiprocketConfig{
			Email:          getEnv("SHIPROCKET_EMAIL", ""),
			Password:       getEnv("SHIPROCKET_PASSWORD", ""),
			BaseURL:        getEnv("SHIPROCKET_BASE_URL", "https://apiv2.shiprocket.in/v1/external"),
			PickupLocation: getEnv("SHIPROCKET_PICKUP_LOCATION", "Primary"),
		},
		Twilio: TwilioConfig{
			AccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
			WhatsAppNumber: getEnv("TWILIO_FROM_NUMBER", "whatsapp:+14155238886"),
		},
		Booking: BookingConfig{
			LockTTL:         time.Duration(lockTTLMinutes) * time.Minute,
			SweepInterval:   time.Duration(sweepSeconds) * time.Second,
			MeetingLink:     getEnv("CONSULTATION_MEETING_LINK", "https://meet.google.com/link-pending"),
			ConsultationFee: consultationFee,
			SlotTimesOfDay:  []string{"10:00", "12:00", "14:00", "16:00"},
			SlotHorizonDays: slotHorizonDays,
		},
		JWTExpirationMinutes: jwtExpMinutes,
		AppURL:               getEnv("APP_URL", "http://localhost:8000"),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
