package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort   string `mapstructure:"APP_PORT"`
	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// PortalBaseURL is the externally visible address of this service; the
	// payment gateway is given callback URLs built from it.
	PortalBaseURL string `mapstructure:"PORTAL_BASE_URL"`

	// Redis configuration.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB  int    `mapstructure:"REDIS_SESSION_DB"`
	RedisAuthDB     int    `mapstructure:"REDIS_AUTH_DB"`
	RedisPendingDB  int    `mapstructure:"REDIS_PENDING_DB"`
	RedisReminderDB int    `mapstructure:"REDIS_REMINDER_DB"`

	// MongoDB (provisioning audit + notifications).
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Backend service base URLs.
	PartnerServiceURL string `mapstructure:"PARTNER_SERVICE_URL"`
	AuthServiceURL    string `mapstructure:"AUTH_SERVICE_URL"`
	NIDServiceURL     string `mapstructure:"NID_SERVICE_URL"`
	PaymentGatewayURL string `mapstructure:"PAYMENT_GATEWAY_URL"`
	PBXServiceURL     string `mapstructure:"PBX_SERVICE_URL"`

	// Per-product package/billing service base URLs.
	SMSPackageURL            string `mapstructure:"SMS_PACKAGE_URL"`
	PBXPackageURL            string `mapstructure:"PBX_PACKAGE_URL"`
	VoiceBroadcastPackageURL string `mapstructure:"VOICE_PACKAGE_URL"`
	ContactCenterPackageURL  string `mapstructure:"CC_PACKAGE_URL"`

	// Cloudinary document staging.
	CloudinaryURL      string `mapstructure:"CLOUDINARY_URL"`
	CloudinaryName     string `mapstructure:"CLOUDINARY_NAME"`
	CloudinaryAdminKey string `mapstructure:"CLOUDINARY_ADMIN_KEY"`

	// Explicit bypass switches. When true the matching collaborator is
	// replaced by a simulated-success path at construction time.
	OTPBypass     bool `mapstructure:"OTP_BYPASS"`
	NIDBypass     bool `mapstructure:"NID_BYPASS"`
	PaymentBypass bool `mapstructure:"PAYMENT_BYPASS"`
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
	viper.SetDefault("PORTAL_BASE_URL", "http://localhost:8080")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_PENDING_DB", 2)
	viper.SetDefault("REDIS_REMINDER_DB", 3)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "telvia")
	viper.SetDefault("OTP_BYPASS", false)
	viper.SetDefault("NID_BYPASS", false)
	viper.SetDefault("PAYMENT_BYPASS", false)

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
