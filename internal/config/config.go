package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration. Values are read from
// configs/app.env and can be overridden through environment variables.
type Config struct {
	Environment   string `mapstructure:"ENVIRONMENT"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	DBSource      string `mapstructure:"DB_SOURCE"`

	AdminUser string `mapstructure:"ADMIN_USER"`
	AdminPass string `mapstructure:"ADMIN_PASS"`

	// Authoritative clinic list loaded at startup and reconciled against the
	// clinics table.
	ClinicsFile string `mapstructure:"CLINICS_FILE"`

	// Best-effort lead persistence on disk, in addition to the database.
	LeadsDir       string `mapstructure:"LEADS_DIR"`
	MailArchiveDir string `mapstructure:"MAIL_ARCHIVE_DIR"`

	// Contact-form notification delivery. Mail is skipped entirely unless
	// MAIL_TO, SMTP_HOST and SMTP_FROM are all set.
	MailTo   string `mapstructure:"MAIL_TO"`
	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort int    `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`
	SMTPFrom string `mapstructure:"SMTP_FROM"`

	// External geocoding service. The user agent must never be empty; the
	// upstream service rejects anonymous clients.
	GeocoderBaseURL       string        `mapstructure:"GEOCODER_BASE_URL"`
	GeocoderUserAgent     string        `mapstructure:"GEOCODER_USER_AGENT"`
	GeocoderTimeout       time.Duration `mapstructure:"GEOCODER_TIMEOUT"`
	GeocoderCountryCode   string        `mapstructure:"GEOCODER_COUNTRY_CODE"`
	GeocoderCountryName   string        `mapstructure:"GEOCODER_COUNTRY_NAME"`
	GeocoderCountryNameEN string        `mapstructure:"GEOCODER_COUNTRY_NAME_EN"`
}

// LoadConfig reads configuration from the app.env file in the given directory
// and from the environment.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("ADMIN_USER", "admin")
	viper.SetDefault("ADMIN_PASS", "admin")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("GEOCODER_USER_AGENT", "xlevage-site/1.0 (contact: xlevage@gmail.com)")
	viper.SetDefault("GEOCODER_TIMEOUT", 10*time.Second)
	viper.SetDefault("GEOCODER_COUNTRY_CODE", "pl")
	viper.SetDefault("GEOCODER_COUNTRY_NAME", "Polska")
	viper.SetDefault("GEOCODER_COUNTRY_NAME_EN", "Poland")

	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
