package config

import "time"

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string // bcrypt hash
	ListenAddr        string

	// DataPath is the CSV transaction export; DatabaseURL, when set, makes
	// the service read the sales table instead.
	DataPath    string
	DatabaseURL string

	ModelPath    string
	GeminiAPIKey string

	HolidayLocale     string
	SessionGapMinutes int
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// SessionGap returns the order-session gap threshold as a duration.
func (c Config) SessionGap() time.Duration {
	return time.Duration(c.SessionGapMinutes) * time.Minute
}
