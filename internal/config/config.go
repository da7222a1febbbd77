package config

import "os"

// Config holds all runtime settings, sourced from the environment.
type Config struct {
	MongoURI     string
	MongoDB      string
	RedisAddr    string
	HTTPPort     string
	JWTSecret    string
	UploadDir    string
	CatalogPath  string
	SMTPURL      string
	MailSender   string
	ExternalBase string
}

// Load reads configuration from environment variables, applying defaults
// suitable for local development.
func Load() *Config {
	return &Config{
		MongoURI:     getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnvOrDefault("MONGO_DB", "securesphere"),
		RedisAddr:    getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		HTTPPort:     getEnvOrDefault("PORT", "8080"),
		JWTSecret:    getEnvOrDefault("JWT_SECRET", "super-secret-key-change-in-production"),
		UploadDir:    getEnvOrDefault("UPLOAD_DIR", "uploads"),
		CatalogPath:  getEnvOrDefault("CATALOG_CSV", "static/devweb.csv"),
		SMTPURL:      os.Getenv("SMTP_URL"),
		MailSender:   getEnvOrDefault("MAIL_DEFAULT_SENDER", "noreply@securesphere.com"),
		ExternalBase: getEnvOrDefault("EXTERNAL_BASE_URL", "http://localhost:8080"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
