// Package config loads process-wide configuration once at startup. All
// runtime state that used to live in module-level singletons (database
// handle, signing key) is carried explicitly from here into the services.
package config

import "github.com/spf13/viper"

// MinioConfig holds the S3-compatible object store settings, used when
// STORAGE_BACKEND is "minio".
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Config is the process-wide configuration, loaded once at startup and
// read-only afterwards.
type Config struct {
	Environment string
	AppPort     string

	DatabaseDriver string // "postgres" or "sqlite"
	DatabaseDSN    string

	JWTSecret string

	RabbitMQURL string // empty disables event publishing

	StorageBackend string // "fs" or "minio"
	UploadDir      string
	PublicBaseURL  string
	Minio          MinioConfig

	// SelfAccessOverride enables the legacy self-id allow path on routes
	// that do not declare self access. See access.Guard.
	SelfAccessOverride bool
}

// Load reads configuration from environment variables with sensible
// defaults for local development.
func Load() *Config {
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "pasar.db")
	viper.SetDefault("JWT_SECRET", "dev_jwt_secret")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("STORAGE_BACKEND", "fs")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("SELF_ACCESS_OVERRIDE", true)
	viper.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	viper.SetDefault("MINIO_ACCESS_KEY", "")
	viper.SetDefault("MINIO_SECRET_KEY", "")
	viper.SetDefault("MINIO_BUCKET", "pasar-images")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.AutomaticEnv() // Load environment variables

	return &Config{
		Environment:        viper.GetString("ENVIRONMENT"),
		AppPort:            viper.GetString("APP_PORT"),
		DatabaseDriver:     viper.GetString("DATABASE_DRIVER"),
		DatabaseDSN:        viper.GetString("DATABASE_DSN"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		RabbitMQURL:        viper.GetString("RABBITMQ_URL"),
		StorageBackend:     viper.GetString("STORAGE_BACKEND"),
		UploadDir:          viper.GetString("UPLOAD_DIR"),
		PublicBaseURL:      viper.GetString("PUBLIC_BASE_URL"),
		SelfAccessOverride: viper.GetBool("SELF_ACCESS_OVERRIDE"),
		Minio: MinioConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
		},
	}
}
