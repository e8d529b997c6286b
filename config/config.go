package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"4242"`

	// Basis-URL, unter der dieser Server von außen erreichbar ist.
	// Wird für die Auflösung lokal gespeicherter Dateien benötigt.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:4242"`

	// Upstream Search/Summarization Service
	SearchAPIURL string `envconfig:"SEARCH_API_URL" required:"true"`

	// File-Store Backend: "local" oder "s3"
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"local"`
	UploadDir      string `envconfig:"UPLOAD_DIR" default:"uploads"`

	S3Key    string `envconfig:"S3_KEY"`
	S3Secret string `envconfig:"S3_SECRET"`
	S3URL    string `envconfig:"S3_URL"`
	S3Region string `envconfig:"S3_REGION"`
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Folder string `envconfig:"S3_FOLDER" default:"doc-scout"`

	// Aufräum-Job für verwaiste Blobs im File-Store
	CleanupSchedule   string `envconfig:"CLEANUP_CRON" default:"0 3 * * *"`
	CleanupMinAgeMins int    `envconfig:"CLEANUP_MIN_AGE_MINUTES" default:"60"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
