package storage

import (
	"context"
	"fmt"
	"time"

	"doc-scout/config"
)

// Object beschreibt einen Blob im File-Store für den Aufräum-Job.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// FileStore abstrahiert die Blob-Ablage. Save liefert den opaken
// Schlüssel zurück, unter dem die Datei abgelegt wurde; URL macht aus
// einem Schlüssel einen von außen auflösbaren Link.
type FileStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
	List(ctx context.Context) ([]Object, error)
}

// New wählt das konfigurierte Backend aus.
func New(cfg *config.Config) (FileStore, error) {
	switch cfg.StorageBackend {
	case "local":
		return NewLocalStore(cfg)
	case "s3":
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
