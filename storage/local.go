package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"doc-scout/config"

	"github.com/google/uuid"
)

// LocalStore legt Blobs als Dateien in einem Verzeichnis ab, das der
// Server selbst unter /uploads ausliefert.
type LocalStore struct {
	Dir string
	// Basis für öffentliche Links, z.B. "http://localhost:4242"
	BaseURL string
}

// NewLocalStore legt das Upload-Verzeichnis an, falls es fehlt.
func NewLocalStore(cfg *config.Config) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{
		Dir:     cfg.UploadDir,
		BaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Save schreibt die Datei auf die Platte und gibt den Schlüssel zurück.
func (l *LocalStore) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	key := uuid.NewString() + path.Ext(name)
	if err := os.WriteFile(filepath.Join(l.Dir, key), data, 0o644); err != nil {
		return "", err
	}
	return key, nil
}

// Delete entfernt die Datei; ein bereits fehlender Blob ist kein Fehler.
func (l *LocalStore) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(l.Dir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// URL gibt den öffentlichen Link für einen Schlüssel zurück.
func (l *LocalStore) URL(key string) string {
	return fmt.Sprintf("%s/uploads/%s", l.BaseURL, key)
}

// List gibt alle gespeicherten Blobs zurück.
func (l *LocalStore) List(_ context.Context) ([]Object, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, err
	}
	var objects []Object
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		objects = append(objects, Object{
			Key:          entry.Name(),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
	}
	return objects, nil
}
