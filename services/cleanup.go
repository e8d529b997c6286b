package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"doc-scout/models"
	"doc-scout/storage"
)

// CleanupService räumt verwaiste Blobs im File-Store weg: Einträge, zu
// denen keine uploaded_files-Zeile mehr existiert. Solche Waisen
// entstehen, wenn ein Upload nach der Blob-Ablage, aber vor der
// Persistenz scheitert, oder wenn eine Blob-Löschung fehlschlug.
type CleanupService struct {
	DB     *gorm.DB
	Store  storage.FileStore
	Logger *zap.Logger
	// Blobs jünger als MinAge werden übersprungen, damit laufende
	// Uploads nicht weggeräumt werden.
	MinAge time.Duration
}

// NewCleanupService erstellt eine neue Instanz des CleanupService.
func NewCleanupService(db *gorm.DB, store storage.FileStore, logger *zap.Logger, minAge time.Duration) *CleanupService {
	return &CleanupService{DB: db, Store: store, Logger: logger, MinAge: minAge}
}

// Run führt einen Sweep aus und gibt die Anzahl gelöschter Blobs zurück.
func (s *CleanupService) Run(ctx context.Context) (int, error) {
	objects, err := s.Store.List(ctx)
	if err != nil {
		s.Logger.Error("Listing blobs for cleanup failed", zap.Error(err))
		return 0, err
	}

	var paths []string
	if err := s.DB.WithContext(ctx).Model(&models.UploadedFile{}).Pluck("path", &paths).Error; err != nil {
		return 0, err
	}
	referenced := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		referenced[p] = struct{}{}
	}

	cutoff := time.Now().Add(-s.MinAge)
	deleted := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}
		if err := s.Store.Delete(ctx, obj.Key); err != nil {
			s.Logger.Warn("Failed to delete orphaned blob", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.Logger.Info("Orphaned blobs removed", zap.Int("count", deleted))
	}
	return deleted, nil
}
