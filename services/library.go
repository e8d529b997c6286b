package services

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"doc-scout/models"
	"doc-scout/storage"
)

// FileService verwaltet hochgeladene Dokumente: Ablage im File-Store,
// Persistenz der Metadaten, Auflistung und Löschung.
type FileService struct {
	DB     *gorm.DB
	Store  storage.FileStore
	Logger *zap.Logger
}

// NewFileService erstellt eine neue Instanz des FileService.
func NewFileService(db *gorm.DB, store storage.FileStore, logger *zap.Logger) *FileService {
	return &FileService{DB: db, Store: store, Logger: logger}
}

// FileView ist die API-Projektion einer Datei inklusive auflösbarem Link.
type FileView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

// StoreUploads legt alle Dateiteile im File-Store ab und persistiert
// danach eine Zeile pro Datei. Die zurückgegebenen IDs entsprechen der
// Upload-Reihenfolge. Schlägt die Persistenz nach der Ablage fehl,
// bleiben verwaiste Blobs zurück; der Cleanup-Job räumt sie später weg.
func (s *FileService) StoreUploads(ctx context.Context, userID string, parts []*multipart.FileHeader) ([]uint, error) {
	files := make([]models.UploadedFile, 0, len(parts))
	for _, part := range parts {
		src, err := part.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, err
		}

		contentType := part.Header.Get("Content-Type")
		key, err := s.Store.Save(ctx, part.Filename, contentType, data)
		if err != nil {
			s.Logger.Error("Blob upload failed", zap.String("file", part.Filename), zap.Error(err))
			return nil, err
		}

		files = append(files, models.UploadedFile{
			UserID:   userID,
			Name:     part.Filename,
			MimeType: contentType,
			Size:     part.Size,
			Path:     key,
		})
	}

	if err := s.DB.WithContext(ctx).Create(&files).Error; err != nil {
		s.Logger.Error("Failed to persist uploaded files", zap.Int("count", len(files)), zap.Error(err))
		return nil, err
	}

	ids := make([]uint, len(files))
	for i, f := range files {
		ids[i] = f.ID
	}
	return ids, nil
}

// List gibt alle Dateien eines Nutzers zurück.
func (s *FileService) List(ctx context.Context, userID string) ([]FileView, error) {
	var files []models.UploadedFile
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&files).Error; err != nil {
		return nil, err
	}
	views := make([]FileView, len(files))
	for i, f := range files {
		views[i] = s.view(f)
	}
	return views, nil
}

// Delete entfernt die Datenbankzeile einer Datei und stößt danach die
// Blob-Löschung an. Scheitert nur die Blob-Löschung, wird das geloggt
// und nicht als Fehler gemeldet.
func (s *FileService) Delete(ctx context.Context, userID string, fileID uint) error {
	var file models.UploadedFile
	err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", fileID, userID).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.DB.WithContext(ctx).Delete(&file).Error; err != nil {
		return err
	}

	if err := s.Store.Delete(ctx, file.Path); err != nil {
		s.Logger.Warn("Blob deletion failed, leaving orphan",
			zap.Uint("file_id", file.ID),
			zap.String("key", file.Path),
			zap.Error(err))
	}
	return nil
}

func (s *FileService) view(f models.UploadedFile) FileView {
	return FileView{
		ID:       f.ID,
		Name:     f.Name,
		MimeType: f.MimeType,
		Size:     f.Size,
		URL:      s.Store.URL(f.Path),
	}
}
