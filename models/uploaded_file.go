package models

import "time"

// UploadedFile repräsentiert ein vom Nutzer hochgeladenes PDF-Dokument.
// Path ist der opake Schlüssel des Blobs im File-Store, nicht der
// öffentlich erreichbare Link.
type UploadedFile struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   string `json:"user_id" gorm:"index;not null"`
	Name     string `json:"name" gorm:"not null"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Path     string `json:"path" gorm:"not null"`
}

// TableName gibt explizit den Tabellennamen an.
func (UploadedFile) TableName() string {
	return "uploaded_files"
}
