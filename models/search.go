package models

import "time"

// Search ist das Wurzelobjekt einer Suchanfrage: Query, Zusammenfassungen
// und die Verknüpfungen zu Quellen, Ergebnissen und angehängten Dateien.
// Die 2x/3x-Zusammenfassungen sind optional und bleiben NULL, wenn der
// Upstream-Service sie nicht liefert.
type Search struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID  string `json:"user_id" gorm:"index;not null"`
	Query   string `json:"query" gorm:"type:text;not null"`
	Summary string `json:"summary" gorm:"type:text"`

	Summary2x *string `json:"summary_2x,omitempty" gorm:"column:summary_2x;type:text"`
	Summary3x *string `json:"summary_3x,omitempty" gorm:"column:summary_3x;type:text"`

	// Quellen sind geteilt (many2many), Ergebnisse gehören der Suche.
	ValidSources   []Source       `json:"valid_sources,omitempty" gorm:"many2many:search_valid_sources"`
	InvalidSources []Source       `json:"invalid_sources,omitempty" gorm:"many2many:search_invalid_sources"`
	SearchResults  []SearchResult `json:"search_results,omitempty" gorm:"foreignKey:SearchID"`
	AttachedFiles  []UploadedFile `json:"attached_files,omitempty" gorm:"many2many:search_attached_files"`
}

// TableName gibt explizit den Tabellennamen an.
func (Search) TableName() string {
	return "searches"
}
