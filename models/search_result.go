package models

import "time"

// SearchResult ist ein gerankter Inhalts-Schnipsel einer Suche.
// Position konserviert das Upstream-Ranking; Highlights sind Substrings
// von Content, aus denen beim Abruf Text-Fragment-Links rekonstruiert
// werden.
type SearchResult struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SearchID uint `json:"search_id" gorm:"index;not null"`
	Position int  `json:"order" gorm:"not null"`

	Content string `json:"content" gorm:"type:text"`
	// Als JSON serialisiert, damit dieselbe Spalte unter Postgres und
	// SQLite funktioniert.
	Highlights []string `json:"highlights" gorm:"serializer:json;type:text"`

	SourceID uint   `json:"source_id" gorm:"index"`
	Source   Source `json:"source,omitempty" gorm:"foreignKey:SourceID"`
}

// TableName gibt explizit den Tabellennamen an.
func (SearchResult) TableName() string {
	return "search_results"
}
