package models

import (
	"strings"
	"time"
)

// Source ist ein deduplizierter Zitationseintrag, eindeutig über die URL.
// Der erste Schreiber gewinnt: spätere Suchen, die dieselbe URL zitieren,
// verbinden sich mit der bestehenden Zeile und aktualisieren sie nicht.
type Source struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title string `json:"title"`
	URL   string `json:"url" gorm:"uniqueIndex;size:2048;not null"`
	// Type speichert den doc_type mit Unterstrichen statt Leerzeichen,
	// z.B. "research_paper".
	Type string `json:"type" gorm:"index"`
}

// TableName gibt explizit den Tabellennamen an.
func (Source) TableName() string {
	return "sources"
}

// StorageType normalisiert einen doc_type für die Speicherung.
func StorageType(docType string) string {
	return strings.ReplaceAll(docType, " ", "_")
}

// DisplayType kehrt die Speicher-Normalisierung für die Anzeige um.
func DisplayType(stored string) string {
	return strings.ReplaceAll(stored, "_", " ")
}
