// Package searchapi enthält die Logik für die Interaktion mit dem
// externen Search/Summarization-Service.
package searchapi

// FileRef referenziert ein hochgeladenes Dokument, das der Service als
// Kontext einbeziehen soll.
type FileRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Request repräsentiert den Request-Body an den Service.
type Request struct {
	Message string    `json:"message"`
	Files   []FileRef `json:"files"`
}

// ContentNode repräsentiert einen gerankten Treffer in der Antwort.
// Source kann einen Text-Fragment-Anker (#:~:text=...) tragen.
type ContentNode struct {
	Content        string   `json:"content"`
	HighlightWords []string `json:"highlight_words"`
	Source         string   `json:"source"`
	Title          string   `json:"title"`
	DocType        string   `json:"doc_type"`
}

// Citation repräsentiert eine zitierte Quelle (gültig oder ungültig).
type Citation struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	DocType string `json:"doc_type"`
}

// Response repräsentiert die vollständige Antwort des Services.
// Summary2x/Summary3x fehlen, wenn der Service nur die einfache
// Zusammenfassung geliefert hat.
type Response struct {
	Response       []ContentNode `json:"response"`
	Summary        string        `json:"summary"`
	Summary2x      *string       `json:"summary_2x,omitempty"`
	Summary3x      *string       `json:"summary_3x,omitempty"`
	ValidSources   []Citation    `json:"valid_sources"`
	InvalidSources []Citation    `json:"invalid_sources"`
}
