package services

import "strings"

// Text-Fragment-Rekonstruktion: aus gespeicherten Highlights werden
// "scroll-to-text"-Deep-Links gebaut, wie sie Browser über
// #:~:text=prefix-,match verstehen.

// fragmentMarker trennt den Kontext-Prefix vom eigentlichen Treffer.
const fragmentMarker = "-,"

// BuildFragment liefert das rohe (unkodierte) Text-Fragment für ein
// Highlight: die letzten drei Leerzeichen-Tokens vor dem ersten
// Vorkommen, der Marker, dann das Highlight selbst. Kommt das Highlight
// nicht wörtlich im Content vor, degradiert der Prefix auf die letzten
// drei Tokens des gesamten Contents.
func BuildFragment(content, highlight string) string {
	before := content
	if i := strings.Index(content, highlight); i >= 0 {
		before = content[:i]
	}
	tokens := strings.Split(before, " ")
	if len(tokens) > 3 {
		tokens = tokens[len(tokens)-3:]
	}
	prefix := strings.TrimSpace(strings.Join(tokens, " "))
	return prefix + fragmentMarker + highlight
}

// SourceLink baut den vollständigen Deep-Link für ein Suchergebnis:
// kanonische URL + "#:~:text=" + die mit "&" verbundenen, jeweils mit
// "text=" präfigierten Fragmente aller Highlights.
func SourceLink(sourceURL, content string, highlights []string) string {
	if len(highlights) == 0 {
		return sourceURL
	}
	parts := make([]string, 0, len(highlights))
	for _, h := range highlights {
		parts = append(parts, "text="+EncodeFragment(BuildFragment(content, h)))
	}
	return sourceURL + "#:~:text=" + strings.Join(parts, "&")
}

// EncodeFragment prozent-kodiert ein Fragment. Das Alphabet entspricht
// encodeURI: alphanumerische Zeichen sowie ;,/?:@&=+$-_.!~*'()# bleiben
// stehen, alles andere (inklusive Leerzeichen) wird als UTF-8-Bytes
// kodiert. url.PathEscape würde das Komma des Markers mit kodieren.
func EncodeFragment(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if encodeURISafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func encodeURISafe(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case ';', ',', '/', '?', ':', '@', '&', '=', '+', '$',
		'-', '_', '.', '!', '~', '*', '\'', '(', ')', '#':
		return true
	}
	return false
}
