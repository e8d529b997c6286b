package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFragment(t *testing.T) {
	frag := BuildFragment("The quick brown fox jumps", "fox")
	assert.Equal(t, "quick brown-,fox", frag)
}

func TestBuildFragment_ShortContext(t *testing.T) {
	// Weniger als drei Tokens vor dem Treffer: alles Verfügbare wird
	// zum Prefix.
	frag := BuildFragment("quick fox jumps", "fox")
	assert.Equal(t, "quick-,fox", frag)

	frag = BuildFragment("fox jumps", "fox")
	assert.Equal(t, "-,fox", frag)
}

func TestBuildFragment_HighlightMissing(t *testing.T) {
	// Festgelegte Policy: fehlt das Highlight wörtlich im Content,
	// degradiert der Prefix auf die letzten drei Tokens des gesamten
	// Contents.
	frag := BuildFragment("The quick brown fox jumps", "Fox")
	assert.Equal(t, "brown fox jumps-,Fox", frag)
}

func TestEncodeFragment(t *testing.T) {
	assert.Equal(t, "quick%20brown-,fox", EncodeFragment("quick brown-,fox"))
	// encodeURI-Alphabet: Reserved-Zeichen bleiben stehen.
	assert.Equal(t, "a&b=c/d?e", EncodeFragment("a&b=c/d?e"))
	// Nicht-ASCII wird als UTF-8-Bytes kodiert.
	assert.Equal(t, "%C3%BC-,x", EncodeFragment("ü-,x"))
}

func TestSourceLink(t *testing.T) {
	link := SourceLink("https://example.com/doc", "The quick brown fox jumps", []string{"fox"})
	assert.Equal(t, "https://example.com/doc#:~:text=text=quick%20brown-,fox", link)
}

func TestSourceLink_MultipleHighlights(t *testing.T) {
	content := "The quick brown fox jumps over the lazy dog"
	link := SourceLink("https://example.com/doc", content, []string{"fox", "lazy dog"})
	// Das Leerzeichen vor dem Treffer zählt als leeres Token, daher
	// bleiben nur zwei Wörter Kontext übrig.
	assert.Equal(t,
		"https://example.com/doc#:~:text=text=quick%20brown-,fox&text=over%20the-,lazy%20dog",
		link)
}

func TestSourceLink_NoHighlights(t *testing.T) {
	link := SourceLink("https://example.com/doc", "content", nil)
	assert.Equal(t, "https://example.com/doc", link)
}

func TestCanonicalURL(t *testing.T) {
	assert.Equal(t, "https://example.com/doc",
		CanonicalURL("https://example.com/doc#:~:text=text=a-,b"))
	assert.Equal(t, "https://example.com/doc", CanonicalURL("https://example.com/doc"))
}
