package services

import "errors"

var (
	// ErrNotFound: unbekannte ID oder fremder Besitzer. Wird an der
	// HTTP-Grenze auf 404 abgebildet.
	ErrNotFound = errors.New("record not found")

	// ErrFilesNotFound: mindestens eine angefragte Datei-ID ließ sich
	// nicht auflösen (Mengenvergleich). Wird auf 400 abgebildet.
	ErrFilesNotFound = errors.New("files not found")
)
