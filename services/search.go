package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"doc-scout/models"
	"doc-scout/providers/searchapi"
	"doc-scout/storage"
)

// Platzhalter für fehlende Mehrfach-Zusammenfassungen in der Detailansicht.
const (
	placeholderSummary2x = "2x Summary not available"
	placeholderSummary3x = "3x Summary not available"
)

// SearchService orchestriert eine Suche: Dateiauflösung, Aufruf des
// Upstream-Services und die transaktionale Persistenz des kompletten
// Such-Graphen (Suche, Quellen, Ergebnisse, Datei-Anhänge).
type SearchService struct {
	DB     *gorm.DB
	Store  storage.FileStore
	API    *searchapi.Client
	Logger *zap.Logger
}

// NewSearchService erstellt eine neue Instanz des SearchService.
func NewSearchService(db *gorm.DB, store storage.FileStore, api *searchapi.Client, logger *zap.Logger) *SearchService {
	return &SearchService{DB: db, Store: store, API: api, Logger: logger}
}

// Run führt eine Suche aus und persistiert das Ergebnis. fileIDs dürfen
// leer sein; jede nicht auflösbare ID führt zu ErrFilesNotFound, bevor
// der Upstream-Service kontaktiert wird.
func (s *SearchService) Run(ctx context.Context, userID, query string, fileIDs []uint) (*models.Search, error) {
	log := s.Logger.With(zap.String("user_id", userID))

	files, err := s.resolveFiles(ctx, fileIDs)
	if err != nil {
		return nil, err
	}

	refs := make([]searchapi.FileRef, len(files))
	for i, f := range files {
		refs[i] = searchapi.FileRef{Name: f.Name, URL: s.Store.URL(f.Path)}
	}

	result, err := s.API.Query(ctx, query, refs)
	if err != nil {
		return nil, err
	}

	search := &models.Search{
		UserID:    userID,
		Query:     query,
		Summary:   result.Summary,
		Summary2x: result.Summary2x,
		Summary3x: result.Summary3x,
	}

	// Der gesamte Such-Graph entsteht in einer Transaktion: entweder
	// wird alles persistiert oder nichts. Ein paralleler Insert auf
	// dieselbe neue Quell-URL kann am Unique-Index scheitern und rollt
	// dann die ganze Suche zurück; das ist akzeptiert und wird nicht
	// erneut versucht.
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		valid, err := reconcileCitations(tx, result.ValidSources)
		if err != nil {
			return err
		}
		invalid, err := reconcileCitations(tx, result.InvalidSources)
		if err != nil {
			return err
		}

		results := make([]models.SearchResult, 0, len(result.Response))
		for i, node := range result.Response {
			src, err := findOrCreateSource(tx, models.Source{
				Title: node.Title,
				URL:   CanonicalURL(node.Source),
				Type:  models.StorageType(node.DocType),
			})
			if err != nil {
				return err
			}
			results = append(results, models.SearchResult{
				Position:   i,
				Content:    node.Content,
				Highlights: node.HighlightWords,
				SourceID:   src.ID,
			})
		}

		search.ValidSources = valid
		search.InvalidSources = invalid
		search.SearchResults = results
		search.AttachedFiles = files

		// Omit auf den Assoziationen, damit GORM nur Join-Zeilen
		// schreibt und die bereits abgeglichenen Quellen/Dateien nicht
		// anfasst.
		return tx.Omit(
			"ValidSources.*",
			"InvalidSources.*",
			"AttachedFiles.*",
		).Create(search).Error
	})
	if err != nil {
		log.Error("Failed to persist search", zap.Error(err))
		return nil, err
	}

	log.Info("Search persisted",
		zap.Uint("search_id", search.ID),
		zap.Int("results", len(search.SearchResults)),
		zap.Int("attached_files", len(files)))
	return search, nil
}

// resolveFiles löst die angefragten Datei-IDs auf. Erkennungsregel für
// unbekannte IDs ist der Mengenvergleich: aufgelöste Anzahl muss der
// angefragten (deduplizierten) Anzahl entsprechen.
func (s *SearchService) resolveFiles(ctx context.Context, fileIDs []uint) ([]models.UploadedFile, error) {
	if len(fileIDs) == 0 {
		return nil, nil
	}
	var files []models.UploadedFile
	if err := s.DB.WithContext(ctx).Where("id IN ?", fileIDs).Find(&files).Error; err != nil {
		return nil, err
	}
	if len(files) != len(fileIDs) {
		return nil, ErrFilesNotFound
	}
	return files, nil
}

// reconcileCitations gleicht zitierte Quellen per find-or-create über
// die URL ab. Bestehende Zeilen werden nie aktualisiert.
func reconcileCitations(tx *gorm.DB, citations []searchapi.Citation) ([]models.Source, error) {
	sources := make([]models.Source, 0, len(citations))
	for _, c := range citations {
		src, err := findOrCreateSource(tx, models.Source{
			Title: c.Title,
			URL:   c.URL,
			Type:  models.StorageType(c.DocType),
		})
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func findOrCreateSource(tx *gorm.DB, candidate models.Source) (models.Source, error) {
	var src models.Source
	err := tx.Where(models.Source{URL: candidate.URL}).
		Attrs(models.Source{Title: candidate.Title, Type: candidate.Type}).
		FirstOrCreate(&src).Error
	return src, err
}

// CanonicalURL entfernt einen Text-Fragment-Anker von einer Quell-URL,
// damit alle Treffer desselben Dokuments auf dieselbe Source-Zeile
// abgeglichen werden.
func CanonicalURL(sourceURL string) string {
	canonical, _, _ := strings.Cut(sourceURL, "#:~:text=")
	return canonical
}

// SearchSummary ist die Listen-Projektion einer Suche.
type SearchSummary struct {
	ID        uint      `json:"id"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"createdAt"`
}

// List gibt alle Suchen eines Nutzers zurück, neueste zuerst.
func (s *SearchService) List(ctx context.Context, userID string) ([]SearchSummary, error) {
	var searches []models.Search
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&searches).Error
	if err != nil {
		return nil, err
	}
	summaries := make([]SearchSummary, len(searches))
	for i, sr := range searches {
		summaries[i] = SearchSummary{ID: sr.ID, Query: sr.Query, CreatedAt: sr.CreatedAt}
	}
	return summaries, nil
}

// SummarySet trägt die drei Zusammenfassungs-Varianten; fehlende 2x/3x
// werden durch die definierten Platzhalter ersetzt, nie durch null.
type SummarySet struct {
	OneX   string `json:"1x"`
	TwoX   string `json:"2x"`
	ThreeX string `json:"3x"`
}

// ResultView ist die Detail-Projektion eines Suchergebnisses inklusive
// rekonstruiertem Deep-Link.
type ResultView struct {
	Content    string   `json:"content"`
	Highlights []string `json:"highlights"`
	Title      string   `json:"title"`
	Source     string   `json:"source"`
	Type       string   `json:"type"`
}

// SourceView ist die Detail-Projektion einer zitierten Quelle.
type SourceView struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// SearchDetails ist die vollständige Detailansicht einer Suche.
type SearchDetails struct {
	CreatedAt      time.Time    `json:"createdAt"`
	Query          string       `json:"query"`
	Summaries      SummarySet   `json:"summaries"`
	SearchResults  []ResultView `json:"searchResults"`
	ValidSources   []SourceView `json:"validSources"`
	InvalidSources []SourceView `json:"invalidSources"`
	AttachedFiles  []FileView   `json:"attachedFiles"`
}

// Details lädt eine Suche mit allen Verknüpfungen und baut die
// Detailansicht samt Text-Fragment-Links auf.
func (s *SearchService) Details(ctx context.Context, searchID uint) (*SearchDetails, error) {
	var search models.Search
	err := s.DB.WithContext(ctx).
		Preload("ValidSources").
		Preload("InvalidSources").
		Preload("SearchResults.Source").
		Preload("AttachedFiles").
		First(&search, searchID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sort.Slice(search.SearchResults, func(i, j int) bool {
		return search.SearchResults[i].Position < search.SearchResults[j].Position
	})

	details := &SearchDetails{
		CreatedAt: search.CreatedAt,
		Query:     search.Query,
		Summaries: SummarySet{
			OneX:   search.Summary,
			TwoX:   orPlaceholder(search.Summary2x, placeholderSummary2x),
			ThreeX: orPlaceholder(search.Summary3x, placeholderSummary3x),
		},
		SearchResults:  make([]ResultView, 0, len(search.SearchResults)),
		ValidSources:   sourceViews(search.ValidSources),
		InvalidSources: sourceViews(search.InvalidSources),
		AttachedFiles:  make([]FileView, 0, len(search.AttachedFiles)),
	}

	for _, result := range search.SearchResults {
		details.SearchResults = append(details.SearchResults, ResultView{
			Content:    result.Content,
			Highlights: result.Highlights,
			Title:      result.Source.Title,
			Source:     SourceLink(result.Source.URL, result.Content, result.Highlights),
			Type:       models.DisplayType(result.Source.Type),
		})
	}

	for _, f := range search.AttachedFiles {
		details.AttachedFiles = append(details.AttachedFiles, FileView{
			ID:       f.ID,
			Name:     f.Name,
			MimeType: f.MimeType,
			Size:     f.Size,
			URL:      s.Store.URL(f.Path),
		})
	}

	return details, nil
}

// Delete entfernt eine Suche des Nutzers: zuerst die eigenen Ergebnisse,
// dann die Join-Zeilen, zuletzt die Suche selbst. Geteilte Quellen und
// angehängte Dateien bleiben unberührt.
func (s *SearchService) Delete(ctx context.Context, userID string, searchID uint) error {
	var search models.Search
	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", searchID, userID).
		First(&search).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("search_id = ?", search.ID).Delete(&models.SearchResult{}).Error; err != nil {
			return err
		}
		for _, assoc := range []string{"ValidSources", "InvalidSources", "AttachedFiles"} {
			if err := tx.Model(&search).Association(assoc).Clear(); err != nil {
				return err
			}
		}
		return tx.Delete(&search).Error
	})
}

func orPlaceholder(s *string, placeholder string) string {
	if s == nil {
		return placeholder
	}
	return *s
}

func sourceViews(sources []models.Source) []SourceView {
	views := make([]SourceView, len(sources))
	for i, src := range sources {
		views[i] = SourceView{
			Title: src.Title,
			URL:   src.URL,
			Type:  models.DisplayType(src.Type),
		}
	}
	return views
}
