package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PranavGopinath/spectra/internal/domain"
	"github.com/PranavGopinath/spectra/internal/logger"
	"github.com/PranavGopinath/spectra/internal/repository"
	"github.com/PranavGopinath/spectra/internal/storage"
	"github.com/PranavGopinath/spectra/internal/taste"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// itemNamespace seeds deterministic point ids so re-ingesting the same
// catalog entry always lands on the same point.
var itemNamespace = uuid.MustParse("9a7f3a52-4c1d-4b8e-9f26-3d8f6f1c2a11")

// DeterministicItemID derives a stable id for a catalog entry from its
// media type and title. Ingest uses it so repeated runs upsert instead of
// duplicating.
func DeterministicItemID(mediaType domain.MediaType, title string) string {
	name := string(mediaType) + ":" + strings.ToLower(strings.TrimSpace(title))
	return uuid.NewSHA1(itemNamespace, []byte(name)).String()
}

// SeedItem is one catalog entry in a seed file.
type SeedItem struct {
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title"`
	MediaType   string         `json:"media_type"`
	Year        *int           `json:"year,omitempty"`
	Description string         `json:"description"`
	Metadata    domain.JSONMap `json:"metadata,omitempty"`
	ArtworkPath string         `json:"artwork_path,omitempty"`
}

// IngestService runs the catalog ingestion pipeline: embed each entry's
// text, project it onto the taste basis, upload artwork, and persist to
// both the vector index and the relational catalog.
type IngestService struct {
	itemRepo *repository.ItemRepository
	indexes  map[domain.MediaType]*repository.QdrantRepository
	storage  storage.ObjectStorage
	engine   *taste.Engine
	logger   *logger.Logger
	workers  int
}

// IngestConfig holds configuration for the ingest service
type IngestConfig struct {
	Workers int
}

// NewIngestService creates a new ingest service
func NewIngestService(
	itemRepo *repository.ItemRepository,
	indexes map[domain.MediaType]*repository.QdrantRepository,
	objectStorage storage.ObjectStorage,
	engine *taste.Engine,
	log *logger.Logger,
	cfg *IngestConfig,
) *IngestService {
	workers := 5
	if cfg != nil && cfg.Workers > 0 {
		workers = cfg.Workers
	}
	return &IngestService{
		itemRepo: itemRepo,
		indexes:  indexes,
		storage:  objectStorage,
		engine:   engine,
		logger:   log,
		workers:  workers,
	}
}

// log returns a logger from context if available, otherwise returns the default logger
func (s *IngestService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// IngestStats holds statistics for an ingestion run
type IngestStats struct {
	TotalItems     int64
	ProcessedItems int64
	SkippedItems   int64
	FailedItems    int64
	StartTime      time.Time
	EndTime        time.Time
}

// IngestOptions holds options for ingestion
type IngestOptions struct {
	Force bool // If true, re-process entries that already exist
}

// IngestFromFile loads a JSON seed file and ingests its entries.
// Parameters:
//   - ctx: cancellation context; in-flight workers drain on cancel.
//   - path: seed file, a JSON array of SeedItem.
//   - limit: maximum entries to ingest; 0 or negative means all.
//   - opts: ingestion options; nil uses defaults.
//
// Returns:
//   - *IngestStats: counts for the run.
//   - error: only for failures before processing starts (bad file, bad
//     JSON); per-item failures are counted, not returned.
func (s *IngestService) IngestFromFile(ctx context.Context, path string, limit int, opts *IngestOptions) (*IngestStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seeds []SeedItem
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if limit > 0 && len(seeds) > limit {
		seeds = seeds[:limit]
	}

	seedDir := filepath.Dir(path)
	for i := range seeds {
		seeds[i].ArtworkPath = resolveArtworkPath(seedDir, seeds[i].ArtworkPath)
	}

	return s.ingest(ctx, seeds, opts)
}

func (s *IngestService) ingest(ctx context.Context, seeds []SeedItem, opts *IngestOptions) (*IngestStats, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	stats := &IngestStats{
		StartTime:  time.Now(),
		TotalItems: int64(len(seeds)),
	}

	s.log(ctx).WithFields(logger.Fields{
		"total": len(seeds),
		"force": opts.Force,
	}).Info("Starting catalog ingestion")

	itemsChan := make(chan SeedItem, s.workers*2)
	resultsChan := make(chan *processResult, s.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, itemsChan, resultsChan, opts)
		}()
	}

	done := make(chan struct{})
	go func() {
		for result := range resultsChan {
			atomic.AddInt64(&stats.ProcessedItems, 1)
			if result.skipped {
				atomic.AddInt64(&stats.SkippedItems, 1)
			} else if result.err != nil {
				atomic.AddInt64(&stats.FailedItems, 1)
				s.log(ctx).WithFields(logger.Fields{
					"title": result.title,
				}).WithError(result.err).Error("Failed to ingest entry")
			}
		}
		close(done)
	}()

feed:
	for _, seed := range seeds {
		select {
		case itemsChan <- seed:
		case <-ctx.Done():
			break feed
		}
	}

	close(itemsChan)
	wg.Wait()
	close(resultsChan)
	<-done

	stats.EndTime = time.Now()

	s.log(ctx).WithFields(logger.Fields{
		"total":     stats.TotalItems,
		"processed": stats.ProcessedItems,
		"skipped":   stats.SkippedItems,
		"failed":    stats.FailedItems,
		"duration":  stats.EndTime.Sub(stats.StartTime).String(),
	}).Info("Ingestion completed")

	return stats, nil
}

type processResult struct {
	title   string
	skipped bool
	err     error
}

func (s *IngestService) worker(ctx context.Context, items <-chan SeedItem, results chan<- *processResult, opts *IngestOptions) {
	for seed := range items {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result := &processResult{title: seed.Title}
		skipped, err := s.processSeed(ctx, &seed, opts)
		result.skipped = skipped
		result.err = err
		results <- result
	}
}

func (s *IngestService) processSeed(ctx context.Context, seed *SeedItem, opts *IngestOptions) (skipped bool, err error) {
	mediaType, ok := domain.ParseMediaType(seed.MediaType)
	if !ok {
		return false, fmt.Errorf("unknown media type %q", seed.MediaType)
	}
	if seed.Title == "" {
		return false, fmt.Errorf("entry has no title")
	}

	index, ok := s.indexes[mediaType]
	if !ok {
		return false, fmt.Errorf("no index configured for media type %q", mediaType)
	}

	itemID := seed.ID
	if itemID == "" {
		itemID = DeterministicItemID(mediaType, seed.Title)
	}

	existing, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	if existing != nil && !opts.Force {
		return true, nil
	}

	// External calls first; nothing to roll back if they fail.
	embedding, err := s.engine.Embed(ctx, embedText(seed))
	if err != nil {
		return false, fmt.Errorf("failed to embed: %w", err)
	}
	tasteVector, err := s.engine.Project(embedding)
	if err != nil {
		return false, fmt.Errorf("failed to project: %w", err)
	}

	artworkKey, uploaded, err := s.uploadArtwork(ctx, itemID, mediaType, seed.ArtworkPath)
	if err != nil {
		return false, err
	}

	item := &domain.MediaItem{
		ID:          itemID,
		Title:       seed.Title,
		MediaType:   mediaType,
		Year:        seed.Year,
		Description: seed.Description,
		Metadata:    seed.Metadata,
		ArtworkKey:  artworkKey,
		Embedding:   embedding,
		TasteVector: tasteVector,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	payload := &repository.ItemPayload{
		ItemID:      itemID,
		Title:       seed.Title,
		MediaType:   mediaType,
		Year:        seed.Year,
		Description: seed.Description,
		ArtworkURL:  s.storage.GetURL(artworkKey),
		Metadata:    seed.Metadata,
	}

	if err := index.Upsert(ctx, itemID, embedding, tasteVector, payload); err != nil {
		s.rollbackArtwork(ctx, artworkKey, uploaded)
		return false, fmt.Errorf("failed to upsert to Qdrant: %w", err)
	}

	if err := s.itemRepo.Upsert(ctx, item); err != nil {
		if delErr := index.Delete(ctx, itemID); delErr != nil {
			s.log(ctx).WithField(logger.FieldItemID, itemID).WithError(delErr).Error("Failed to rollback Qdrant upsert")
		}
		s.rollbackArtwork(ctx, artworkKey, uploaded)
		return false, fmt.Errorf("failed to save to database: %w", err)
	}

	return false, nil
}

// embedText composes the text embedded for a catalog entry. Genre metadata
// is appended when present so entries with thin descriptions still carry
// some signal.
func embedText(seed *SeedItem) string {
	var b strings.Builder
	b.WriteString(seed.Title)
	if seed.Description != "" {
		b.WriteString(". ")
		b.WriteString(seed.Description)
	}
	if genres, ok := seed.Metadata["genres"].([]interface{}); ok && len(genres) > 0 {
		names := make([]string, 0, len(genres))
		for _, g := range genres {
			if name, ok := g.(string); ok {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			b.WriteString(". Genres: ")
			b.WriteString(strings.Join(names, ", "))
		}
	}
	return b.String()
}

// uploadArtwork validates and uploads an entry's local artwork file. A
// missing path is fine; the item just has no artwork.
func (s *IngestService) uploadArtwork(ctx context.Context, itemID string, mediaType domain.MediaType, path string) (key string, uploaded bool, err error) {
	if path == "" {
		return "", false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read artwork: %w", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", false, fmt.Errorf("unrecognized artwork format: %w", err)
	}

	key = fmt.Sprintf("%s/%s.%s", mediaType, itemID, format)

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to check storage existence: %w", err)
	}
	if exists {
		return key, false, nil
	}

	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), artworkContentType(format)); err != nil {
		return "", false, fmt.Errorf("failed to upload artwork: %w", err)
	}
	return key, true, nil
}

func (s *IngestService) rollbackArtwork(ctx context.Context, key string, uploaded bool) {
	if !uploaded || key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.log(ctx).WithField("storage_key", key).WithError(err).Error("Failed to rollback artwork upload")
	}
}

func artworkContentType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// resolveArtworkPath joins a relative artwork path against the seed file's
// directory so seed files can ship alongside their assets.
func resolveArtworkPath(seedDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(seedDir, path)
}
