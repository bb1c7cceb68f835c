package core

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

// DefaultCommitTimeout bounds a single bulk commit.
const DefaultCommitTimeout = 2 * time.Minute

// DefaultMaxFileSize is the upload size limit when none is configured.
const DefaultMaxFileSize = 10 << 20

// ServiceConfig tunes a Service. Zero fields take the package defaults.
type ServiceConfig struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWaitTime   time.Duration
	MaxBulkItems  int
	CommitTimeout time.Duration
	PreviewTTL    time.Duration
}

// Service runs the ingestion pipeline: file previews, preview commits, bulk
// creation and recurrence expansion.
type Service struct {
	committer *BulkCommitter
	expander  *Expander
	cache     PreviewCache
	limiter   *ImportLimiter
	logger    *slog.Logger

	maxFileSize   int64
	commitTimeout time.Duration
	previewTTL    time.Duration

	now   func() time.Time
	newID func() string
}

// NewService wires a Service around store. A nil cache uses an in-memory one.
func NewService(store SessionStore, cache PreviewCache, cfg ServiceConfig) *Service {
	if cache == nil {
		cache = NewMemoryPreviewCache()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.CommitTimeout <= 0 {
		cfg.CommitTimeout = DefaultCommitTimeout
	}
	if cfg.PreviewTTL <= 0 {
		cfg.PreviewTTL = DefaultPreviewTTL
	}

	s := &Service{
		committer:     NewBulkCommitter(store, cfg.MaxBulkItems),
		cache:         cache,
		limiter:       NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		logger:        slog.Default(),
		maxFileSize:   cfg.MaxFileSize,
		commitTimeout: cfg.CommitTimeout,
		previewTTL:    cfg.PreviewTTL,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	s.expander = &Expander{Now: func() time.Time { return s.now() }}
	return s
}

// WithLogger sets the logger used by the service and its committer.
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	if logger != nil {
		s.logger = logger
		s.committer = s.committer.WithLogger(logger)
	}
	return s
}

// Limiter exposes the import limiter for health reporting and shutdown.
func (s *Service) Limiter() *ImportLimiter { return s.limiter }

// MaxFileSize reports the upload limit in bytes.
func (s *Service) MaxFileSize() int64 { return s.maxFileSize }

// PreviewRequest is one uploaded file awaiting review.
type PreviewRequest struct {
	OwnerID     string
	FileName    string
	ContentType string
	// Format is the declared format; empty means infer from name and type.
	Format string
	Data   []byte
}

// PreviewImport parses and validates an upload and caches the result for
// commit. Per-row problems are reported on the rows; only a file that cannot
// be read at all returns an error.
func (s *Service) PreviewImport(ctx context.Context, req PreviewRequest) (ImportPreview, error) {
	if int64(len(req.Data)) > s.maxFileSize {
		return ImportPreview{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(req.Data), s.maxFileSize)
	}
	if len(req.Data) == 0 {
		return ImportPreview{}, ErrEmptyFile
	}

	format, err := resolveFormat(req)
	if err != nil {
		return ImportPreview{}, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return ImportPreview{}, err
	}
	defer s.limiter.Release()

	start := s.now()
	rows, err := ParseImport(req.Data, format)
	if err != nil {
		return ImportPreview{}, err
	}

	preview := ImportPreview{
		ImportID:  s.newID(),
		OwnerID:   req.OwnerID,
		FileName:  req.FileName,
		Format:    format,
		Rows:      rows,
		Summary:   Summarize(rows),
		CreatedAt: s.now(),
	}

	if err := s.cache.Put(ctx, preview, s.previewTTL); err != nil {
		return ImportPreview{}, fmt.Errorf("cache preview: %w", err)
	}

	s.logger.Debug("import previewed",
		"import_id", preview.ImportID,
		"owner_id", req.OwnerID,
		"format", format,
		"rows", preview.Summary.Total,
		"failed", preview.Summary.Failed,
		"duplicates", preview.Summary.Duplicates,
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	return preview, nil
}

func resolveFormat(req PreviewRequest) (Format, error) {
	if req.Format != "" {
		return ParseFormat(req.Format)
	}
	return DetectFormat(req.FileName, req.ContentType)
}

// ParseImport runs extraction, row validation and duplicate marking on data.
// It has no side effects and is shared by the service and the CLI.
func ParseImport(data []byte, format Format) ([]ImportRow, error) {
	fields, err := Extract(data, format)
	if err != nil {
		return nil, err
	}
	rows := NewRowValidator(format).ValidateAll(fields)
	MarkDuplicates(rows)
	return rows, nil
}

// GetPreview returns a cached preview owned by ownerID.
func (s *Service) GetPreview(ctx context.Context, ownerID, importID string) (ImportPreview, error) {
	p, err := s.cache.Get(ctx, importID)
	if err != nil {
		return ImportPreview{}, err
	}
	if p.OwnerID != ownerID {
		return ImportPreview{}, ErrImportNotFound
	}
	return p, nil
}

// CommitOptions selects which previewed rows are committed.
type CommitOptions struct {
	// RowNumbers restricts the commit to these rows. Empty means every
	// committable row.
	RowNumbers []int `json:"rowNumbers,omitempty"`
	// SkipDuplicates leaves out rows flagged as duplicates.
	SkipDuplicates bool `json:"skipDuplicates"`
}

// SelectRows returns the drafts of rows eligible for commit, in row order.
// Error rows are never selected.
func SelectRows(rows []ImportRow, opts CommitOptions) []SessionDraft {
	drafts := make([]SessionDraft, 0, len(rows))
	for _, r := range rows {
		if r.Status == RowError {
			continue
		}
		if opts.SkipDuplicates && r.IsDuplicate {
			continue
		}
		if len(opts.RowNumbers) > 0 && !slices.Contains(opts.RowNumbers, r.RowNumber) {
			continue
		}
		drafts = append(drafts, r.Draft)
	}
	return drafts
}

// CommitImport commits the selected rows of a cached preview. The preview is
// dropped once the commit has run so it cannot be committed twice.
func (s *Service) CommitImport(ctx context.Context, ownerID, importID string, opts CommitOptions) (BulkOutcome, error) {
	p, err := s.GetPreview(ctx, ownerID, importID)
	if err != nil {
		return BulkOutcome{}, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return BulkOutcome{}, err
	}
	defer s.limiter.Release()

	outcome, err := s.commit(ctx, ownerID, SelectRows(p.Rows, opts))
	if err != nil {
		return BulkOutcome{}, err
	}

	if err := s.cache.Delete(ctx, importID); err != nil {
		s.logger.Warn("failed to drop committed preview", "import_id", importID, "error", err)
	}
	return outcome, nil
}

// BulkRequest is a bulk-create call: explicit drafts, optionally expanded by
// a recurrence rule.
type BulkRequest struct {
	Drafts     []SessionDraft  `json:"drafts"`
	Recurrence *RecurrenceRule `json:"recurrence,omitempty"`
	// ApplyToAll expands every draft by Recurrence. When false only the
	// first draft is expanded and the rest are committed as given.
	ApplyToAll bool `json:"applyToAll"`
}

// BulkCreate expands the request if it carries a rule and commits the result.
// Oversized requests are rejected before or during expansion, so the full
// expanded set is never built.
func (s *Service) BulkCreate(ctx context.Context, ownerID string, req BulkRequest) (BulkOutcome, error) {
	limit := s.committer.MaxItems()
	if len(req.Drafts) > limit {
		return BulkOutcome{}, &LimitError{Count: len(req.Drafts), Max: limit}
	}

	drafts := req.Drafts
	if req.Recurrence != nil {
		expanded, err := s.expander.ExpandAllWithin(drafts, *req.Recurrence, req.ApplyToAll, limit)
		if err != nil {
			return BulkOutcome{}, err
		}
		drafts = expanded
	}
	return s.commit(ctx, ownerID, drafts)
}

func (s *Service) commit(ctx context.Context, ownerID string, drafts []SessionDraft) (BulkOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.commitTimeout)
	defer cancel()
	return s.committer.Commit(ctx, ownerID, drafts)
}

// Expand returns the occurrences of rule for base without committing them.
func (s *Service) Expand(base SessionDraft, rule RecurrenceRule) ([]SessionDraft, error) {
	return s.expander.Expand(base, rule)
}
