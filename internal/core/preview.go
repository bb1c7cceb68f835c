package core

// preview.go holds parsed imports between the review step and the commit.
//
// A preview is created by Service.PreviewImport and looked up again by id on
// commit or report. Entries expire after the configured TTL. Implementations
// must be safe for concurrent use; each Get returns an independent copy.

import (
	"context"
	"sync"
	"time"
)

// DefaultPreviewTTL is how long a preview stays available for commit.
const DefaultPreviewTTL = 30 * time.Minute

// PreviewCache stores import previews by id.
type PreviewCache interface {
	// Put stores p under p.ImportID for ttl.
	Put(ctx context.Context, p ImportPreview, ttl time.Duration) error
	// Get returns ErrImportNotFound for unknown or expired ids.
	Get(ctx context.Context, importID string) (ImportPreview, error)
	Delete(ctx context.Context, importID string) error
}

type memoryEntry struct {
	preview   ImportPreview
	expiresAt time.Time
}

// MemoryPreviewCache is a process-local PreviewCache.
type MemoryPreviewCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryPreviewCache creates an empty cache using the wall clock.
func NewMemoryPreviewCache() *MemoryPreviewCache {
	return &MemoryPreviewCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Put implements PreviewCache. Expired entries are swept on every write.
func (c *MemoryPreviewCache) Put(_ context.Context, p ImportPreview, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultPreviewTTL
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for id, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, id)
		}
	}
	c.entries[p.ImportID] = memoryEntry{preview: clonePreview(p), expiresAt: now.Add(ttl)}
	return nil
}

// Get implements PreviewCache.
func (c *MemoryPreviewCache) Get(_ context.Context, importID string) (ImportPreview, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[importID]
	if !ok || c.now().After(e.expiresAt) {
		delete(c.entries, importID)
		return ImportPreview{}, ErrImportNotFound
	}
	return clonePreview(e.preview), nil
}

// Delete implements PreviewCache.
func (c *MemoryPreviewCache) Delete(_ context.Context, importID string) error {
	c.mu.Lock()
	delete(c.entries, importID)
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryPreviewCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func clonePreview(p ImportPreview) ImportPreview {
	rows := make([]ImportRow, len(p.Rows))
	for i, r := range p.Rows {
		r.Draft = r.Draft.clone()
		r.Errors = append([]string{}, r.Errors...)
		r.Warnings = append([]string{}, r.Warnings...)
		rows[i] = r
	}
	p.Rows = rows
	return p
}
