package core

import (
	"context"
	"log/slog"
)

// MaxBulkItems is the largest batch a single commit accepts.
const MaxBulkItems = 500

// BulkCommitter persists drafts one at a time, isolating per-item failures.
//
// Drafts are written sequentially in input order so a failure at index k
// cannot affect any other item and the outcome lists keep input order. No
// transaction spans several drafts.
type BulkCommitter struct {
	store    SessionStore
	maxItems int
	logger   *slog.Logger
}

// NewBulkCommitter creates a committer writing to store. maxItems <= 0 or
// above MaxBulkItems falls back to MaxBulkItems.
func NewBulkCommitter(store SessionStore, maxItems int) *BulkCommitter {
	if maxItems <= 0 || maxItems > MaxBulkItems {
		maxItems = MaxBulkItems
	}
	return &BulkCommitter{
		store:    store,
		maxItems: maxItems,
		logger:   slog.Default(),
	}
}

// WithLogger returns a copy of c that logs through logger.
func (c *BulkCommitter) WithLogger(logger *slog.Logger) *BulkCommitter {
	cp := *c
	if logger != nil {
		cp.logger = logger
	}
	return &cp
}

// MaxItems reports the batch cap in effect.
func (c *BulkCommitter) MaxItems() int { return c.maxItems }

// Commit validates and persists drafts for ownerID.
//
// A batch over the cap fails with a *LimitError before anything is written.
// Otherwise the returned error is always nil: validation and store failures
// are recorded in Failed. Once ctx is done no further store calls are made
// and the remaining drafts fail with ErrCommitDeadline.
func (c *BulkCommitter) Commit(ctx context.Context, ownerID string, drafts []SessionDraft) (BulkOutcome, error) {
	if len(drafts) > c.maxItems {
		return BulkOutcome{}, &LimitError{Count: len(drafts), Max: c.maxItems}
	}

	out := BulkOutcome{
		Successful:     make([]Session, 0, len(drafts)),
		Failed:         []FailedDraft{},
		TotalAttempted: len(drafts),
	}

	for i, draft := range drafts {
		if ctx.Err() != nil {
			for j := i; j < len(drafts); j++ {
				out.Failed = append(out.Failed, FailedDraft{Index: j, Draft: drafts[j], Error: ErrCommitDeadline.Error()})
			}
			c.logger.Warn("bulk commit stopped early",
				"owner_id", ownerID,
				"committed", len(out.Successful),
				"remaining", len(drafts)-i,
				"error", ctx.Err(),
			)
			break
		}

		if err := ValidateForCommit(draft); err != nil {
			out.Failed = append(out.Failed, FailedDraft{Index: i, Draft: draft, Error: err.Error()})
			continue
		}

		session, err := c.store.Create(ctx, ownerID, NormalizeDraft(draft))
		if err != nil {
			c.logger.Warn("session create failed", "owner_id", ownerID, "index", i, "error", err)
			out.Failed = append(out.Failed, FailedDraft{Index: i, Draft: draft, Error: err.Error()})
			continue
		}
		out.Successful = append(out.Successful, session)
	}

	out.TotalCreated = len(out.Successful)
	out.TotalFailed = len(out.Failed)

	c.logger.Info("bulk commit finished",
		"owner_id", ownerID,
		"attempted", out.TotalAttempted,
		"created", out.TotalCreated,
		"failed", out.TotalFailed,
	)
	return out, nil
}
