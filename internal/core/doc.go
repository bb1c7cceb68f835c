// Package core provides the business logic for bulk study-session ingestion.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web handlers, the planner CLI and tests without
// modification.
//
// # Architecture
//
// The pipeline is organized as a chain of small, pure stages:
//
//   - Extraction: [Extract] turns CSV, JSON or XML bytes into field maps.
//   - Validation: [RowValidator] maps each field map to a [SessionDraft] and
//     records errors and warnings on an [ImportRow].
//   - Duplicates: [MarkDuplicates] flags repeated (title, scheduledFor) pairs.
//   - Recurrence: [Expander] turns one draft and a [RecurrenceRule] into
//     dated occurrences.
//   - Commit: [BulkCommitter] persists drafts one by one through a
//     [SessionStore], collecting successes and failures.
//
// [Service] ties the stages together and keeps previews in a [PreviewCache]
// between review and commit.
//
// # Import Flow
//
//  1. Client uploads a file; [Service.PreviewImport] parses it
//  2. Every row comes back with a status, errors and warnings
//  3. The user reviews the table and picks rows to keep
//  4. [Service.CommitImport] commits the non-error rows of the cached preview
//
// A file that cannot be parsed at all fails with a [*ParseError]. Row-level
// problems never fail the request.
//
// # Bulk Limits
//
// A single commit carries at most [MaxBulkItems] drafts. Larger requests are
// rejected with [ErrLimitExceeded] before anything is written. Recurrence
// expansion never produces more than [MaxOccurrences] occurrences.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DB001-DB007: Store errors (constraints, connections, deadlocks)
//   - VAL001-VAL004: Validation errors (dates, recurrence, required fields)
//   - FILE001-FILE005: File errors (size, format, parsing)
//   - IMP001-IMP005: Import errors (limits, expiry, concurrency, deadline)
//
// # Thread Safety
//
// [Service], [ImportLimiter] and [MemoryPreviewCache] are safe for concurrent
// use. Rows, previews and outcomes are owned by the request that built them.
package core
