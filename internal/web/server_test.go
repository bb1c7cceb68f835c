package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/sessionplanner/internal/config"
	"github.com/JonMunkholm/sessionplanner/internal/core"
	"github.com/google/go-cmp/cmp"
)

const ownerHeader = "X-Owner-ID"

const reviewCSV = `title,category,duration,status,scheduledFor
Algebra,school,45,planned,2024-01-15T09:00:00Z
Go,programming,60,done,
,school,30,,
Algebra,school,45,planned,2024-01-15T09:00:00Z
`

// memStore is an in-memory session store for handler tests.
type memStore struct {
	mu       sync.Mutex
	sessions []core.Session
	pingErr  error
}

func (m *memStore) Create(_ context.Context, ownerID string, d core.SessionDraft) (core.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.Title == "store-fail" {
		return core.Session{}, errors.New("connection refused")
	}
	s := core.Session{
		ID:              fmt.Sprintf("s-%d", len(m.sessions)+1),
		OwnerID:         ownerID,
		Title:           d.Title,
		Category:        d.Category,
		Status:          d.Status,
		Priority:        d.Priority,
		DurationMinutes: d.DurationMinutes,
		Tags:            d.Tags,
	}
	m.sessions = append(m.sessions, s)
	return s, nil
}

func (m *memStore) List(_ context.Context, ownerID string, limit int) ([]core.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Session
	for _, s := range m.sessions {
		if s.OwnerID == ownerID && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, RequestTimeout: 10 * time.Second},
		Import: config.ImportConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
			MaxBulkItems:  500,
			CommitTimeout: 5 * time.Second,
			PreviewTTL:    time.Minute,
		},
		Security: config.SecurityConfig{OwnerHeader: ownerHeader, EnableCSP: true},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *memStore) {
	t.Helper()
	store := &memStore{}
	svc := core.NewService(store, nil, core.ServiceConfig{
		MaxFileSize:   cfg.Import.MaxFileSize,
		MaxConcurrent: cfg.Import.MaxConcurrent,
		MaxWaitTime:   cfg.Import.MaxWaitTime,
		MaxBulkItems:  cfg.Import.MaxBulkItems,
		CommitTimeout: cfg.Import.CommitTimeout,
		PreviewTTL:    cfg.Import.PreviewTTL,
	})
	srv := NewServer(svc, store, cfg)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, store
}

func do(t *testing.T, srv *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if req.Header.Get(ownerHeader) == "" {
		req.Header.Set(ownerHeader, "owner-1")
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, fileName, content, format string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	part.Write([]byte(content))
	if format != "" {
		mw.WriteField("format", format)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import/preview", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, path string, v any) *http.Request {
	data, _ := json.Marshal(v)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func previewFile(t *testing.T, srv *Server) PreviewResponse {
	t.Helper()
	rec := do(t, srv, uploadRequest(t, "sessions.csv", reviewCSV, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d, body = %s", rec.Code, rec.Body.String())
	}
	return decode[PreviewResponse](t, rec)
}

func TestPreview_ReturnsSummaryAndRows(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	p := previewFile(t, srv)

	want := core.ImportSummary{Total: 4, Successful: 3, Failed: 1, Warnings: 2, Duplicates: 1}
	if diff := cmp.Diff(want, p.Summary); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
	if p.Format != core.FormatCSV {
		t.Errorf("Format = %q, want %q", p.Format, core.FormatCSV)
	}
	if len(p.Rows) != 4 || !p.Rows[3].IsDuplicate {
		t.Errorf("rows = %+v, want row 4 flagged as duplicate", p.Rows)
	}
	if p.ReviewURL != "/import/"+p.ImportID {
		t.Errorf("ReviewURL = %q", p.ReviewURL)
	}
}

func TestPreview_Errors(t *testing.T) {
	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unparsable json",
			req:        func(t *testing.T) *http.Request { return uploadRequest(t, "s.json", `{"nope":1}`, "") },
			wantStatus: http.StatusBadRequest,
			wantCode:   "FILE003",
		},
		{
			name:       "unsupported format",
			req:        func(t *testing.T) *http.Request { return uploadRequest(t, "s.txt", "hello", "yaml") },
			wantStatus: http.StatusBadRequest,
			wantCode:   "FILE002",
		},
		{
			name:       "empty file",
			req:        func(t *testing.T) *http.Request { return uploadRequest(t, "s.csv", "", "") },
			wantStatus: http.StatusBadRequest,
			wantCode:   "FILE005",
		},
		{
			name: "no file part",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/import/preview", strings.NewReader("x"))
				req.Header.Set("Content-Type", "text/plain")
				return req
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, testConfig())
			rec := do(t, srv, tt.req(t))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if got := decode[ErrorResponse](t, rec).Code; got != tt.wantCode {
					t.Errorf("code = %q, want %q", got, tt.wantCode)
				}
			}
		})
	}
}

func TestPreview_FileTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Import.MaxFileSize = 64
	srv, _ := newTestServer(t, cfg)

	rec := do(t, srv, uploadRequest(t, "s.csv", reviewCSV, ""))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusRequestEntityTooLarge, rec.Body.String())
	}
	if got := decode[ErrorResponse](t, rec).Code; got != "FILE001" {
		t.Errorf("code = %q, want FILE001", got)
	}
}

func TestCommit_WritesNonErrorRowsOnce(t *testing.T) {
	srv, store := newTestServer(t, testConfig())
	p := previewFile(t, srv)

	rec := do(t, srv, jsonRequest(http.MethodPost, "/api/import/"+p.ImportID+"/commit",
		core.CommitOptions{SkipDuplicates: true}))
	if rec.Code != http.StatusOK {
		t.Fatalf("commit status = %d, body = %s", rec.Code, rec.Body.String())
	}

	outcome := decode[core.BulkOutcome](t, rec)
	if outcome.TotalAttempted != 2 || outcome.TotalCreated != 2 || outcome.TotalFailed != 0 {
		t.Errorf("outcome totals = %d/%d/%d, want 2/2/0",
			outcome.TotalAttempted, outcome.TotalCreated, outcome.TotalFailed)
	}
	if len(store.sessions) != 2 {
		t.Errorf("stored %d sessions, want 2", len(store.sessions))
	}

	// A committed preview is gone.
	rec = do(t, srv, httptest.NewRequest(http.MethodPost, "/api/import/"+p.ImportID+"/commit", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second commit status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if got := decode[ErrorResponse](t, rec).Code; got != "IMP002" {
		t.Errorf("code = %q, want IMP002", got)
	}
}

func TestCommit_OtherOwnerCannotSeePreview(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())
	p := previewFile(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/api/import/"+p.ImportID+"/commit", nil)
	req.Header.Set(ownerHeader, "owner-2")
	if rec := do(t, srv, req); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestImportReport(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())
	p := previewFile(t, srv)

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, p.ReportURL, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, p.ImportID) {
		t.Errorf("Content-Disposition = %q, want import id", cd)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("report has %d lines, want header + 4 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "_row,_status") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[3], "Title is required") {
		t.Errorf("row 3 = %q, want title error", lines[3])
	}
}

func TestReviewPage(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	csv := "title,category,duration\n<b>Bold</b>,school,30\n"
	rec := do(t, srv, uploadRequest(t, "x.csv", csv, ""))
	p := decode[PreviewResponse](t, rec)

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/import/"+p.ImportID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "&lt;b&gt;Bold&lt;/b&gt;") {
		t.Error("title should be HTML-escaped")
	}
	if strings.Contains(body, "<b>Bold</b>") {
		t.Error("raw title must not appear in the page")
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestReviewPage_NotFoundRendersHTML(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/import/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if !strings.Contains(rec.Body.String(), `role="alert"`) || !strings.Contains(rec.Body.String(), "IMP002") {
		t.Errorf("body = %q, want HTML alert with code", rec.Body.String())
	}
}

func TestDownloadSample(t *testing.T) {
	tests := []struct {
		format      string
		wantStatus  int
		wantType    string
		wantContent string
	}{
		{"csv", http.StatusOK, "text/csv", "title,description,category"},
		{"JSON", http.StatusOK, "application/json", `"sessions"`},
		{"xml", http.StatusOK, "application/xml", "<sessions>"},
		{"yaml", http.StatusBadRequest, "application/json", "FILE002"},
	}

	srv, _ := newTestServer(t, testConfig())
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/import/sample/"+tt.format, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.wantType)
			}
			if !strings.Contains(rec.Body.String(), tt.wantContent) {
				t.Errorf("body missing %q", tt.wantContent)
			}
		})
	}
}

func draft(title string) core.SessionDraft {
	return core.SessionDraft{Title: title, Category: core.CategorySchool, DurationMinutes: 30}
}

func TestBulkCreate_PartialSuccess(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	rec := do(t, srv, jsonRequest(http.MethodPost, "/api/sessions/bulk", core.BulkRequest{
		Drafts: []core.SessionDraft{draft("one"), draft("store-fail"), draft("two")},
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	outcome := decode[core.BulkOutcome](t, rec)
	if outcome.TotalCreated != 2 || outcome.TotalFailed != 1 {
		t.Errorf("created/failed = %d/%d, want 2/1", outcome.TotalCreated, outcome.TotalFailed)
	}
	if len(outcome.Failed) != 1 || outcome.Failed[0].Index != 1 {
		t.Errorf("Failed = %+v, want index 1", outcome.Failed)
	}
}

func TestBulkCreate_WithRecurrence(t *testing.T) {
	srv, store := newTestServer(t, testConfig())

	base := draft("Daily review")
	base.ScheduledFor = "2024-01-01T08:00:00Z"
	body := map[string]any{
		"drafts":     []core.SessionDraft{base},
		"recurrence": map[string]any{"frequency": "daily", "endType": "count", "endCount": 3},
	}

	rec := do(t, srv, jsonRequest(http.MethodPost, "/api/sessions/bulk", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := decode[core.BulkOutcome](t, rec).TotalCreated; got != 3 {
		t.Errorf("TotalCreated = %d, want 3", got)
	}
	if len(store.sessions) != 3 {
		t.Errorf("stored %d sessions, want 3", len(store.sessions))
	}
}

func TestBulkCreate_OverLimit(t *testing.T) {
	srv, store := newTestServer(t, testConfig())

	drafts := make([]core.SessionDraft, core.MaxBulkItems+1)
	for i := range drafts {
		drafts[i] = draft(fmt.Sprintf("s%d", i))
	}

	rec := do(t, srv, jsonRequest(http.MethodPost, "/api/sessions/bulk", core.BulkRequest{Drafts: drafts}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := decode[ErrorResponse](t, rec).Code; got != "IMP001" {
		t.Errorf("code = %q, want IMP001", got)
	}
	if len(store.sessions) != 0 {
		t.Errorf("stored %d sessions, want 0", len(store.sessions))
	}
}

func TestBulkCreate_MalformedBody(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/bulk", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	if rec := do(t, srv, req); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestExpand(t *testing.T) {
	srv, store := newTestServer(t, testConfig())

	base := draft("Spanish")
	base.ScheduledFor = "2024-01-01T18:00:00Z" // Monday
	body := map[string]any{
		"draft": base,
		"recurrence": map[string]any{
			"frequency":  "weekly",
			"daysOfWeek": []int{1, 3},
			"endType":    "count",
			"endCount":   4,
		},
	}

	rec := do(t, srv, jsonRequest(http.MethodPost, "/api/sessions/expand", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decode[ExpandResponse](t, rec)
	var got []string
	for _, o := range resp.Occurrences {
		got = append(got, o.ScheduledFor)
	}
	want := []string{
		"2024-01-01T18:00:00Z",
		"2024-01-03T18:00:00Z",
		"2024-01-08T18:00:00Z",
		"2024-01-10T18:00:00Z",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("occurrences mismatch (-want +got):\n%s", diff)
	}
	if resp.Count != 4 {
		t.Errorf("Count = %d, want 4", resp.Count)
	}
	if len(store.sessions) != 0 {
		t.Error("expand must not write sessions")
	}
}

func TestExpand_InvalidRule(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	body := map[string]any{
		"draft":      draft("x"),
		"recurrence": map[string]any{"frequency": "hourly"},
	}
	rec := do(t, srv, jsonRequest(http.MethodPost, "/api/sessions/expand", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := decode[ErrorResponse](t, rec).Code; got != "VAL002" {
		t.Errorf("code = %q, want VAL002", got)
	}
}

func TestListSessions_ScopedToOwner(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	do(t, srv, jsonRequest(http.MethodPost, "/api/sessions/bulk", core.BulkRequest{
		Drafts: []core.SessionDraft{draft("a"), draft("b")},
	}))
	other := jsonRequest(http.MethodPost, "/api/sessions/bulk", core.BulkRequest{Drafts: []core.SessionDraft{draft("c")}})
	other.Header.Set(ownerHeader, "owner-2")
	do(t, srv, other)

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/sessions?limit=1", nil))
	resp := decode[struct {
		Sessions []core.Session `json:"sessions"`
		Count    int            `json:"count"`
	}](t, rec)
	if resp.Count != 1 || resp.Sessions[0].Title != "a" {
		t.Errorf("sessions = %+v, want only owner-1's first", resp.Sessions)
	}
}

func TestMissingOwnerRejected(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAPIKeyRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	srv, _ := newTestServer(t, cfg)

	if rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/sessions", nil)); rec.Code != http.StatusUnauthorized {
		t.Errorf("without key: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	req.Header.Set("X-API-Key", "secret")
	if rec := do(t, srv, req); rec.Code != http.StatusOK {
		t.Errorf("with key: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealth(t *testing.T) {
	srv, store := newTestServer(t, testConfig())

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("CSP header missing")
	}

	store.pingErr = errors.New("db down")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.allow("1.2.3.4") || !rl.allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("1.2.3.4") {
		t.Error("third request in window should be rejected")
	}
	if !rl.allow("5.6.7.8") {
		t.Error("other IPs have their own budget")
	}

	now = now.Add(time.Minute + time.Second)
	if !rl.allow("1.2.3.4") {
		t.Error("budget should reset after the window")
	}

	now = now.Add(3 * time.Minute)
	rl.sweep()
	if len(rl.visitors) != 0 {
		t.Errorf("sweep left %d visitors, want 0", len(rl.visitors))
	}
}

func TestImportRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 100, ImportLimit: 1}
	srv, _ := newTestServer(t, cfg)

	first := do(t, srv, jsonRequest(http.MethodPost, "/api/sessions/bulk", core.BulkRequest{Drafts: []core.SessionDraft{draft("a")}}))
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d, want %d", first.Code, http.StatusOK)
	}
	second := do(t, srv, jsonRequest(http.MethodPost, "/api/sessions/bulk", core.BulkRequest{Drafts: []core.SessionDraft{draft("b")}}))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want %d", second.Code, http.StatusTooManyRequests)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}

	// Reads are only subject to the general limit.
	if rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/sessions", nil)); rec.Code != http.StatusOK {
		t.Errorf("list status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrImportNotFound, http.StatusNotFound},
		{core.ErrTooManyImports, http.StatusServiceUnavailable},
		{fmt.Errorf("wrap: %w", core.ErrFileTooLarge), http.StatusRequestEntityTooLarge},
		{&core.LimitError{Count: 501, Max: 500}, http.StatusBadRequest},
		{&core.ParseError{Format: core.FormatCSV, Reason: "no rows"}, http.StatusBadRequest},
		{&core.DateError{Value: "someday"}, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
