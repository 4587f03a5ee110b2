package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/articlebias/dataset/internal/biz"
	"github.com/articlebias/dataset/internal/conf"
	"github.com/articlebias/dataset/internal/service"
)

type mockArticleRepo struct {
	articles []*biz.Article
	nextID   int64
	schema   bool
}

func (m *mockArticleRepo) Create(ctx context.Context, a *biz.Article) (*biz.Article, error) {
	m.nextID++
	stored := *a
	stored.ID = m.nextID
	m.articles = append(m.articles, &stored)
	return &stored, nil
}

func (m *mockArticleRepo) List(ctx context.Context, offset, limit int) ([]*biz.Article, error) {
	if offset > len(m.articles) {
		offset = len(m.articles)
	}
	end := offset + limit
	if end > len(m.articles) {
		end = len(m.articles)
	}
	return m.articles[offset:end], nil
}

func (m *mockArticleRepo) FetchAll(ctx context.Context) ([]*biz.Article, error) {
	return m.articles, nil
}

func (m *mockArticleRepo) EnsureSchema(ctx context.Context) (bool, error) {
	if m.schema {
		return false, nil
	}
	m.schema = true
	return true, nil
}

func (m *mockArticleRepo) Health(ctx context.Context) biz.SchemaStatus {
	return biz.SchemaStatus{Reachable: true, SchemaPresent: m.schema}
}

func newTestServer(t *testing.T, driver string) *khttp.Server {
	t.Helper()
	uc := biz.NewArticleUseCase(&mockArticleRepo{}, log.DefaultLogger)
	svc := service.NewArticleService(uc, log.DefaultLogger)
	return NewHTTPServer(
		&conf.Server{Http: &conf.HTTP{Addr: "127.0.0.1:0", Timeout: "5s"}},
		&conf.Data{Database: &conf.Database{Driver: driver, Source: ""}},
		svc,
		log.DefaultLogger,
	)
}

func doJSON(t *testing.T, srv *khttp.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req = httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestArticleLifecycle(t *testing.T) {
	srv := newTestServer(t, "sqlite")

	// First create: all flags default false, id 1.
	rec := doJSON(t, srv, "POST", "/articles/", `{"url":"http://a","news_article":"text","summary":"sum"}`)
	if rec.Code != 200 {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var first biz.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	if first.ID != 1 {
		t.Errorf("first id = %d, want 1", first.ID)
	}
	if first.BiasReligious || first.BiasCultural || first.BiasLanguage || first.BiasGender || first.BiasProGov || first.BiasAntiGov {
		t.Errorf("first article has bias flags set: %+v", first)
	}

	// Second create: bias_gender sticks, id 2.
	rec = doJSON(t, srv, "POST", "/articles/", `{"url":"http://b","news_article":"text","summary":"sum","bias_gender":true}`)
	var second biz.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	if second.ID != 2 || !second.BiasGender {
		t.Errorf("second article = %+v, want id 2 with bias_gender", second)
	}

	// Paginated list.
	rec = doJSON(t, srv, "GET", "/articles/?limit=1", "")
	if rec.Code != 200 {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []*biz.Article
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding list response: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list with limit=1 returned %d articles", len(list))
	}

	// CSV export: header + 2 rows.
	rec = doJSON(t, srv, "GET", "/articles/csv", "")
	if rec.Code != 200 {
		t.Fatalf("csv status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=articles.csv" {
		t.Errorf("csv Content-Disposition = %q", got)
	}
	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("csv lines = %d, want 3", len(lines))
	}
	if strings.Contains(rec.Body.String(), ",1,") && !strings.Contains(rec.Body.String(), "true") {
		t.Error("csv rendered booleans as integers")
	}

	// Dataset export: every column has two entries.
	rec = doJSON(t, srv, "GET", "/articles/dataset", "")
	var ds map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &ds); err != nil {
		t.Fatalf("decoding dataset response: %v", err)
	}
	var gender []bool
	if err := json.Unmarshal(ds["bias_gender"], &gender); err != nil {
		t.Fatalf("decoding bias_gender column: %v", err)
	}
	if len(gender) != 2 || gender[0] || !gender[1] {
		t.Errorf("bias_gender column = %v, want [false true]", gender)
	}

	// Parquet export: binary attachment with content.
	rec = doJSON(t, srv, "GET", "/articles/parquet", "")
	if rec.Code != 200 || rec.Body.Len() == 0 {
		t.Errorf("parquet status = %d, body len = %d", rec.Code, rec.Body.Len())
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=articles.parquet" {
		t.Errorf("parquet Content-Disposition = %q", got)
	}
}

func TestEmptyExports(t *testing.T) {
	srv := newTestServer(t, "sqlite")

	rec := doJSON(t, srv, "GET", "/articles/csv", "")
	if rec.Code != 200 {
		t.Fatalf("csv status = %d", rec.Code)
	}
	if lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n"); len(lines) != 1 {
		t.Errorf("empty csv lines = %d, want header only", len(lines))
	}

	rec = doJSON(t, srv, "GET", "/articles/dataset", "")
	var ds map[string][]any
	if err := json.Unmarshal(rec.Body.Bytes(), &ds); err != nil {
		t.Fatalf("decoding dataset response: %v", err)
	}
	if data, ok := ds["data"]; !ok || len(data) != 0 {
		t.Errorf(`empty dataset = %s, want {"data":[]}`, rec.Body.String())
	}

	rec = doJSON(t, srv, "GET", "/articles/parquet", "")
	if rec.Code != 200 || rec.Body.Len() == 0 {
		t.Errorf("empty parquet status = %d, body len = %d", rec.Code, rec.Body.Len())
	}
}

func TestValidationErrorBody(t *testing.T) {
	srv := newTestServer(t, "sqlite")

	rec := doJSON(t, srv, "POST", "/articles/", `{"summary":"sum"}`)
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body.Reason != "VALIDATION_ERROR" {
		t.Errorf("reason = %q, want VALIDATION_ERROR", body.Reason)
	}
	if !strings.Contains(body.Message, "url") {
		t.Errorf("message %q does not name the missing field", body.Message)
	}
}

func TestInitializeRouteOnlyForPostgres(t *testing.T) {
	embedded := newTestServer(t, "sqlite")
	rec := doJSON(t, embedded, "POST", "/initialize-database", "")
	if rec.Code != 404 {
		t.Errorf("initialize-database on embedded variant status = %d, want 404", rec.Code)
	}

	networked := newTestServer(t, "postgres")
	rec = doJSON(t, networked, "POST", "/initialize-database", "")
	if rec.Code != 200 {
		t.Fatalf("initialize-database status = %d", rec.Code)
	}
	var reply service.InitializeReply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decoding initialize response: %v", err)
	}
	if reply.Message == "" {
		t.Error("initialize-database returned empty message")
	}

	rec = doJSON(t, networked, "POST", "/initialize-database", "")
	var again service.InitializeReply
	if err := json.Unmarshal(rec.Body.Bytes(), &again); err != nil {
		t.Fatalf("decoding second initialize response: %v", err)
	}
	if !strings.Contains(again.Message, "already") {
		t.Errorf("second initialize message = %q, want already-initialized wording", again.Message)
	}
}

func TestHealthRoute(t *testing.T) {
	srv := newTestServer(t, "postgres")

	rec := doJSON(t, srv, "GET", "/health", "")
	if rec.Code != 200 {
		t.Fatalf("health status = %d", rec.Code)
	}
	var h service.HealthReply
	if err := json.Unmarshal(rec.Body.Bytes(), &h); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if h.Status != "ok" {
		t.Errorf("health status field = %q, want ok", h.Status)
	}
	if h.DBInitialized {
		t.Error("db_initialized = true before schema creation")
	}
}
