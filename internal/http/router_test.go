package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-news-backend/internal/config"
	"github.com/tbourn/go-news-backend/internal/domain"
	"github.com/tbourn/go-news-backend/internal/http/middleware"
	"github.com/tbourn/go-news-backend/internal/repo"
	"github.com/tbourn/go-news-backend/internal/seed"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := seed.Run(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close(db) })
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:    "/api",
		RateRPS:        0,
		RateBurst:      1,
		IdempotencyTTL: time.Hour,
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newTestServer(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), cfg)
	return Handler(r)
}

func send(h http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

type errBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

type articlesBody struct {
	Articles []domain.ArticleSummary `json:"articles"`
}

type articleBody struct {
	Article domain.Article `json:"article"`
}

type commentBody struct {
	Comment domain.Comment `json:"comment"`
}

func TestRouter_Topics_Users(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := send(h, http.MethodGet, "/api/topics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/topics = %d", w.Code)
	}
	topics := decode[struct {
		Topics []domain.Topic `json:"topics"`
	}](t, w)
	if len(topics.Topics) != 3 {
		t.Fatalf("topics = %d, want 3", len(topics.Topics))
	}

	w = send(h, http.MethodGet, "/api/users", "")
	users := decode[struct {
		Users []domain.User `json:"users"`
	}](t, w)
	if w.Code != http.StatusOK || len(users.Users) != 4 {
		t.Fatalf("GET /api/users = %d, %d users", w.Code, len(users.Users))
	}
	if !strings.Contains(w.Body.String(), "\n  \"users\"") {
		t.Fatalf("want two-space indented body, got %q", w.Body.String())
	}
}

func TestRouter_ListArticles_Filters(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := send(h, http.MethodGet, "/api/articles", "")
	all := decode[articlesBody](t, w)
	if w.Code != http.StatusOK || len(all.Articles) != 12 {
		t.Fatalf("GET /api/articles = %d, %d rows", w.Code, len(all.Articles))
	}
	for i := 1; i < len(all.Articles); i++ {
		if all.Articles[i].CreatedAt.After(all.Articles[i-1].CreatedAt) {
			t.Fatalf("default order not created_at desc at %d", i)
		}
	}

	w = send(h, http.MethodGet, "/api/articles?topic=cats", "")
	cats := decode[articlesBody](t, w)
	if len(cats.Articles) != 1 || cats.Articles[0].Topic != "cats" {
		t.Fatalf("topic=cats: %+v", cats.Articles)
	}
	if cats.Articles[0].CommentCount != 2 {
		t.Fatalf("comment_count = %d, want 2", cats.Articles[0].CommentCount)
	}

	// Unknown topics are an empty listing, not an error.
	w = send(h, http.MethodGet, "/api/articles?topic=k", "")
	if w.Code != http.StatusOK {
		t.Fatalf("topic=k = %d", w.Code)
	}
	if empty := decode[articlesBody](t, w); len(empty.Articles) != 0 {
		t.Fatalf("topic=k rows = %d", len(empty.Articles))
	}

	w = send(h, http.MethodGet, "/api/articles?order=asc&sort_by=author", "")
	byAuthor := decode[articlesBody](t, w)
	if n := len(byAuthor.Articles); n != 12 ||
		byAuthor.Articles[0].Author != "butter_bridge" ||
		byAuthor.Articles[n-1].Author != "rogersop" {
		t.Fatalf("author asc: %+v", byAuthor.Articles)
	}

	w = send(h, http.MethodGet, "/api/articles?order=not-a-value", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("bad order = %d", w.Code)
	}
	if e := decode[errBody](t, w); e.Code != "invalid_query_parameter" || e.Error == "" {
		t.Fatalf("bad order body = %+v", e)
	}

	w = send(h, http.MethodGet, "/api/articles?sort_by=votes%3BDROP%20TABLE%20articles", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("injected sort_by = %d", w.Code)
	}
	if w = send(h, http.MethodGet, "/api/articles", ""); len(decode[articlesBody](t, w).Articles) != 12 {
		t.Fatal("articles table damaged")
	}
}

func TestRouter_GetAndPatchArticle(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := send(h, http.MethodGet, "/api/articles/1", "")
	got := decode[articleBody](t, w)
	if w.Code != http.StatusOK || got.Article.ArticleID != 1 || got.Article.Votes != 100 {
		t.Fatalf("GET article 1 = %d %+v", w.Code, got.Article)
	}

	w = send(h, http.MethodPatch, "/api/articles/1", `{"inc_votes":2}`)
	if w.Code != http.StatusOK || decode[articleBody](t, w).Article.Votes != 102 {
		t.Fatalf("inc 2 = %d %s", w.Code, w.Body.String())
	}
	w = send(h, http.MethodPatch, "/api/articles/1", `{"inc_votes":-5}`)
	if w.Code != http.StatusOK || decode[articleBody](t, w).Article.Votes != 97 {
		t.Fatalf("inc -5 = %d %s", w.Code, w.Body.String())
	}

	w = send(h, http.MethodPatch, "/api/articles/1", `{"inc_votes":"many"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric inc_votes = %d", w.Code)
	}

	w = send(h, http.MethodPatch, "/api/articles/999", `{"inc_votes":1}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("patch missing article = %d", w.Code)
	}
}

func TestRouter_MalformedIDs(t *testing.T) {
	h := newTestServer(t, testConfig())

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/api/articles/abc", "", http.StatusNotFound},
		{http.MethodPatch, "/api/articles/abc", `{"inc_votes":1}`, http.StatusBadRequest},
		{http.MethodGet, "/api/articles/abc/comments", "", http.StatusBadRequest},
		{http.MethodPost, "/api/articles/abc/comments", `{"username":"lurker","body":"x"}`, http.StatusBadRequest},
		{http.MethodDelete, "/api/comments/abc", "", http.StatusBadRequest},
		{http.MethodGet, "/api/articles/0", "", http.StatusNotFound},
		{http.MethodPatch, "/api/articles/-1", `{"inc_votes":1}`, http.StatusBadRequest},
		{http.MethodGet, "/api/articles/0/comments", "", http.StatusBadRequest},
		{http.MethodDelete, "/api/comments/-5", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := send(h, tc.method, tc.path, tc.body)
		if w.Code != tc.want {
			t.Errorf("%s %s = %d, want %d", tc.method, tc.path, w.Code, tc.want)
		}
	}
}

func TestRouter_Comments(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := send(h, http.MethodGet, "/api/articles/1/comments", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET comments = %d", w.Code)
	}
	list := decode[struct {
		Comments []map[string]any `json:"comments"`
	}](t, w)
	if len(list.Comments) != 11 {
		t.Fatalf("comments on 1 = %d, want 11", len(list.Comments))
	}
	if _, ok := list.Comments[0]["article_id"]; ok {
		t.Fatal("comment listing must not carry article_id")
	}

	w = send(h, http.MethodGet, "/api/articles/2/comments", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("article without comments = %d", w.Code)
	}

	w = send(h, http.MethodPost, "/api/articles/2/comments", `{"username":"lurker","body":"first!"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST comment = %d %s", w.Code, w.Body.String())
	}
	created := decode[commentBody](t, w).Comment
	if created.ArticleID != 2 || created.Author != "lurker" || created.Body != "first!" || created.Votes != 0 {
		t.Fatalf("created = %+v", created)
	}

	w = send(h, http.MethodPost, "/api/articles/2/comments", `{"username":"nobody","body":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown username = %d", w.Code)
	}
	w = send(h, http.MethodPost, "/api/articles/2/comments", `{"username":"lurker"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing body = %d", w.Code)
	}
	w = send(h, http.MethodPost, "/api/articles/2/comments", `{"username":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("broken json = %d", w.Code)
	}

	w = send(h, http.MethodDelete, "/api/comments/1", "")
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("DELETE = %d body=%q", w.Code, w.Body.String())
	}
	w = send(h, http.MethodDelete, "/api/comments/1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("second DELETE = %d", w.Code)
	}
}

func TestRouter_PostComment_IdempotentReplay(t *testing.T) {
	h := newTestServer(t, testConfig())
	body := `{"username":"rogersop","body":"once only"}`

	w1 := send(h, http.MethodPost, "/api/articles/3/comments", body, middleware.HeaderIdempotencyKey, "retry-abc-1")
	if w1.Code != http.StatusCreated {
		t.Fatalf("first POST = %d %s", w1.Code, w1.Body.String())
	}
	if w1.Header().Get(middleware.HeaderIdempotencyReplayed) != "" {
		t.Fatal("first POST must not be flagged as replay")
	}

	w2 := send(h, http.MethodPost, "/api/articles/3/comments", body, middleware.HeaderIdempotencyKey, "retry-abc-1")
	if w2.Code != http.StatusCreated {
		t.Fatalf("replay POST = %d", w2.Code)
	}
	if w2.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" {
		t.Fatal("replay header missing")
	}
	if a, b := decode[commentBody](t, w1).Comment.CommentID, decode[commentBody](t, w2).Comment.CommentID; a != b {
		t.Fatalf("replay produced a new comment: %d vs %d", a, b)
	}

	w := send(h, http.MethodGet, "/api/articles/3/comments", "")
	list := decode[struct {
		Comments []map[string]any `json:"comments"`
	}](t, w)
	if len(list.Comments) != 3 {
		t.Fatalf("comments on 3 = %d, want 3", len(list.Comments))
	}

	w = send(h, http.MethodPost, "/api/articles/3/comments", body, middleware.HeaderIdempotencyKey, "bad key!")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid key = %d", w.Code)
	}
}

func TestRouter_UnknownRoutesAndMethods(t *testing.T) {
	h := newTestServer(t, testConfig())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/nope"},
		{http.MethodPost, "/api/topics"},
		{http.MethodPut, "/api/articles/1"},
		{http.MethodGet, "/not-an-endpoint"},
	} {
		w := send(h, tc.method, tc.path, "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s %s = %d", tc.method, tc.path, w.Code)
		}
		if e := decode[errBody](t, w); e.Code != "route_not_found" || e.RequestID == "" {
			t.Fatalf("%s %s body = %+v", tc.method, tc.path, e)
		}
	}
}

func TestRouter_TrailingSlash(t *testing.T) {
	h := newTestServer(t, testConfig())
	w := send(h, http.MethodGet, "/api/articles/", "")
	if w.Code != http.StatusOK || len(decode[articlesBody](t, w).Articles) != 12 {
		t.Fatalf("GET /api/articles/ = %d", w.Code)
	}
	if w := send(h, http.MethodGet, "/api/", ""); w.Code != http.StatusOK {
		t.Fatalf("GET /api/ = %d", w.Code)
	}
}

func TestRouter_EndpointsHealthMetrics(t *testing.T) {
	h := newTestServer(t, testConfig())

	for _, p := range []string{"/", "/api", "/api/endpoints"} {
		w := send(h, http.MethodGet, p, "")
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "GET /api/articles") {
			t.Fatalf("GET %s = %d %s", p, w.Code, w.Body.String())
		}
	}

	w := send(h, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	health := decode[struct {
		Status   string `json:"status"`
		Articles int64  `json:"articles"`
	}](t, w)
	if health.Status != "ok" || health.Articles != 12 {
		t.Fatalf("health = %+v", health)
	}

	w = send(h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("GET /metrics = %d", w.Code)
	}
}

func TestRouter_CORSAllowAll(t *testing.T) {
	h := newTestServer(t, testConfig())
	w := send(h, http.MethodGet, "/api/topics", "")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("ACAO = %q, want *", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID not echoed")
	}
}

func TestRouter_CORSWithOrigins(t *testing.T) {
	cfg := testConfig()
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"https://news.example"}}
	h := newTestServer(t, cfg)

	w := send(h, http.MethodGet, "/api/topics", "", "Origin", "https://news.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://news.example" {
		t.Fatalf("ACAO = %q", got)
	}
	w = send(h, http.MethodGet, "/api/topics", "", "Origin", "https://evil.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin got ACAO %q", got)
	}
}

func TestRouter_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateRPS, cfg.RateBurst = 0.001, 1
	h := newTestServer(t, cfg)

	if w := send(h, http.MethodGet, "/api/topics", ""); w.Code != http.StatusOK {
		t.Fatalf("first = %d", w.Code)
	}
	w := send(h, http.MethodGet, "/api/topics", "")
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") == "" {
		t.Fatalf("second = %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct{ prefix, path string }{
		{"", "/ping"},
		{"/", "/ping"},
		{"/v2", "/v2/ping"},
	} {
		r := gin.New()
		groupWithPrefix(r, tc.prefix).GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("prefix %q: GET %s = %d", tc.prefix, tc.path, w.Code)
		}
	}
}

func TestRegisterRoutes_RootBasePath(t *testing.T) {
	cfg := testConfig()
	cfg.APIBasePath = "/"
	h := newTestServer(t, cfg)
	if w := send(h, http.MethodGet, "/articles/5", ""); w.Code != http.StatusOK {
		t.Fatalf("GET /articles/5 = %d", w.Code)
	}
}

func Test_repoShims_Proxy(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	arts, err := articleRepoShim{}.ListArticles(ctx, db, domain.DefaultFilter())
	if err != nil || len(arts) != 12 {
		t.Fatalf("ListArticles = %d, %v", len(arts), err)
	}
	if a, err := (articleRepoShim{}).GetArticle(ctx, db, 3); err != nil || a.ArticleID != 3 {
		t.Fatalf("GetArticle = %+v, %v", a, err)
	}
	one := 1
	if a, err := (articleRepoShim{}).AdjustArticleVotes(ctx, db, 3, &one); err != nil || a.Votes != 1 {
		t.Fatalf("AdjustArticleVotes = %+v, %v", a, err)
	}
	if n, latest, err := (articleRepoShim{}).ArticleStats(ctx, db); err != nil || n != 12 || latest == nil {
		t.Fatalf("ArticleStats = %d %v %v", n, latest, err)
	}

	user, body := "lurker", "shim"
	cm, err := commentRepoShim{}.InsertComment(ctx, db, 3, &user, &body)
	if err != nil {
		t.Fatalf("InsertComment: %v", err)
	}
	if got, err := (commentRepoShim{}).GetComment(ctx, db, cm.CommentID); err != nil || got.Body != "shim" {
		t.Fatalf("GetComment = %+v, %v", got, err)
	}
	if list, err := (commentRepoShim{}).ListComments(ctx, db, 3); err != nil || len(list) != 3 {
		t.Fatalf("ListComments = %d, %v", len(list), err)
	}
	if _, err := (commentRepoShim{}).CreateIdempotency(ctx, db, 3, "k1", cm.CommentID, http.StatusCreated, time.Hour); err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec, err := (commentRepoShim{}).GetIdempotency(ctx, db, 3, "k1", time.Now()); err != nil || rec == nil || rec.CommentID != cm.CommentID {
		t.Fatalf("GetIdempotency = %+v, %v", rec, err)
	}
	if err := (commentRepoShim{}).DeleteComment(ctx, db, cm.CommentID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}

	if ts, err := (catalogRepoShim{}).ListTopics(ctx, db); err != nil || len(ts) != 3 {
		t.Fatalf("ListTopics = %d, %v", len(ts), err)
	}
	if us, err := (catalogRepoShim{}).ListUsers(ctx, db); err != nil || len(us) != 4 {
		t.Fatalf("ListUsers = %d, %v", len(us), err)
	}
}
