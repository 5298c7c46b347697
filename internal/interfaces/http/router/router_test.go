package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	quoteapp "github.com/cabinetquote/backend/internal/application/quote"
	"github.com/cabinetquote/backend/internal/infrastructure/cache"
	"github.com/cabinetquote/backend/internal/infrastructure/config"
	"github.com/cabinetquote/backend/internal/infrastructure/idgen"
	"github.com/cabinetquote/backend/internal/infrastructure/persistence"
	"github.com/cabinetquote/backend/internal/interfaces/http/handler"
	"github.com/cabinetquote/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterOptions(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	r.Register(NewDomainGroup("test", "/test"))
	assert.Equal(t, "v2", r.apiVersion)
	assert.Len(t, r.registrars, 1)
}

func TestDomainGroup_RegisterRoutes(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("test", "/test")
	var trail []string
	g.Use(func(c *gin.Context) {
		trail = append(trail, "group")
		c.Next()
	})
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		g.handle(method, "/items/:id", []gin.HandlerFunc{func(c *gin.Context) {
			c.String(http.StatusOK, c.Request.Method+" "+c.Param("id"))
		}})
	}
	g.Group("nested", "/nested").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	r := NewRouter(engine)
	r.Register(g)
	r.Setup()

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/test/items/7", nil))
		assert.Equal(t, http.StatusOK, w.Code, method)
		assert.Equal(t, method+" 7", w.Body.String())
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/nested/ping", nil))
	assert.Equal(t, "pong", w.Body.String())
	assert.Len(t, trail, 6, "group middleware applies to nested routes")

	assert.Equal(t, "test", g.Name())
	assert.Equal(t, "/test", g.Prefix())
}

// newTestServer wires the full HTTP surface over an in-memory sqlite
// database and the in-memory quote cache.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: persistence.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	ids := idgen.NewUUIDGenerator()
	quoteCache := cache.NewInMemoryQuoteCache(time.Minute)
	t.Cleanup(func() { _ = quoteCache.Close() })
	repo := cache.NewCachedQuoteRepository(persistence.NewGormQuoteRepository(db.DB, ids), quoteCache, nil)
	service := quoteapp.NewQuoteService(repo, ids, nil)

	engine := NewEngine(EngineConfig{
		HTTP:        config.HTTPConfig{MaxBodySize: 1 << 16},
		ServiceName: "cabinet-quote-test",
	})
	system := handler.NewSystemHandler("cabinet-quote", "test", db)
	engine.GET("/health", system.Health)

	r := NewRouter(engine)
	r.Register(QuoteRoutes(handler.NewQuoteHandler(service)))
	r.Register(SystemRoutes(system))
	r.Setup()
	return engine
}

type quoteEnvelope struct {
	Success bool                    `json:"success"`
	Data    *quoteapp.QuoteResponse `json:"data"`
}

func call(t *testing.T, engine http.Handler, method, path, body string, wantStatus int) quoteEnvelope {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, wantStatus, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var env quoteEnvelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return env
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestQuoteLifecycle(t *testing.T) {
	engine := newTestServer(t)

	created := call(t, engine, http.MethodPost, "/api/v1/quotes",
		`{"client_name":"Ada","project_name":"Kitchen","initial_spaces":1}`, http.StatusCreated)
	require.NotNil(t, created.Data)
	id := created.Data.ID
	require.NotEmpty(t, id)
	spaceID := created.Data.Spaces[0].ID
	assert.Equal(t, "Space #1", created.Data.Spaces[0].Name)

	base := "/api/v1/quotes/" + id
	call(t, engine, http.MethodPost, base+"/spaces/"+spaceID+"/items", "", http.StatusCreated)
	two := call(t, engine, http.MethodPost, base+"/spaces/"+spaceID+"/items", "", http.StatusCreated)
	assertDecimal(t, "599.98", two.Data.Summary.Subtotal)

	applied := call(t, engine, http.MethodPost, base+"/adjustment",
		`{"type":"discount","percentage":10}`, http.StatusOK)
	require.NotNil(t, applied.Data.Adjustment)
	assertDecimal(t, "539.982", applied.Data.Summary.AdjustedSubtotal)
	assertDecimal(t, "610.1797", applied.Data.Summary.Total.Round(4))

	// The committed figures stay frozen when items change later
	three := call(t, engine, http.MethodPost, base+"/spaces/"+spaceID+"/items", "", http.StatusCreated)
	assertDecimal(t, "899.97", three.Data.Summary.Subtotal)
	assertDecimal(t, "539.982", three.Data.Summary.AdjustedSubtotal)

	fetched := call(t, engine, http.MethodGet, base, "", http.StatusOK)
	assert.Equal(t, "Ada", fetched.Data.Client.ClientName)
	require.Len(t, fetched.Data.Spaces[0].Items, 3)
	assertDecimal(t, "539.982", fetched.Data.Adjustment.AdjustedSubtotal)

	renamed := call(t, engine, http.MethodPatch, base+"/spaces/"+spaceID, `{"name":"Pantry"}`, http.StatusOK)
	assert.Equal(t, "Pantry", renamed.Data.Spaces[0].Name)

	call(t, engine, http.MethodPut, base+"/client", `{"fields":{"unknown":"x"}}`, http.StatusBadRequest)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes?search=ada", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []quoteapp.QuoteListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, 3, list.Data[0].ItemCount)

	call(t, engine, http.MethodDelete, base, "", http.StatusNoContent)
	call(t, engine, http.MethodGet, base, "", http.StatusNotFound)
}

func TestSystemEndpoints(t *testing.T) {
	engine := newTestServer(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestNewEngine_RateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 1)
	t.Cleanup(limiter.Stop)
	engine := NewEngine(EngineConfig{RateLimiter: limiter})
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 2)
	for range 2 {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
