package apiserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipebox/internal/infrastructure/monitoring"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipebox/internal/infrastructure/security"
	"github.com/alchemorsel/recipebox/pkg/healthcheck"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type APIServerTestSuite struct {
	suite.Suite
	cfg     *config.Config
	cache   *memory.CacheRepository
	limiter *security.RateLimiter
	server  *Server
}

func (suite *APIServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.cfg = &config.Config{
		App: config.AppConfig{Environment: "test", Version: "test"},
		Server: config.ServerConfig{
			APIPort:        0,
			RequestTimeout: 5 * time.Second,
			AllowedOrigins: []string{"https://recipes.example.com"},
			EnableCORS:     true,
		},
		Monitoring: config.MonitoringConfig{EnableMetrics: true, HealthCheckPath: "/health"},
		RateLimit:  config.RateLimitConfig{Enable: true, RequestsPerMin: 60, BurstSize: 2},
	}

	logger := zap.NewNop()
	suite.cache = memory.NewCacheRepository(100, memory.WithCleanupInterval(0))
	suite.limiter = security.NewRateLimiter(suite.cfg.RateLimit)
	auth := security.NewAuthService(config.AuthConfig{
		JWTSecret:     "api-server-test-secret",
		JWTExpiration: time.Hour,
	}, suite.cache, logger)

	mw := middleware.New(suite.cfg, logger, suite.limiter, auth)
	api := handlers.NewAPIHandlers(nil, nil, nil, nil, nil, auth, logger)
	openAPI, err := NewOpenAPIHandler(logger)
	require.NoError(suite.T(), err)

	suite.server, err = NewServer(suite.cfg, logger, mw, api, healthcheck.New("test", logger),
		monitoring.NewMetricsCollector(logger), openAPI)
	require.NoError(suite.T(), err)
}

func (suite *APIServerTestSuite) SetupSubTest() {
	suite.TearDownTest()
	suite.SetupTest()
}

func (suite *APIServerTestSuite) TearDownTest() {
	suite.limiter.Close()
	suite.cache.Close()
}

func (suite *APIServerTestSuite) get(target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	suite.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (suite *APIServerTestSuite) TestRoutes() {
	suite.Run("Health_NoCheckers_ShouldReportHealthy", func() {
		// Act
		rec := suite.get("/health", nil)

		// Assert
		require.Equal(suite.T(), http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(suite.T(), string(healthcheck.StatusHealthy), body["status"])
		assert.NotEmpty(suite.T(), rec.Header().Get("X-Request-ID"))
	})

	suite.Run("OpenAPIJSON_ShouldMirrorEmbeddedDocument", func() {
		// Act
		rec := suite.get("/api/v1/openapi.json", nil)

		// Assert
		require.Equal(suite.T(), http.StatusOK, rec.Code)
		var doc map[string]interface{}
		require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(suite.T(), "3.0.3", doc["openapi"])
		paths, ok := doc["paths"].(map[string]interface{})
		require.True(suite.T(), ok)
		assert.Contains(suite.T(), paths, "/recipes/{id}/favourite")
		assert.Contains(suite.T(), paths, "/meal-plans/week")
	})

	suite.Run("Docs_ShouldServeHTML", func() {
		rec := suite.get("/api/v1/docs", nil)

		assert.Equal(suite.T(), http.StatusOK, rec.Code)
		assert.Contains(suite.T(), rec.Body.String(), "openapi.yaml")
	})

	suite.Run("ProtectedRoute_WithoutToken_ShouldReturn401", func() {
		rec := suite.get("/api/v1/recipes", nil)

		assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
		assert.Equal(suite.T(), "nosniff", rec.Header().Get("X-Content-Type-Options"))
	})

	suite.Run("UnknownRoute_ShouldReturnJSON404", func() {
		rec := suite.get("/api/v1/nope", nil)

		require.Equal(suite.T(), http.StatusNotFound, rec.Code)
		var body handlers.APIResponse
		require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(suite.T(), "NOT_FOUND", body.Error)
	})

	suite.Run("CORS_AllowedOrigin_ShouldEchoOrigin", func() {
		rec := suite.get("/health", map[string]string{"Origin": "https://recipes.example.com"})

		assert.Equal(suite.T(), "https://recipes.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	suite.Run("CORS_UnknownOrigin_ShouldNotEchoOrigin", func() {
		rec := suite.get("/health", map[string]string{"Origin": "https://evil.example.com"})

		assert.Empty(suite.T(), rec.Header().Get("Access-Control-Allow-Origin"))
	})

	suite.Run("RateLimit_BurstExceeded_ShouldReturn429", func() {
		// Arrange
		suite.get("/health", nil)
		suite.get("/health", nil)

		// Act
		rec := suite.get("/health", nil)

		// Assert
		assert.Equal(suite.T(), http.StatusTooManyRequests, rec.Code)
		assert.Equal(suite.T(), "60", rec.Header().Get("Retry-After"))
	})

	suite.Run("Metrics_ShouldExposeRequestCounters", func() {
		// Arrange
		suite.get("/health", nil)

		// Act
		rec := suite.get("/metrics", nil)

		// Assert
		require.Equal(suite.T(), http.StatusOK, rec.Code)
		assert.True(suite.T(), strings.Contains(rec.Body.String(), "http_requests_total"))
	})
}

func TestAPIServerTestSuite(t *testing.T) {
	suite.Run(t, new(APIServerTestSuite))
}
