package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newGinTestRouter(level zapcore.Level, skipPaths ...string) (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(level)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core), skipPaths...))
	return router, recorded
}

func doGinRequest(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGinMiddleware_LogsCompletion(t *testing.T) {
	router, recorded := newGinTestRouter(zapcore.InfoLevel)
	router.GET("/api/v1/billing/invoices", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []string{}})
	})

	w := doGinRequest(router, http.MethodGet, "/api/v1/billing/invoices?status=unpaid")
	assert.Equal(t, http.StatusOK, w.Code)

	logs := recorded.FilterMessage("request completed").All()
	require.Len(t, logs, 1)

	fields := logs[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/billing/invoices", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "status=unpaid", fields["query"])
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	router, recorded := newGinTestRouter(zapcore.InfoLevel)
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/conflict", func(c *gin.Context) { c.Status(http.StatusConflict) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	doGinRequest(router, http.MethodGet, "/ok")
	doGinRequest(router, http.MethodGet, "/conflict")
	doGinRequest(router, http.MethodGet, "/boom")

	assert.Len(t, recorded.FilterMessage("request completed").All(), 1)

	rejected := recorded.FilterMessage("request rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, zapcore.WarnLevel, rejected[0].Level)

	failed := recorded.FilterMessage("request failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
}

func TestGinMiddleware_SkipPaths(t *testing.T) {
	router, recorded := newGinTestRouter(zapcore.InfoLevel, "/api/v1/system/health")
	router.GET("/api/v1/system/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/v1/billing/customers", func(c *gin.Context) { c.Status(http.StatusOK) })

	doGinRequest(router, http.MethodGet, "/api/v1/system/health")
	assert.Empty(t, recorded.All())

	doGinRequest(router, http.MethodGet, "/api/v1/billing/customers")
	assert.Len(t, recorded.All(), 1)
}

func TestGinMiddleware_IncludesUserID(t *testing.T) {
	router, recorded := newGinTestRouter(zapcore.InfoLevel)

	// Stands in for the JWT middleware propagating the operator identity
	router.Use(func(c *gin.Context) {
		ctx, _ := WithUserID(c.Request.Context(), zap.NewNop(), "user-42")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	router.POST("/api/v1/billing/payments", func(c *gin.Context) { c.Status(http.StatusCreated) })

	doGinRequest(router, http.MethodPost, "/api/v1/billing/payments")

	logs := recorded.FilterMessage("request completed").All()
	require.Len(t, logs, 1)
	assert.Equal(t, "user-42", logs[0].ContextMap()["user_id"])
}

func TestGinMiddleware_IncludesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/dashboard/stats", func(c *gin.Context) { c.Status(http.StatusOK) })

	doGinRequest(router, http.MethodGet, "/api/v1/dashboard/stats")

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "req-123", logs[0].ContextMap()["request_id"])
}

func TestGinMiddleware_CollectsHandlerErrors(t *testing.T) {
	router, recorded := newGinTestRouter(zapcore.InfoLevel)
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusBadGateway)
	})

	doGinRequest(router, http.MethodGet, "/fail")

	logs := recorded.FilterMessage("request failed").All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].ContextMap(), "errors")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("ledger corrupted")
	})

	w := doGinRequest(router, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.FilterMessage("panic recovered").All()
	require.Len(t, logs, 1)
	assert.Equal(t, "ledger corrupted", logs[0].ContextMap()["error"])
}

func TestRecovery_PassesThroughNormally(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doGinRequest(router, http.MethodGet, "/ok")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorded.All())
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns request-scoped logger when set", func(t *testing.T) {
		core, _ := observer.New(zapcore.InfoLevel)
		scoped := zap.New(core)

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("logger", scoped)

		assert.Same(t, scoped, GetGinLogger(c))
	})

	t.Run("returns no-op logger when unset", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.NotNil(t, GetGinLogger(c))
	})
}
