package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/farmdirect/farmdirect-backend/internal/config"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("middleware-secret")
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), I18nMiddleware())
	r.Use(handlers...)
	r.GET("/", func(c *gin.Context) {
		id, ok := utils.GetFarmerIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"farmer": id.String(), "ok": ok, "lang": utils.GetLangFromContext(c)})
	})
	return r
}

func do(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := newEngine(AuthRequired())
	farmerID := uuid.New()
	token, err := utils.GenerateJWT(farmerID.String(), "f@example.com", "Farm", utils.RoleFarmer, 1)
	require.NoError(t, err)

	w := do(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Authentication required"}`, w.Body.String())

	w = do(r, map[string]string{"Authorization": "Bearer junk"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	customer, err := utils.GenerateJWT("google-sub", "c@example.com", "C", utils.RoleCustomer, 1)
	require.NoError(t, err)
	w = do(r, map[string]string{"Authorization": "Bearer " + customer})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), farmerID.String())
}

func TestOptionalAuth(t *testing.T) {
	r := newEngine(OptionalAuth())

	w := do(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)

	w = do(r, map[string]string{"Authorization": "Bearer junk"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestI18nAndRequestID(t *testing.T) {
	r := newEngine()

	w := do(r, map[string]string{"Accept-Language": "kn-IN,kn;q=0.9", "X-Request-ID": "abc"})
	assert.Contains(t, w.Body.String(), `"lang":"kn"`)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))

	w = do(r, nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"lang":"en"`)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0.001), 2)
	defer rl.Stop()
	r := newEngine(rl.Middleware())

	assert.Equal(t, http.StatusOK, do(r, nil).Code)
	assert.Equal(t, http.StatusOK, do(r, nil).Code)

	w := do(r, map[string]string{"Accept-Language": "hi"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := do(r, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS(config.FrontendConfig{AllowedOrigins: []string{"http://localhost:5173"}}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
