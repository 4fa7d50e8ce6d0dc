package session

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-32-bytes-long!!!")

func csrfRouter() *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, CSRFToken(c))
	})
	router.POST("/submit", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	w := httptest.NewRecorder()
	csrfRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	handled := false
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.POST("/submit", func(c *gin.Context) {
		handled = true
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, handled, "handler must not run for a rejected post")
	assert.NotEqual(t, "ok", w.Body.String())
	assert.Contains(t, w.Body.String(), "Form expired")
}

func TestCSRFMiddleware_JSONError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	csrfRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"CSRF token invalid or missing"}`, w.Body.String())
}

func TestCSRFMiddleware_AcceptsValidToken(t *testing.T) {
	router := csrfRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Body.String()
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	form := url.Values{"gorilla.csrf.Token": {token}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestCSRFField_EmptyWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, CSRFField(c))
	assert.Empty(t, CSRFToken(c))
}

func TestSecrets(t *testing.T) {
	a, err := GenerateSecret()
	require.NoError(t, err)
	b, err := GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)

	assert.Equal(t, []byte{0xab, 0xcd}, ParseSecret("abcd"))
	assert.Equal(t, []byte("not-hex!"), ParseSecret("not-hex!"))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "script-src 'none'")
}
