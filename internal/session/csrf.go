package session

import (
	"crypto/rand"
	"encoding/hex"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const (
	csrfFieldKey = "csrf_field"
	csrfTokenKey = "csrf_token"

	// CSRFTokenHeader is accepted in place of the form field.
	CSRFTokenHeader = "X-CSRF-Token"
)

// CSRFMiddleware protects unsafe methods with gorilla/csrf. Set secure to
// false when serving over plain HTTP, otherwise every post fails the
// referer check.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Set(csrfTokenKey, csrf.Token(r))
			c.Set(csrfFieldKey, csrf.TemplateField(r))
			c.Request = r
			c.Next()
		}))
		handler.ServeHTTP(c.Writer, c.Request)

		// The protected handler did not run: the request was rejected.
		if _, ok := c.Get(csrfTokenKey); !ok {
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Form expired</title></head>
<body>
<h1>Form expired</h1>
<p>The form was submitted without a valid token. <a href="/">Reload the table</a> and try again.</p>
</body>
</html>`))
}

// CSRFToken returns the token of the current request, or "" when CSRF is off.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfTokenKey)
}

// CSRFField returns the hidden form input carrying the token, or "" when CSRF is off.
func CSRFField(c *gin.Context) template.HTML {
	if field, ok := c.Get(csrfFieldKey); ok {
		if html, ok := field.(template.HTML); ok {
			return html
		}
	}
	return ""
}

// GenerateSecret returns a random 32 byte key.
func GenerateSecret() ([]byte, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// ParseSecret decodes a hex secret, falling back to the raw bytes.
func ParseSecret(value string) []byte {
	if secret, err := hex.DecodeString(value); err == nil && len(secret) > 0 {
		return secret
	}
	return []byte(value)
}
