package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTokenRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(InternalTokenAuth(token))
	router.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doTokenRequest(router *gin.Engine, remoteAddr string, mutate func(*http.Request)) int {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.RemoteAddr = remoteAddr
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Code
}

func TestInternalTokenHeader(t *testing.T) {
	router := newTokenRouter("s3cret")

	code := doTokenRequest(router, "203.0.113.9:1234", func(req *http.Request) {
		req.Header.Set("X-Internal-Token", "s3cret")
	})
	if code != http.StatusOK {
		t.Fatalf("header token rejected: %d", code)
	}

	code = doTokenRequest(router, "203.0.113.9:1234", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer s3cret")
	})
	if code != http.StatusOK {
		t.Fatalf("bearer token rejected: %d", code)
	}
}

func TestInternalTokenQueryFallback(t *testing.T) {
	router := newTokenRouter("s3cret")

	code := doTokenRequest(router, "203.0.113.9:1234", func(req *http.Request) {
		req.URL.RawQuery = "internal_token=s3cret"
	})
	if code != http.StatusOK {
		t.Fatalf("query token rejected: %d", code)
	}
}

func TestInternalTokenRejections(t *testing.T) {
	router := newTokenRouter("s3cret")

	if code := doTokenRequest(router, "203.0.113.9:1234", nil); code != http.StatusUnauthorized {
		t.Fatalf("missing token accepted: %d", code)
	}

	code := doTokenRequest(router, "203.0.113.9:1234", func(req *http.Request) {
		req.Header.Set("X-Internal-Token", "wrong")
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("wrong token accepted: %d", code)
	}

	// Unset token closes the endpoint to non-loopback clients entirely.
	closedRouter := newTokenRouter("")
	code = doTokenRequest(closedRouter, "203.0.113.9:1234", func(req *http.Request) {
		req.Header.Set("X-Internal-Token", "")
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("empty expected token accepted: %d", code)
	}
}

func TestInternalTokenLoopbackBypass(t *testing.T) {
	router := newTokenRouter("s3cret")

	if code := doTokenRequest(router, "127.0.0.1:9999", nil); code != http.StatusOK {
		t.Fatalf("loopback client rejected: %d", code)
	}
}
