package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestProjectScope_NoHeader_PassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ProjectScope())
	r.GET("/x", func(c *gin.Context) {
		if pid, ok := ProjectID(c); ok || pid != "" {
			t.Fatalf("expected no project id, got %q ok=%v", pid, ok)
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestProjectScope_ValidHeader_Stashed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ProjectScope())
	r.GET("/x", func(c *gin.Context) {
		pid, ok := ProjectID(c)
		if !ok || pid != "proj-42" {
			t.Fatalf("expected proj-42, got %q ok=%v", pid, ok)
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderProjectID, "proj-42")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestProjectScope_UserIdentity_Stashed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ProjectScope())
	r.GET("/x", func(c *gin.Context) {
		uid, ok := UserID(c)
		if !ok || uid != "student-7" {
			t.Fatalf("expected student-7, got %q ok=%v", uid, ok)
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderUserID, "student-7")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Without the header nothing is stashed.
	r2 := gin.New()
	r2.Use(ProjectScope())
	r2.GET("/y", func(c *gin.Context) {
		if uid, ok := UserID(c); ok {
			t.Fatalf("expected no user id, got %q", uid)
		}
		c.Status(http.StatusNoContent)
	})
	w = httptest.NewRecorder()
	r2.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/y", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestProjectScope_InvalidHeader_Rejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ProjectScope())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, bad := range []string{"has space", "semi;colon", strings.Repeat("a", 80)} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(HeaderProjectID, bad)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("header %q: expected 400, got %d", bad, w.Code)
		}
	}
}
