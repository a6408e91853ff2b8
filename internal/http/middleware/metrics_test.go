package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsByRouteAndStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/m/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	before := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/m/:id", "200"))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/m/42", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
	}

	after := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/m/:id", "200"))
	if after-before != 3 {
		t.Fatalf("counter delta = %v, want 3", after-before)
	}

	// Route label uses the registered pattern, never the raw URL.
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/m/42", "200")); got != 0 {
		t.Fatalf("raw-path label should not be used, got %v", got)
	}
}

func TestObserveAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/thing", func(c *gin.Context) {
		ObserveAPIError(c, "thing_not_found")
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": "thing_not_found"})
	})

	before := testutil.ToFloat64(apiErrors.WithLabelValues("/api/thing", "thing_not_found"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/thing", nil))
	after := testutil.ToFloat64(apiErrors.WithLabelValues("/api/thing", "thing_not_found"))

	if after-before != 1 {
		t.Fatalf("api error counter delta = %v, want 1", after-before)
	}
}
