package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	appctx "github.com/Shelf-nu/shelf.nu-sub003/internal/core/context"
)

func TestTracePopulatesContextAndHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Trace())

	var got *appctx.TraceContext
	r.GET("/test", func(c *gin.Context) {
		got = appctx.GetTrace(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if got == nil {
		t.Fatal("trace context missing from request context")
	}
	if got.TraceID == "" || got.RequestID == "" || got.SpanID == "" {
		t.Errorf("trace fields incomplete: %+v", got)
	}
	if w.Header().Get(HeaderRequestID) != got.RequestID {
		t.Errorf("response %s = %q, want %q", HeaderRequestID, w.Header().Get(HeaderRequestID), got.RequestID)
	}
	if w.Header().Get(HeaderTraceID) != got.TraceID {
		t.Errorf("response %s = %q, want %q", HeaderTraceID, w.Header().Get(HeaderTraceID), got.TraceID)
	}
}

func TestTraceKeepsIncomingIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Trace())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	req.Header.Set(HeaderTraceID, "trace-456")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get(HeaderRequestID) != "req-123" {
		t.Errorf("%s = %q, want req-123", HeaderRequestID, w.Header().Get(HeaderRequestID))
	}
	if w.Header().Get(HeaderTraceID) != "trace-456" {
		t.Errorf("%s = %q, want trace-456", HeaderTraceID, w.Header().Get(HeaderTraceID))
	}
}
