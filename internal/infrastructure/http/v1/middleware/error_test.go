package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	appctx "github.com/Shelf-nu/shelf.nu-sub003/internal/core/context"
)

func setupErrorRouter(fail func(c *gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/test", fail)
	return r
}

func TestErrorHandlerRendersAppError(t *testing.T) {
	r := setupErrorRouter(func(c *gin.Context) {
		err := apperror.NewValidation("Barcode type is required when changing the value").
			WithLabel("Barcode").
			WithValidationErrors(map[string]string{"barcodes[0].value": "required"})
		_ = c.Error(err)
		c.Abort()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["code"] != apperror.CodeValidation {
		t.Errorf("code = %v, want %v", body["code"], apperror.CodeValidation)
	}
	if body["label"] != "Barcode" {
		t.Errorf("label = %v, want Barcode", body["label"])
	}
	if _, ok := body["validationErrors"]; !ok {
		t.Error("validationErrors missing from body")
	}
}

func TestErrorHandlerHidesUnknownErrors(t *testing.T) {
	r := setupErrorRouter(func(c *gin.Context) {
		_ = c.Error(errors.New("pgx: something internal leaked"))
		c.Abort()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if got := w.Body.String(); !json.Valid([]byte(got)) {
		t.Fatalf("body is not JSON: %q", got)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["message"] != "Internal server error" {
		t.Errorf("message = %v, internal details must not leak", body["message"])
	}
}

type stubValidator struct {
	user *appctx.UserContext
	err  error
}

func (s stubValidator) ValidateToken(string) (*appctx.UserContext, error) {
	return s.user, s.err
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(Auth(stubValidator{user: &appctx.UserContext{UserID: "u", OrganizationID: "o"}}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthRejectsTokenWithoutWorkspace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(Auth(stubValidator{user: &appctx.UserContext{UserID: "u"}}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestAuthPopulatesContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(Auth(stubValidator{user: &appctx.UserContext{UserID: "user-1", OrganizationID: "org-1"}}))

	var gotUser, gotOrg string
	r.GET("/test", func(c *gin.Context) {
		gotUser = appctx.GetUserID(c.Request.Context())
		gotOrg = appctx.GetOrganizationID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotUser != "user-1" || gotOrg != "org-1" {
		t.Errorf("context user/org = %q/%q, want user-1/org-1", gotUser, gotOrg)
	}
}
