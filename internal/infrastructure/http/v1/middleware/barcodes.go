package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	appctx "github.com/Shelf-nu/shelf.nu-sub003/internal/core/context"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/organization"
)

// RequireBarcodes gates barcode endpoints on the workspace feature flag.
// Must run after Auth, which resolves the caller's organization.
func RequireBarcodes(orgs *organization.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgIDStr := appctx.GetOrganizationID(c.Request.Context())
		orgID, err := id.Parse(orgIDStr)
		if err != nil {
			_ = c.Error(apperror.NewForbidden("token carries no workspace"))
			c.Abort()
			return
		}

		if err := orgs.RequireBarcodesEnabled(c.Request.Context(), orgID); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Next()
	}
}
