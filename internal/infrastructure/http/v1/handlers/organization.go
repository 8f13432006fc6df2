package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/organization"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/http/v1/dto"
)

// OrganizationHandler manages workspaces and their barcode feature flag.
type OrganizationHandler struct {
	*BaseHandler
	service *organization.Service
}

// NewOrganizationHandler creates a new organization handler.
func NewOrganizationHandler(base *BaseHandler, service *organization.Service) *OrganizationHandler {
	return &OrganizationHandler{BaseHandler: base, service: service}
}

// Create handles POST /organizations.
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	typ := organization.Type(req.Type)
	if !typ.Valid() {
		h.Error(c, apperror.NewValidation("organization type must be PERSONAL or TEAM").
			WithDetail("value", req.Type))
		return
	}

	o, err := h.service.Create(c.Request.Context(), req.Name, typ, h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromOrganization(o))
}

// Get handles GET /organizations/:id.
func (h *OrganizationHandler) Get(c *gin.Context) {
	orgID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromOrganization(o))
}

// List handles GET /organizations - workspaces owned by the caller.
func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.service.ListForOwner(c.Request.Context(), h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromOrganizations(orgs))
}

// ToggleBarcodes handles POST /organizations/:id/barcodes.
func (h *OrganizationHandler) ToggleBarcodes(c *gin.Context) {
	orgID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ToggleBarcodesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.service.ToggleBarcodes(c.Request.Context(), orgID, req.Enabled)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromOrganization(o))
}
