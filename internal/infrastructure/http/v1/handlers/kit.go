package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/barcode"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/kit"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/organization"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/http/v1/dto"
	"github.com/Shelf-nu/shelf.nu-sub003/pkg/metrics"
)

// KitHandler exposes kit CRUD and barcode listing.
type KitHandler struct {
	*BaseHandler
	service *kit.Service
	orgs    *organization.Service
	metrics *metrics.Metrics
}

// NewKitHandler creates a new kit handler.
func NewKitHandler(base *BaseHandler, service *kit.Service, orgs *organization.Service, m *metrics.Metrics) *KitHandler {
	return &KitHandler{BaseHandler: base, service: service, orgs: orgs, metrics: m}
}

// List handles GET /kits.
func (h *KitHandler) List(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}

	f, err := parseListFilter(c, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.KitResponse, 0, len(result.Items))
	for _, k := range result.Items {
		items = append(items, dto.FromKit(k))
	}
	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /kits/:id.
func (h *KitHandler) Get(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	kitID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	k, err := h.service.GetByID(c.Request.Context(), kitID, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromKit(k))
}

// Create handles POST /kits.
func (h *KitHandler) Create(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}

	var req dto.CreateKitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inputs, err := dto.BarcodeInputsToDomain(req.Barcodes)
	if err != nil {
		h.Error(c, err)
		return
	}
	if len(inputs) > 0 {
		if err := h.orgs.RequireBarcodesEnabled(c.Request.Context(), orgID); err != nil {
			h.Error(c, err)
			return
		}
	}

	k, err := h.service.Create(c.Request.Context(), kit.CreateParams{
		Name:           req.Name,
		Description:    req.Description,
		OrganizationID: orgID,
		UserID:         h.GetUserID(c),
		Barcodes:       inputs,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromKit(k))
}

// Update handles PATCH /kits/:id.
func (h *KitHandler) Update(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	kitID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateKitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := kit.UpdateParams{
		ID:             kitID,
		OrganizationID: orgID,
		UserID:         h.GetUserID(c),
		Name:           req.Name,
		Description:    req.Description,
	}
	if req.Status != nil {
		status := kit.Status(*req.Status)
		if !status.Valid() {
			h.Error(c, apperror.NewValidation("unknown kit status").WithDetail("value", *req.Status))
			return
		}
		p.Status = &status
	}
	if req.Barcodes != nil {
		if err := h.orgs.RequireBarcodesEnabled(c.Request.Context(), orgID); err != nil {
			h.Error(c, err)
			return
		}
		inputs, err := dto.BarcodeInputsToDomain(req.Barcodes)
		if err != nil {
			h.Error(c, err)
			return
		}
		if inputs == nil {
			inputs = []barcode.Input{}
		}
		p.Barcodes = inputs
	}

	k, err := h.service.Update(c.Request.Context(), p)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromKit(k))
}

// Delete handles DELETE /kits/:id.
func (h *KitHandler) Delete(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	kitID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), kitID, orgID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ReconcileBarcodes handles PUT /kits/:id/barcodes - submit the full
// desired barcode set; missing ones are removed, new ones created.
func (h *KitHandler) ReconcileBarcodes(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	kitID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReconcileBarcodesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	inputs, err := dto.BarcodeInputsToDomain(req.Barcodes)
	if err != nil {
		h.Error(c, err)
		return
	}
	if inputs == nil {
		inputs = []barcode.Input{}
	}

	if _, err := h.service.Update(c.Request.Context(), kit.UpdateParams{
		ID:             kitID,
		OrganizationID: orgID,
		UserID:         h.GetUserID(c),
		Barcodes:       inputs,
	}); err != nil {
		h.Error(c, err)
		return
	}

	bs, err := h.service.Barcodes(c.Request.Context(), kitID, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBarcodes(bs))
}

// Barcodes handles GET /kits/:id/barcodes.
func (h *KitHandler) Barcodes(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	kitID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	bs, err := h.service.Barcodes(c.Request.Context(), kitID, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.BarcodesPerOwner.Observe(float64(len(bs)))
	}
	h.OK(c, dto.FromBarcodes(bs))
}
