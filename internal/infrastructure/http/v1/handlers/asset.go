package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/barcode"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/asset"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/catalogs/organization"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/http/v1/dto"
	"github.com/Shelf-nu/shelf.nu-sub003/pkg/metrics"
)

// AssetHandler exposes asset CRUD, barcode listing and the CSV-style
// import pipeline.
type AssetHandler struct {
	*BaseHandler
	service  *asset.Service
	barcodes *barcode.Service
	orgs     *organization.Service
	metrics  *metrics.Metrics
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler(base *BaseHandler, service *asset.Service, barcodes *barcode.Service, orgs *organization.Service, m *metrics.Metrics) *AssetHandler {
	return &AssetHandler{BaseHandler: base, service: service, barcodes: barcodes, orgs: orgs, metrics: m}
}

// List handles GET /assets.
func (h *AssetHandler) List(c *gin.Context) {
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

	items := make([]dto.AssetResponse, 0, len(result.Items))
	for _, a := range result.Items {
		items = append(items, dto.FromAsset(a))
	}
	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /assets/:id.
func (h *AssetHandler) Get(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	assetID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), assetID, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromAsset(a))
}

// GetBySequentialID handles GET /assets/sid/:sid - lookup by the
// human-readable identifier printed on labels.
func (h *AssetHandler) GetBySequentialID(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}

	a, err := h.service.GetBySequentialID(c.Request.Context(), c.Param("sid"), orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromAsset(a))
}

// Create handles POST /assets.
func (h *AssetHandler) Create(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}

	var req dto.CreateAssetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	valuation, err := dto.ParseValuation(req.Valuation)
	if err != nil {
		h.Error(c, apperror.NewValidation("valuation must be a decimal number"))
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

	a, err := h.service.Create(c.Request.Context(), asset.CreateParams{
		Title:          req.Title,
		Description:    req.Description,
		Valuation:      valuation,
		OrganizationID: orgID,
		UserID:         h.GetUserID(c),
		Barcodes:       inputs,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromAsset(a))
}

// Update handles PATCH /assets/:id.
func (h *AssetHandler) Update(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	assetID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := asset.UpdateParams{
		ID:             assetID,
		OrganizationID: orgID,
		UserID:         h.GetUserID(c),
		Title:          req.Title,
		Description:    req.Description,
	}
	valuation, err := dto.ParseValuation(req.Valuation)
	if err != nil {
		h.Error(c, apperror.NewValidation("valuation must be a decimal number"))
		return
	}
	p.Valuation = valuation
	if req.Status != nil {
		status := asset.Status(*req.Status)
		if !status.Valid() {
			h.Error(c, apperror.NewValidation("unknown asset status").WithDetail("value", *req.Status))
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

	a, err := h.service.Update(c.Request.Context(), p)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromAsset(a))
}

// Delete handles DELETE /assets/:id.
func (h *AssetHandler) Delete(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	assetID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), assetID, orgID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Barcodes handles GET /assets/:id/barcodes.
func (h *AssetHandler) Barcodes(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	assetID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	bs, err := h.service.Barcodes(c.Request.Context(), assetID, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.BarcodesPerOwner.Observe(float64(len(bs)))
	}
	h.OK(c, dto.FromBarcodes(bs))
}

// ReconcileBarcodes handles PUT /assets/:id/barcodes - submit the full
// desired barcode set; missing ones are removed, new ones created.
func (h *AssetHandler) ReconcileBarcodes(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	assetID, ok := h.ParseIDParam(c, "id")
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

	if _, err := h.service.GetByID(c.Request.Context(), assetID, orgID); err != nil {
		h.Error(c, err)
		return
	}
	err = h.barcodes.Reconcile(c.Request.Context(), inputs, barcode.AssetOwner(assetID), orgID, h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	bs, err := h.service.Barcodes(c.Request.Context(), assetID, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBarcodes(bs))
}

// Import handles POST /assets/import - parse spreadsheet-style rows and
// create the assets they describe, with their barcodes, atomically.
func (h *AssetHandler) Import(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}

	var req dto.ImportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	start := time.Now()
	entries, err := h.barcodes.ParseImportRows(ctx, req.ToImportRows(), orgID)
	if err != nil {
		h.observeImport(len(req.Rows), "rejected", start)
		h.Error(c, err)
		return
	}

	created, err := h.service.CreateFromImport(ctx, entries, orgID, h.GetUserID(c))
	if err != nil {
		h.observeImport(len(req.Rows), "failed", start)
		h.Error(c, err)
		return
	}

	h.observeImport(len(req.Rows), "created", start)

	resp := dto.ImportResponse{Created: make(map[string]dto.AssetResponse, len(created))}
	for key, a := range created {
		resp.Created[key] = dto.FromAsset(a)
	}
	h.Created(c, resp)
}

func (h *AssetHandler) observeImport(rows int, status string, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.ImportRowsTotal.WithLabelValues(status).Add(float64(rows))
	h.metrics.ImportDuration.Observe(time.Since(start).Seconds())
}
