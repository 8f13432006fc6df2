package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/apperror"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/core/id"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/domain/barcode"
	"github.com/Shelf-nu/shelf.nu-sub003/internal/infrastructure/http/v1/dto"
	"github.com/Shelf-nu/shelf.nu-sub003/pkg/metrics"
)

// BarcodeHandler exposes barcode operations over HTTP.
type BarcodeHandler struct {
	*BaseHandler
	service *barcode.Service
	metrics *metrics.Metrics
}

// NewBarcodeHandler creates a new barcode handler.
func NewBarcodeHandler(base *BaseHandler, service *barcode.Service, m *metrics.Metrics) *BarcodeHandler {
	return &BarcodeHandler{BaseHandler: base, service: service, metrics: m}
}

// Create handles POST /barcodes - attach a single barcode to an asset or kit.
func (h *BarcodeHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}

	var req dto.CreateBarcodeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := barcode.ParseType(req.Type)
	if err != nil {
		h.Error(c, err)
		return
	}

	owner, err := parseOwner(req.AssetID, req.KitID)
	if err != nil {
		h.Error(c, err)
		return
	}

	b, err := h.service.Create(ctx, barcode.CreateParams{
		Type:           t,
		Value:          req.Value,
		OrganizationID: orgID,
		UserID:         h.GetUserID(c),
		Owner:          owner,
	})
	if err != nil {
		h.recordOp("create", "error")
		h.recordValidationFailure(string(t), err)
		h.Error(c, err)
		return
	}

	h.recordOp("create", "ok")
	h.Created(c, dto.FromBarcode(b))
}

// Get handles GET /barcodes/:id - fetch one barcode with its owner name.
func (h *BarcodeHandler) Get(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	barcodeID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), barcodeID, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLinked(l))
}

// Lookup handles GET /barcodes/lookup?value=... - scan resolution.
// The exact scanned value is tried first; if absent, the uppercased form
// is retried so case-insensitive scanners still find Code128 values.
func (h *BarcodeHandler) Lookup(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}

	value := c.Query("value")
	if value == "" {
		h.Error(c, apperror.NewValidation("value query parameter is required").WithLabel(barcode.Label))
		return
	}

	l, err := h.service.GetByValue(c.Request.Context(), value, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if l == nil {
		h.Error(c, apperror.NewNotFound("barcode", value))
		return
	}

	h.OK(c, dto.FromLinked(l))
}

// Update handles PATCH /barcodes/:id - change type and/or value.
func (h *BarcodeHandler) Update(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	barcodeID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBarcodeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := barcode.UpdateParams{
		ID:             barcodeID,
		OrganizationID: orgID,
		UserID:         h.GetUserID(c),
		Value:          req.Value,
	}
	if req.Type != nil {
		t, err := barcode.ParseType(*req.Type)
		if err != nil {
			h.Error(c, err)
			return
		}
		p.Type = &t
	}

	b, err := h.service.Update(c.Request.Context(), p)
	if err != nil {
		typeLabel := "unknown"
		if req.Type != nil {
			typeLabel = *req.Type
		}
		h.recordOp("update", "error")
		h.recordValidationFailure(typeLabel, err)
		h.Error(c, err)
		return
	}

	h.recordOp("update", "ok")
	h.OK(c, dto.FromBarcode(b))
}

// Delete handles DELETE /barcodes/:id.
func (h *BarcodeHandler) Delete(c *gin.Context) {
	orgID, ok := h.OrganizationID(c)
	if !ok {
		return
	}
	barcodeID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), barcodeID, orgID, h.GetUserID(c)); err != nil {
		h.recordOp("delete", "error")
		h.Error(c, err)
		return
	}

	h.recordOp("delete", "ok")
	h.NoContent(c)
}

func (h *BarcodeHandler) recordOp(operation, status string) {
	if h.metrics != nil {
		h.metrics.RecordOperation(operation, status)
	}
}

func (h *BarcodeHandler) recordValidationFailure(typeLabel string, err error) {
	if h.metrics == nil {
		return
	}
	if apperror.IsValidation(err) || apperror.HasValidationErrors(err) {
		h.metrics.BarcodeValidationErrors.WithLabelValues(typeLabel).Inc()
	}
}

// parseOwner builds the owner union from the request's nullable ids.
func parseOwner(assetID, kitID *string) (barcode.Owner, error) {
	switch {
	case assetID != nil && kitID != nil:
		return barcode.Owner{}, apperror.NewValidation("barcode cannot belong to both an asset and a kit").
			WithLabel(barcode.Label)
	case assetID != nil:
		parsed, err := id.Parse(*assetID)
		if err != nil {
			return barcode.Owner{}, apperror.NewValidation("invalid assetId format").WithLabel(barcode.Label)
		}
		return barcode.AssetOwner(parsed), nil
	case kitID != nil:
		parsed, err := id.Parse(*kitID)
		if err != nil {
			return barcode.Owner{}, apperror.NewValidation("invalid kitId format").WithLabel(barcode.Label)
		}
		return barcode.KitOwner(parsed), nil
	default:
		return barcode.Owner{}, apperror.NewValidation("an asset or kit reference is required").
			WithLabel(barcode.Label)
	}
}
