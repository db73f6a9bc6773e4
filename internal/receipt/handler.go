package receipt

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omarsaleh/divvy/internal/database"
	"github.com/omarsaleh/divvy/internal/split"
	"github.com/omarsaleh/divvy/pkg/middleware"
	"github.com/omarsaleh/divvy/pkg/response"
)

// Handler handles HTTP requests for itemized splits and claims
type Handler struct {
	service *Service
}

// NewHandler creates a new receipt handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for receipt endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{splitID}/summary", h.Summary)
	r.Post("/{splitID}/finalize", h.Finalize)
	r.Put("/{splitID}/items/{itemID}", h.EditItem)
	r.Post("/{splitID}/items/{itemID}/claims", h.UpsertClaim)
	r.Delete("/{splitID}/items/{itemID}/claims", h.ReleaseClaim)

	return r
}

// writeReceiptError maps receipt failures onto structured responses. Returns
// false when the error is not one of the receipt package's own.
func writeReceiptError(w http.ResponseWriter, err error) bool {
	var overClaim *OverClaimError
	var badItem *InvalidLineItemError
	switch {
	case errors.As(err, &overClaim):
		response.Conflict(w, overClaim.Error())
	case errors.As(err, &badItem):
		response.BadRequest(w, badItem.Error())
	case errors.Is(err, split.ErrSplitNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, split.ErrPermissionDenied):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrItemNotInSplit):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotParticipant):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrNotItemized),
		errors.Is(err, ErrEmptyReceipt),
		errors.Is(err, ErrNegativeTotals),
		errors.Is(err, ErrInvalidClaim),
		errors.Is(err, split.ErrInvalidParticipant):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrAlreadyFinalized),
		errors.Is(err, ErrUnclaimedItems),
		errors.Is(err, ErrQuantityBelowClaims):
		response.Conflict(w, err.Error())
	case errors.Is(err, database.ErrStoreUnavailable):
		response.ServiceUnavailable(w, "Store unavailable, retry later")
	default:
		return false
	}
	return true
}

// Create handles POST /receipts
// @Summary      Create an itemized split
// @Description  Create a split from a recognized receipt with line items to be claimed
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        request body CreateItemizedRequest true "Itemized split creation request"
// @Success      201 {object} response.APIResponse{data=split.SplitResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /receipts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateItemizedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, items, err := h.service.CreateItemizedSplit(r.Context(), creatorID, &req)
	if err != nil {
		if !writeReceiptError(w, err) {
			response.BadRequest(w, err.Error())
		}
		return
	}

	resp := result.Split.ToResponse()
	resp.Participants = make([]*split.ParticipantResponse, len(result.Participants))
	for i, p := range result.Participants {
		resp.Participants[i] = p.ToResponse()
	}
	itemResponses := make([]ItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = toItemResponse(item, nil)
	}

	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"split": resp,
		"items": itemResponses,
	})
}

// UpsertClaim handles POST /receipts/{splitID}/items/{itemID}/claims
// @Summary      Claim units of a line item
// @Description  Store or replace the caller's claim on an item. Share count above 1 splits each unit's price.
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        splitID path string true "Split ID"
// @Param        itemID path string true "Item ID"
// @Param        request body UpsertClaimRequest true "Claim request"
// @Success      200 {object} response.APIResponse{data=ItemResponse}
// @Failure      409 {object} response.APIResponse "Claim exceeds remaining quantity"
// @Router       /receipts/{splitID}/items/{itemID}/claims [post]
func (h *Handler) UpsertClaim(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpsertClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	item, err := h.service.UpsertClaim(r.Context(), chi.URLParam(r, "splitID"), chi.URLParam(r, "itemID"), userID, &req)
	if err != nil {
		if !writeReceiptError(w, err) {
			response.InternalError(w, "Failed to store claim")
		}
		return
	}

	response.JSON(w, http.StatusOK, item)
}

// ReleaseClaim handles DELETE /receipts/{splitID}/items/{itemID}/claims
// @Summary      Release a claim
// @Description  Remove the caller's claim on an item, returning its quantity to the pool
// @Tags         receipts
// @Param        splitID path string true "Split ID"
// @Param        itemID path string true "Item ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{splitID}/items/{itemID}/claims [delete]
func (h *Handler) ReleaseClaim(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	err := h.service.ReleaseClaim(r.Context(), chi.URLParam(r, "splitID"), chi.URLParam(r, "itemID"), userID)
	if err != nil {
		if !writeReceiptError(w, err) {
			response.InternalError(w, "Failed to release claim")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Claim released"})
}

// EditItem handles PUT /receipts/{splitID}/items/{itemID}
// @Summary      Edit a line item
// @Description  Correct a recognized line item's name, price, or quantity. Creator only, before finalization.
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        splitID path string true "Split ID"
// @Param        itemID path string true "Item ID"
// @Param        request body EditItemRequest true "Item edit request"
// @Success      200 {object} response.APIResponse{data=ItemResponse}
// @Failure      409 {object} response.APIResponse "Quantity below existing claims"
// @Router       /receipts/{splitID}/items/{itemID} [put]
func (h *Handler) EditItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req EditItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	item, err := h.service.EditItem(r.Context(), chi.URLParam(r, "splitID"), chi.URLParam(r, "itemID"), userID, &req)
	if err != nil {
		if !writeReceiptError(w, err) {
			response.InternalError(w, "Failed to edit item")
		}
		return
	}

	response.JSON(w, http.StatusOK, item)
}

// Summary handles GET /receipts/{splitID}/summary
// @Summary      Get claim summary
// @Description  Get per-item remaining quantities and per-claimant subtotals with informational tax/tip shares
// @Tags         receipts
// @Produce      json
// @Param        splitID path string true "Split ID"
// @Success      200 {object} response.APIResponse{data=SummaryResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{splitID}/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "splitID"))
	if err != nil {
		if !writeReceiptError(w, err) {
			response.InternalError(w, "Failed to get summary")
		}
		return
	}

	response.JSON(w, http.StatusOK, summary)
}

// Finalize handles POST /receipts/{splitID}/finalize
// @Summary      Finalize an itemized split
// @Description  Persist exact-sum obligations once every item is fully claimed. Creator only.
// @Tags         receipts
// @Produce      json
// @Param        splitID path string true "Split ID"
// @Success      200 {object} response.APIResponse{data=FinalizeResponse}
// @Failure      409 {object} response.APIResponse "Unclaimed items remain, or already finalized"
// @Router       /receipts/{splitID}/finalize [post]
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	result, err := h.service.Finalize(r.Context(), chi.URLParam(r, "splitID"), userID)
	if err != nil {
		if !writeReceiptError(w, err) {
			response.InternalError(w, "Failed to finalize split")
		}
		return
	}

	response.JSON(w, http.StatusOK, result)
}
