package split

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omarsaleh/divvy/internal/database"
	"github.com/omarsaleh/divvy/internal/split/allocate"
	"github.com/omarsaleh/divvy/pkg/middleware"
	"github.com/omarsaleh/divvy/pkg/response"
)

// Handler handles HTTP requests for split operations
type Handler struct {
	service *Service
}

// NewHandler creates a new split handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for split endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/export", h.Export)

	return r
}

// writeAllocationError maps allocator failures onto structured responses.
func writeAllocationError(w http.ResponseWriter, err error) bool {
	var mismatch *allocate.MismatchError
	if errors.As(err, &mismatch) {
		response.Error(w, http.StatusBadRequest, "ALLOCATION_MISMATCH", mismatch.Error())
		return true
	}
	var pctSum *allocate.PercentageSumError
	if errors.As(err, &pctSum) {
		response.Error(w, http.StatusBadRequest, "ALLOCATION_MISMATCH", pctSum.Error())
		return true
	}
	return false
}

// Create handles POST /splits
// @Summary      Create a flat split
// @Description  Create a split of a total amount using the equal, custom, or percentage strategy
// @Tags         splits
// @Accept       json
// @Produce      json
// @Param        request body CreateSplitRequest true "Split creation request"
// @Success      201 {object} response.APIResponse{data=SplitResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /splits [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	validStrategies := map[string]bool{"equal": true, "custom": true, "percentage": true}
	if !validStrategies[req.Strategy] {
		response.BadRequest(w, "Invalid strategy. Must be equal, custom, or percentage")
		return
	}
	if req.TotalAmount <= 0 {
		response.BadRequest(w, "Total amount must be positive")
		return
	}

	result, err := h.service.CreateSplit(r.Context(), creatorID, &req)
	if err != nil {
		if writeAllocationError(w, err) {
			return
		}
		if errors.Is(err, database.ErrStoreUnavailable) {
			response.ServiceUnavailable(w, "Store unavailable, retry later")
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	response.JSON(w, http.StatusCreated, toSplitResponse(result))
}

// GetByID handles GET /splits/{id}
// @Summary      Get split by ID
// @Description  Get a split with all its participants
// @Tags         splits
// @Produce      json
// @Param        id path string true "Split ID"
// @Success      200 {object} response.APIResponse{data=SplitResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /splits/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetSplit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrSplitNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, database.ErrStoreUnavailable) {
			response.ServiceUnavailable(w, "Store unavailable, retry later")
			return
		}
		response.InternalError(w, "Failed to get split")
		return
	}

	response.JSON(w, http.StatusOK, toSplitResponse(result))
}

// Delete handles DELETE /splits/{id}
// @Summary      Delete a split
// @Description  Delete a split and its participants, items, claims, and payment events. Creator only.
// @Tags         splits
// @Param        id path string true "Split ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /splits/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	err := h.service.DeleteSplit(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSplitNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrPermissionDenied):
			response.Forbidden(w, err.Error())
		case errors.Is(err, database.ErrStoreUnavailable):
			response.ServiceUnavailable(w, "Store unavailable, retry later")
		default:
			response.InternalError(w, "Failed to delete split")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Split deleted successfully"})
}

// Export handles GET /splits/{id}/export
// @Summary      Export a split statement
// @Description  Download an xlsx statement of obligations and payments
// @Tags         splits
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "Split ID"
// @Success      200 {file} binary
// @Failure      404 {object} response.APIResponse
// @Router       /splits/{id}/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.ExportStatement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrSplitNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, database.ErrStoreUnavailable) {
			response.ServiceUnavailable(w, "Store unavailable, retry later")
			return
		}
		response.InternalError(w, "Failed to export split")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="statement.xlsx"`)
	if err := f.Write(w); err != nil {
		response.InternalError(w, "Failed to write workbook")
	}
}

// toSplitResponse assembles the split DTO with participant rows.
func toSplitResponse(result *SplitWithParticipants) *SplitResponse {
	resp := result.Split.ToResponse()
	resp.Participants = make([]*ParticipantResponse, len(result.Participants))
	for i, p := range result.Participants {
		resp.Participants[i] = p.ToResponse()
	}
	return resp
}
