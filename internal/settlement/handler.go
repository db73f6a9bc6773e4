package settlement

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

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{splitID}", h.Status)
	r.Post("/{splitID}/events", h.RecordPayment)
	r.Post("/{splitID}/participants/{participantID}/paid", h.MarkPaid)

	return r
}

func writeSettlementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, split.ErrSplitNotFound), errors.Is(err, split.ErrParticipantNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, split.ErrPermissionDenied):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidAmount):
		response.BadRequest(w, err.Error())
	case errors.Is(err, database.ErrStoreUnavailable):
		response.ServiceUnavailable(w, "Store unavailable, retry later")
	default:
		response.InternalError(w, "Failed to reconcile settlement")
	}
}

// Status handles GET /settlements/{splitID}
// @Summary      Get settlement status
// @Description  Derive paid/outstanding/settled state from participant rows and payment events
// @Tags         settlements
// @Produce      json
// @Param        splitID path string true "Split ID"
// @Success      200 {object} response.APIResponse{data=Summary}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{splitID} [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Status(r.Context(), chi.URLParam(r, "splitID"))
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, summary)
}

// RecordPayment handles POST /settlements/{splitID}/events
// @Summary      Record a payment event
// @Description  Ingest an external payment assertion; matching against participants happens at read time
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        splitID path string true "Split ID"
// @Param        request body RecordPaymentRequest true "Payment event"
// @Success      201 {object} response.APIResponse{data=PaymentEvent}
// @Failure      400 {object} response.APIResponse
// @Router       /settlements/{splitID}/events [post]
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	event, err := h.service.RecordPayment(r.Context(), chi.URLParam(r, "splitID"), &req)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, event)
}

// MarkPaid handles POST /settlements/{splitID}/participants/{participantID}/paid
// @Summary      Mark a participant paid
// @Description  Record a local paid state for one participant. Creator only, idempotent.
// @Tags         settlements
// @Produce      json
// @Param        splitID path string true "Split ID"
// @Param        participantID path string true "Participant ID"
// @Success      200 {object} response.APIResponse{data=Summary}
// @Failure      403 {object} response.APIResponse
// @Router       /settlements/{splitID}/participants/{participantID}/paid [post]
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	summary, err := h.service.MarkPaid(r.Context(), chi.URLParam(r, "splitID"), chi.URLParam(r, "participantID"), userID)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, summary)
}
