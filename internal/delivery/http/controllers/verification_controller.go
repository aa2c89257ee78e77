package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ticketbooth/internal/delivery/http/helpers"
	"ticketbooth/internal/domain"
)

// VerificationController serves the door-scan endpoint.
type VerificationController struct {
	Logger  *slog.Logger
	Service domain.VerificationService
}

func NewVerificationController(logger *slog.Logger, svc domain.VerificationService) *VerificationController {
	return &VerificationController{
		Logger:  logger,
		Service: svc,
	}
}

// VerifyTicketRequest is the request body for POST /verify-ticket.
type VerifyTicketRequest struct {
	TicketID string `json:"ticketId"`
	EventID  string `json:"eventId"`
}

// Validate implements Validator.
func (v VerifyTicketRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(v.TicketID) == "" {
		errs = append(errs, "ticketId is required")
	}
	if strings.TrimSpace(v.EventID) == "" {
		errs = append(errs, "eventId is required")
	}
	return errs
}

// VerifyTicketSuccessResponse is the success response envelope for POST /verify-ticket (200).
type VerifyTicketSuccessResponse struct {
	Data  *domain.VerificationResult `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// VerifyTicket godoc
// @Summary Verify a ticket at the door
// @Description Checks a ticket against the event being scanned. The first scan of a valid ticket marks it used; repeat scans report used. Unknown tickets and tickets for other events report invalid with a 200 status.
// @Tags verification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VerifyTicketRequest true "Ticket and event identifiers"
// @Success 200 {object} controllers.VerifyTicketSuccessResponse "data contains the verification result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /verify-ticket [post]
func (c *VerificationController) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	var req VerifyTicketRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Verify(r.Context(), req.TicketID, req.EventID)
	if err != nil {
		var valErr *domain.ValidationError
		if errors.As(err, &valErr) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, valErr.Message)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to verify ticket")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
