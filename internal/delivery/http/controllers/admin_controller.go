package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ticketbooth/internal/delivery/http/helpers"
	"ticketbooth/internal/domain"
)

// AdminController serves the authenticated event management endpoints.
type AdminController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewAdminController(logger *slog.Logger, svc domain.EventService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
	}
}

// OrganizerRequest is the organizer block of an event payload.
type OrganizerRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

// EventRequest is the request body for POST /admin/events and PUT /admin/events/{eventID}.
// Price is in minor currency units (cents). Status is optional on create and
// defaults to active.
type EventRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date"`
	ClosingDate time.Time        `json:"closingDate"`
	Location    string           `json:"location"`
	Price       int64            `json:"price"`
	ImageURL    string           `json:"imageUrl"`
	Category    string           `json:"category"`
	Organizer   OrganizerRequest `json:"organizer"`
	Capacity    int              `json:"capacity"`
	Status      string           `json:"status"`
}

// Validate implements Validator. Shape checks only; the service owns the
// full invariant set (date windows, lengths, category, organizer email).
func (e EventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, "name is required")
	}
	if e.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	if e.Price < 0 {
		errs = append(errs, "price must be non-negative")
	}
	if e.Capacity < 1 {
		errs = append(errs, "capacity must be at least 1")
	}
	return errs
}

func (e EventRequest) toDomain() *domain.Event {
	return &domain.Event{
		Name:        e.Name,
		Description: e.Description,
		Date:        e.Date,
		ClosingDate: e.ClosingDate,
		Location:    e.Location,
		Price:       e.Price,
		ImageURL:    e.ImageURL,
		Category:    e.Category,
		Organizer: domain.Organizer{
			Name:  e.Organizer.Name,
			Email: e.Organizer.Email,
			Phone: e.Organizer.Phone,
		},
		Capacity: e.Capacity,
		Status:   domain.EventStatus(e.Status),
	}
}

// AdminListEventsSuccessResponse is the success response envelope for GET /admin/events (200).
type AdminListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEvents godoc
// @Summary List all events
// @Description Returns every event regardless of status or date, newest first. Requires authentication.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.AdminListEventsSuccessResponse "data is an array of events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *AdminController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListAll(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list events")
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get any event by ID
// @Description Returns a single event regardless of status. Requires authentication.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.GetEventSuccessResponse "data contains the event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [get]
func (c *AdminController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to load event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates a new event. The attendee count starts at zero; id and timestamps are server-generated. Requires authentication.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.GetEventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [post]
func (c *AdminController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := req.toDomain()
	if err := c.Service.Create(r.Context(), event); err != nil {
		var valErr *domain.ValidationError
		if errors.As(err, &valErr) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, valErr.Message)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to create event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Replaces the event's editable fields. Capacity cannot drop below the current attendee count; the attendee counter itself is never writable here. Requires authentication.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param event body EventRequest true "Event data"
// @Success 200 {object} controllers.GetEventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [put]
func (c *AdminController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := req.toDomain()
	event.ID = eventID
	if err := c.Service.Update(r.Context(), event); err != nil {
		var valErr *domain.ValidationError
		switch {
		case errors.As(err, &valErr):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, valErr.Message)
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to update event")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEventResponse is the data payload for DELETE /admin/events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

// DeleteEventSuccessResponse is the success response envelope for DELETE /admin/events/{eventID} (200).
type DeleteEventSuccessResponse struct {
	Data  DeleteEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes an event. Requires authentication.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.DeleteEventSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [delete]
func (c *AdminController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if err := c.Service.Delete(r.Context(), eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to delete event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}
