package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ticketbooth/internal/delivery/http/helpers"
	"ticketbooth/internal/domain"
)

// BookingController serves the booking endpoints.
type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// PaymentMethodRequest is the payment block of a booking request.
type PaymentMethodRequest struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

// CustomerInfoRequest is the customer block of a booking request.
type CustomerInfoRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
}

// CreateBookingRequest is the request body for POST /bookings.
type CreateBookingRequest struct {
	EventID      string                `json:"eventId"`
	Quantity     int                   `json:"quantity"`
	CustomerInfo CustomerInfoRequest   `json:"customerInfo"`
	Payment      *PaymentMethodRequest `json:"payment"`
}

// Validate implements Validator. Field-level rules only; business rules
// (capacity, closing date, payment) live in the service.
func (c CreateBookingRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.EventID) == "" {
		errs = append(errs, "eventId is required")
	}
	if c.Quantity < 1 {
		errs = append(errs, "quantity must be at least 1")
	}
	if strings.TrimSpace(c.CustomerInfo.FirstName) == "" {
		errs = append(errs, "customerInfo.firstName is required")
	}
	if strings.TrimSpace(c.CustomerInfo.LastName) == "" {
		errs = append(errs, "customerInfo.lastName is required")
	}
	if strings.TrimSpace(c.CustomerInfo.Email) == "" {
		errs = append(errs, "customerInfo.email is required")
	}
	return errs
}

// CreateBookingSuccessResponse is the success response envelope for POST /bookings (201).
type CreateBookingSuccessResponse struct {
	Data  *domain.BookingConfirmation `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

// CreateBooking godoc
// @Summary Book tickets for an event
// @Description Books up to 10 tickets against an event, charging the payment method for paid events. The attendee increment and booking insert are atomic; overbooking is rejected with 409.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body CreateBookingRequest true "Booking request"
// @Success 201 {object} controllers.CreateBookingSuccessResponse "data contains the booking confirmation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 402 {object} helpers.APIResponse "error.code: payment_failed"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (sold out, closed, or unavailable)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	bookingReq := &domain.BookingRequest{
		EventID:  req.EventID,
		Quantity: req.Quantity,
		CustomerInfo: domain.CustomerInfo{
			FirstName: req.CustomerInfo.FirstName,
			LastName:  req.CustomerInfo.LastName,
			Email:     req.CustomerInfo.Email,
			Phone:     req.CustomerInfo.Phone,
		},
	}
	if req.Payment != nil {
		bookingReq.Payment = &domain.PaymentMethod{
			CardNumber: req.Payment.CardNumber,
			ExpiryDate: req.Payment.ExpiryDate,
			CVV:        req.Payment.CVV,
		}
	}

	confirmation, err := c.Service.Book(r.Context(), bookingReq)
	if err != nil {
		var valErr *domain.ValidationError
		switch {
		case errors.As(err, &valErr):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, valErr.Message)
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrEventUnavailable),
			errors.Is(err, domain.ErrRegistrationClosed),
			errors.Is(err, domain.ErrInsufficientCapacity):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
		case errors.Is(err, domain.ErrPaymentFailed):
			helpers.WriteJSONError(w, http.StatusPaymentRequired, helpers.ErrCodePaymentFailed, "payment was declined")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to create booking")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, confirmation)
}

// ListBookingsSuccessResponse is the success response envelope for GET /bookings (200).
type ListBookingsSuccessResponse struct {
	Data  []*domain.Booking `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListBookings godoc
// @Summary List bookings for a customer email
// @Description Returns all bookings made with the given email, newest first.
// @Tags bookings
// @Produce json
// @Param email query string true "Customer email"
// @Success 200 {object} controllers.ListBookingsSuccessResponse "data is an array of bookings"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings [get]
func (c *BookingController) ListBookings(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "email query parameter is required")
		return
	}
	bookings, err := c.Service.ListByCustomerEmail(r.Context(), email)
	if err != nil {
		var valErr *domain.ValidationError
		if errors.As(err, &valErr) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, valErr.Message)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list bookings")
		return
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, bookings)
}

// GetBookingSuccessResponse is the success response envelope for GET /bookings/{bookingID} (200).
type GetBookingSuccessResponse struct {
	Data  *domain.Booking   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetBooking godoc
// @Summary Get a booking by ID
// @Description Returns a single booking with its ticket identifiers.
// @Tags bookings
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Success 200 {object} controllers.GetBookingSuccessResponse "data contains the booking"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/{bookingID} [get]
func (c *BookingController) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := r.PathValue("bookingID")
	if bookingID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing bookingID")
		return
	}
	booking, err := c.Service.GetByID(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "booking not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to load booking")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking)
}
