package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusride/internal/domain"
	"campusride/internal/middleware"
	"campusride/internal/service"
)

// BookingHandler handles HTTP requests for the booking lifecycle.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// RideSnapshotResponse is the ride summary embedded in a booking.
type RideSnapshotResponse struct {
	PickupLocation string `json:"pickup_location"`
	DropLocation   string `json:"drop_location"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID          string               `json:"id"`
	RideID      string               `json:"ride_id"`
	RiderID     string               `json:"rider_id"`
	OffererID   string               `json:"offerer_id"`
	Ride        RideSnapshotResponse `json:"ride"`
	RequestedAt string               `json:"requested_at"`
	RespondedAt string               `json:"responded_at,omitempty"`
	Status      string               `json:"status"`
}

// IncomingRequestResponse is a pending booking with requester contact.
type IncomingRequestResponse struct {
	Booking   BookingResponse `json:"booking"`
	Requester ContactResponse `json:"requester"`
}

// BookingViewResponse is a booking with offerer contact.
type BookingViewResponse struct {
	Booking BookingResponse `json:"booking"`
	Offerer ContactResponse `json:"offerer"`
}

// DashboardResponse is the per-user dashboard projection.
type DashboardResponse struct {
	IncomingRequests []IncomingRequestResponse `json:"incoming_requests"`
	PendingBookings  []BookingViewResponse     `json:"pending_bookings"`
	ActiveBookings   []BookingViewResponse     `json:"active_bookings"`
	PastBookings     []BookingViewResponse     `json:"past_bookings"`
}

// AcceptResponse reports the accepted booking and the remaining seats.
type AcceptResponse struct {
	Booking        BookingResponse `json:"booking"`
	SeatsAvailable int             `json:"seats_available"`
}

// RequestRide handles POST /rides/:rideId/request
func (h *BookingHandler) RequestRide(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
		return
	}

	booking, err := h.bookingService.RequestRide(c.Request.Context(), identity.UserID, c.Param("rideId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// Accept handles PUT /rides/:rideId/requests/:bookingId/accept
func (h *BookingHandler) Accept(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
		return
	}

	booking, ride, err := h.bookingService.AcceptRequest(
		c.Request.Context(), identity.UserID, c.Param("rideId"), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AcceptResponse{
		Booking:        toBookingResponse(booking),
		SeatsAvailable: ride.SeatsAvailable,
	})
}

// Reject handles PUT /rides/:rideId/requests/:bookingId/reject
func (h *BookingHandler) Reject(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
		return
	}

	booking, err := h.bookingService.RejectRequest(
		c.Request.Context(), identity.UserID, c.Param("rideId"), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Cancel handles PUT /rides/:rideId/requests/:bookingId/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
		return
	}

	booking, err := h.bookingService.CancelRequest(
		c.Request.Context(), identity.UserID, c.Param("rideId"), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// ListRequests handles GET /rides/requests
func (h *BookingHandler) ListRequests(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
		return
	}

	requests, err := h.bookingService.IncomingRequests(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toIncomingResponses(requests))
}

// ListBookings handles GET /rides/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
		return
	}

	bookings, err := h.bookingService.ListBookings(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}

	respondJSON(c, http.StatusOK, response)
}

// Dashboard handles GET /rides/dashboard
func (h *BookingHandler) Dashboard(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
		return
	}

	dashboard, err := h.bookingService.GetDashboard(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DashboardResponse{
		IncomingRequests: toIncomingResponses(dashboard.IncomingRequests),
		PendingBookings:  toViewResponses(dashboard.PendingBookings),
		ActiveBookings:   toViewResponses(dashboard.ActiveBookings),
		PastBookings:     toViewResponses(dashboard.PastBookings),
	})
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	response := BookingResponse{
		ID:        b.ID,
		RideID:    b.RideID,
		RiderID:   b.RiderID,
		OffererID: b.OffererID,
		Ride: RideSnapshotResponse{
			PickupLocation: b.Ride.PickupLocation,
			DropLocation:   b.Ride.DropLocation,
			Date:           b.Ride.Date.Format(dateLayout),
			Time:           b.Ride.Time,
		},
		RequestedAt: b.RequestedAt.Format(time.RFC3339),
		Status:      string(b.Status),
	}
	if !b.RespondedAt.IsZero() {
		response.RespondedAt = b.RespondedAt.Format(time.RFC3339)
	}
	return response
}

func toIncomingResponses(requests []service.IncomingRequest) []IncomingRequestResponse {
	response := make([]IncomingRequestResponse, 0, len(requests))
	for _, r := range requests {
		response = append(response, IncomingRequestResponse{
			Booking:   toBookingResponse(r.Booking),
			Requester: toContactResponse(r.Requester),
		})
	}
	return response
}

func toViewResponses(views []service.BookingView) []BookingViewResponse {
	response := make([]BookingViewResponse, 0, len(views))
	for _, v := range views {
		response = append(response, BookingViewResponse{
			Booking: toBookingResponse(v.Booking),
			Offerer: toContactResponse(v.Offerer),
		})
	}
	return response
}
