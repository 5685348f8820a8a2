package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusride/internal/domain"
	"campusride/internal/middleware"
	"campusride/internal/service"
)

const dateLayout = "2006-01-02"

// RideHandler handles HTTP requests for ride offers and search.
type RideHandler struct {
	offerService *service.OfferService
	matchService service.MatchServiceInterface
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(offerService *service.OfferService, matchService service.MatchServiceInterface) *RideHandler {
	return &RideHandler{
		offerService: offerService,
		matchService: matchService,
	}
}

// OfferRideRequest is the HTTP request body for posting a ride.
type OfferRideRequest struct {
	PickupLocation string `json:"pickup_location"`
	DropLocation   string `json:"drop_location"`
	Date           string `json:"date"` // YYYY-MM-DD
	Time           string `json:"time"` // "HH:mm" or "h:mm AM/PM"
	TotalSeats     int    `json:"total_seats"`
	SeatsAvailable int    `json:"seats_available"`
	Luggage        string `json:"luggage,omitempty"` // NONE, SMALL, MEDIUM, LARGE
}

// FindRideRequest is the HTTP request body for searching rides.
type FindRideRequest struct {
	PickupLocation string `json:"pickup_location"`
	DropLocation   string `json:"drop_location"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}

// RideResponse is the HTTP representation of a ride offer.
type RideResponse struct {
	ID             string `json:"id"`
	OffererID      string `json:"offerer_id"`
	PickupLocation string `json:"pickup_location"`
	DropLocation   string `json:"drop_location"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	TotalSeats     int    `json:"total_seats"`
	SeatsAvailable int    `json:"seats_available"`
	Luggage        string `json:"luggage"`
	CreatedAt      string `json:"created_at"`
}

// ContactResponse is the identity projection attached to results.
type ContactResponse struct {
	Name           string `json:"name"`
	RegistrationNo string `json:"registration_no,omitempty"`
	Phone          string `json:"phone"`
}

// RankedOfferResponse is one search hit.
type RankedOfferResponse struct {
	Ride    RideResponse    `json:"ride"`
	Offerer ContactResponse `json:"offerer"`
}

// JoinerResponse is one booking against an offered ride.
type JoinerResponse struct {
	BookingID   string          `json:"booking_id"`
	Status      string          `json:"status"`
	RequestedAt string          `json:"requested_at"`
	Requester   ContactResponse `json:"requester"`
}

// OfferedHistoryResponse is one offered ride with its requesters.
type OfferedHistoryResponse struct {
	Ride    RideResponse     `json:"ride"`
	Joiners []JoinerResponse `json:"joiners"`
}

// OfferRide handles POST /rides/offer-ride
func (h *RideHandler) OfferRide(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
		return
	}

	var req OfferRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid date, expected YYYY-MM-DD"})
		return
	}

	ride, err := h.offerService.CreateOffer(c.Request.Context(), service.CreateOfferRequest{
		OffererID:      identity.UserID,
		PickupLocation: req.PickupLocation,
		DropLocation:   req.DropLocation,
		Date:           date,
		Time:           req.Time,
		TotalSeats:     req.TotalSeats,
		SeatsAvailable: req.SeatsAvailable,
		Luggage:        domain.LuggagePolicy(req.Luggage),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// FindRide handles POST /rides/find-ride
func (h *RideHandler) FindRide(c *gin.Context) {
	var req FindRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid date, expected YYYY-MM-DD"})
		return
	}

	results, err := h.matchService.Search(c.Request.Context(), service.SearchRequest{
		PickupLocation: req.PickupLocation,
		DropLocation:   req.DropLocation,
		Date:           date,
		Time:           req.Time,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RankedOfferResponse, 0, len(results))
	for _, r := range results {
		response = append(response, RankedOfferResponse{
			Ride:    toRideResponse(r.Ride),
			Offerer: toContactResponse(r.Offerer),
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// OfferedHistory handles GET /rides/offered-history
func (h *RideHandler) OfferedHistory(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthorized"})
		return
	}

	history, err := h.offerService.OfferedHistory(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]OfferedHistoryResponse, 0, len(history))
	for _, entry := range history {
		item := OfferedHistoryResponse{
			Ride:    toRideResponse(entry.Ride),
			Joiners: make([]JoinerResponse, 0, len(entry.Joiners)),
		}
		for _, j := range entry.Joiners {
			item.Joiners = append(item.Joiners, JoinerResponse{
				BookingID:   j.BookingID,
				Status:      string(j.Status),
				RequestedAt: j.RequestedAt.Format(time.RFC3339),
				Requester:   toContactResponse(j.Requester),
			})
		}
		response = append(response, item)
	}

	respondJSON(c, http.StatusOK, response)
}

func toRideResponse(r *domain.RideOffer) RideResponse {
	return RideResponse{
		ID:             r.ID,
		OffererID:      r.OffererID,
		PickupLocation: r.PickupLocation,
		DropLocation:   r.DropLocation,
		Date:           r.Date.Format(dateLayout),
		Time:           r.Time,
		TotalSeats:     r.TotalSeats,
		SeatsAvailable: r.SeatsAvailable,
		Luggage:        string(r.Luggage),
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}

func toContactResponse(c service.Contact) ContactResponse {
	return ContactResponse{
		Name:           c.Name,
		RegistrationNo: c.RegistrationNo,
		Phone:          c.Phone,
	}
}
