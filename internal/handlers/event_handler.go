package handlers

import (
	"net/http"

	"github.com/farellandr/ticketdesk/internal/helpers"
	"github.com/farellandr/ticketdesk/internal/middleware"
	"github.com/farellandr/ticketdesk/internal/service"
	"github.com/gin-gonic/gin"
)

type EventRequest struct {
	Name         string `json:"name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	TotalTickets int    `json:"total_tickets"`
}

type EventResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	TotalTickets    int    `json:"total_tickets"`
	TicketsSold     int    `json:"tickets_sold"`
	TicketsRedeemed int64  `json:"tickets_redeemed"`
}

func newEventResponse(view service.EventView) EventResponse {
	return EventResponse{
		ID:              view.ID,
		Name:            view.Name,
		StartDate:       service.FormatDate(view.StartDate),
		EndDate:         service.FormatDate(view.EndDate),
		TotalTickets:    view.TotalTickets,
		TicketsSold:     view.TicketsSold,
		TicketsRedeemed: view.TicketsRedeemed,
	}
}

func Index(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to the management tickets service")
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ticketingService aborts the request when the middleware did not run.
func ticketingService(c *gin.Context) (*service.Service, bool) {
	svc := middleware.GetService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Ticketing service not found.")
		return nil, false
	}
	return svc, true
}

func pathID(c *gin.Context, message string) (uint, bool) {
	id, err := helpers.ParseID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	svc, ok := ticketingService(c)
	if !ok {
		return
	}

	eventID, err := svc.CreateEvent(c.Request.Context(), service.CreateEventInput{
		Name:         req.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		TotalTickets: req.TotalTickets,
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err, "Failed to create event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Event created successfully.",
		"event_id": eventID,
	})
}

func GetEvent(c *gin.Context) {
	eventID, ok := pathID(c, "Invalid event ID.")
	if !ok {
		return
	}

	svc, ok := ticketingService(c)
	if !ok {
		return
	}

	view, err := svc.GetEventDetails(c.Request.Context(), eventID)
	if err != nil {
		helpers.RespondWithServiceError(c, err, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, newEventResponse(view))
}

func ListEvents(c *gin.Context) {
	svc, ok := ticketingService(c)
	if !ok {
		return
	}

	listing, err := svc.ListEvents(c.Request.Context())
	if err != nil {
		helpers.RespondWithServiceError(c, err, "Error retrieving events.")
		return
	}
	if listing.Result == service.ListingEmpty {
		helpers.RespondWithError(c, http.StatusNotFound, "No events found")
		return
	}

	events := make([]EventResponse, 0, len(listing.Events))
	for _, view := range listing.Events {
		events = append(events, newEventResponse(view))
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
	})
}

func UpdateEvent(c *gin.Context) {
	eventID, ok := pathID(c, "Invalid event ID.")
	if !ok {
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	svc, ok := ticketingService(c)
	if !ok {
		return
	}

	err := svc.UpdateEvent(c.Request.Context(), eventID, service.UpdateEventInput{
		Name:         req.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		TotalTickets: req.TotalTickets,
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
	})
}

func DeleteEvent(c *gin.Context) {
	eventID, ok := pathID(c, "Invalid event ID.")
	if !ok {
		return
	}

	svc, ok := ticketingService(c)
	if !ok {
		return
	}

	if err := svc.DeleteEvent(c.Request.Context(), eventID); err != nil {
		helpers.RespondWithServiceError(c, err, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "The event was deleted successfully.",
	})
}
