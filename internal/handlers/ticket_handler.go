package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/farellandr/ticketdesk/internal/helpers"
	"github.com/farellandr/ticketdesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

type TicketResponse struct {
	ID       uint   `json:"id"`
	EventID  uint   `json:"event_id"`
	Redeemed bool   `json:"redeemed"`
	SoldAt   string `json:"sold_at"`
}

func SellTicket(c *gin.Context) {
	eventID, ok := pathID(c, "Invalid event ID.")
	if !ok {
		return
	}

	svc, ok := ticketingService(c)
	if !ok {
		return
	}

	sale, err := svc.SellTicket(c.Request.Context(), eventID)
	if err != nil {
		helpers.RespondWithServiceError(c, err, "Failed to sell ticket.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          "Ticket sold in a successfully way.",
		"ticket_id":        sale.ConfirmationID,
		"issued_ticket_id": sale.TicketID,
	})
}

func RedeemTicket(c *gin.Context) {
	ticketID, ok := pathID(c, "Invalid ticket ID.")
	if !ok {
		return
	}

	svc, ok := ticketingService(c)
	if !ok {
		return
	}

	if err := svc.RedeemTicket(c.Request.Context(), ticketID); err != nil {
		helpers.RespondWithServiceError(c, err, "Failed to redeem ticket.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket redeemed successfully.",
	})
}

func GetTicket(c *gin.Context) {
	ticketID, ok := pathID(c, "Invalid ticket ID.")
	if !ok {
		return
	}

	svc, ok := ticketingService(c)
	if !ok {
		return
	}

	ticket, err := svc.GetTicket(c.Request.Context(), ticketID)
	if err != nil {
		helpers.RespondWithServiceError(c, err, "Error retrieving ticket.")
		return
	}

	c.JSON(http.StatusOK, TicketResponse{
		ID:       ticket.ID,
		EventID:  ticket.EventID,
		Redeemed: ticket.Redeemed,
		SoldAt:   ticket.SoldAt.UTC().Format(time.RFC3339),
	})
}

func GetTicketQR(c *gin.Context) {
	ticketID, ok := pathID(c, "Invalid ticket ID.")
	if !ok {
		return
	}

	svc, ok := ticketingService(c)
	if !ok {
		return
	}

	ticket, err := svc.GetTicket(c.Request.Context(), ticketID)
	if err != nil {
		helpers.RespondWithServiceError(c, err, "Error retrieving ticket.")
		return
	}

	qrImage, err := helpers.EncodeTicketQR(ticket.ID, ticket.EventID, middleware.GetQRSecret(c))
	if err != nil {
		_ = c.Error(err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

func RedeemTicketQR(c *gin.Context) {
	var req struct {
		QRData string `json:"qr_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	ticketID, err := helpers.ParseTicketQRData(req.QRData, middleware.GetQRSecret(c))
	if err != nil {
		if errors.Is(err, helpers.ErrInvalidQRSignature) {
			helpers.RespondWithError(c, http.StatusForbidden, "Invalid QR code signature.")
			return
		}
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid QR code format.")
		return
	}

	svc, ok := ticketingService(c)
	if !ok {
		return
	}

	if err := svc.RedeemTicket(c.Request.Context(), ticketID); err != nil {
		helpers.RespondWithServiceError(c, err, "Failed to redeem ticket.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Ticket redeemed successfully.",
		"ticket_id": ticketID,
	})
}
