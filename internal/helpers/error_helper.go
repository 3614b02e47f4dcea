package helpers

import (
	"errors"
	"net/http"

	"github.com/farellandr/ticketdesk/internal/service"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithServiceError maps a service error onto a status code. Client
// errors carry their own message; anything unexpected is reported with
// fallback and recorded on the context for the request logger.
func RespondWithServiceError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		RespondWithError(c, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, service.ErrEventNotFound):
		RespondWithError(c, http.StatusNotFound, "Event not found.")
	case errors.Is(err, service.ErrTicketNotFound):
		RespondWithError(c, http.StatusNotFound, "Ticket not found.")
	case errors.Is(err, service.ErrCapacityExceeded):
		RespondWithError(c, http.StatusBadRequest, "No more tickets available for this event.")
	case errors.Is(err, service.ErrAlreadyRedeemed):
		RespondWithError(c, http.StatusBadRequest, "Ticket has already been redeemed.")
	case errors.Is(err, service.ErrOutOfWindow):
		RespondWithError(c, http.StatusBadRequest, "Ticket can only be redeemed during the event's duration.")
	default:
		_ = c.Error(err)
		RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
