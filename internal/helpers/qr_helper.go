package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

var (
	ErrInvalidQRFormat    = errors.New("invalid QR data format")
	ErrInvalidQRSignature = errors.New("invalid QR signature")
)

const qrImageSize = 256

// TicketQRData builds the payload printed on a ticket's QR code.
func TicketQRData(ticketID, eventID uint, secretKey string) string {
	return fmt.Sprintf("ticket:%d;event:%d;signature:%s",
		ticketID,
		eventID,
		generateSignature(ticketID, eventID, secretKey),
	)
}

func EncodeTicketQR(ticketID, eventID uint, secretKey string) ([]byte, error) {
	return qrcode.Encode(TicketQRData(ticketID, eventID, secretKey), qrcode.Medium, qrImageSize)
}

// ParseTicketQRData returns the ticket id of a scanned payload after
// checking its signature.
func ParseTicketQRData(qrData, secretKey string) (uint, error) {
	parts := strings.Split(qrData, ";")
	if len(parts) != 3 ||
		!strings.HasPrefix(parts[0], "ticket:") ||
		!strings.HasPrefix(parts[1], "event:") ||
		!strings.HasPrefix(parts[2], "signature:") {
		return 0, ErrInvalidQRFormat
	}

	ticketID, err := ParseID(strings.TrimPrefix(parts[0], "ticket:"))
	if err != nil {
		return 0, ErrInvalidQRFormat
	}
	eventID, err := ParseID(strings.TrimPrefix(parts[1], "event:"))
	if err != nil {
		return 0, ErrInvalidQRFormat
	}

	signature := strings.TrimPrefix(parts[2], "signature:")
	expected := generateSignature(ticketID, eventID, secretKey)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return 0, ErrInvalidQRSignature
	}
	return ticketID, nil
}

func generateSignature(ticketID, eventID uint, secretKey string) string {
	h := hmac.New(sha256.New, []byte(secretKey))
	fmt.Fprintf(h, "%d:%d", ticketID, eventID)
	return hex.EncodeToString(h.Sum(nil))
}
