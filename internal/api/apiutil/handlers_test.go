package apiutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codr1/Courtbook/internal/booking"
)

func TestWriteErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		code       string
		retryAfter string
	}{
		{"busy", &booking.Error{Kind: booking.KindBusy, Code: booking.CodeBusy, Message: "retry"}, http.StatusServiceUnavailable, "Busy", "1"},
		{"conflict", &booking.Error{Kind: booking.KindConflict, Code: booking.CodeSlotTaken, Message: "taken"}, http.StatusConflict, "SlotTaken", ""},
		{"handler", HandlerError{Status: http.StatusTooManyRequests, Message: "slow down"}, http.StatusTooManyRequests, "RateLimited", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest("POST", "/api/v1/reservations", nil), tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := rec.Header().Get("Retry-After"); got != tt.retryAfter {
				t.Fatalf("Retry-After = %q, want %q", got, tt.retryAfter)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tt.code {
				t.Fatalf("error code = %q, want %q", body.Error, tt.code)
			}
		})
	}
}
