package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// PaymentChecker reports whether a user has completed the one-time payment.
type PaymentChecker interface {
	HasPaid(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RequirePayment rejects users without a completed payment with 402. It must run after
// AuthMiddleware. A nil checker lets every request through.
func RequirePayment(checker PaymentChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if checker == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := GetUserID(r)
			if err != nil {
				unauthorized(w)
				return
			}

			paid, err := checker.HasPaid(r.Context(), userID)
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, "payment_check_failed", "Could not check your payment status.")
				return
			}
			if !paid {
				writeJSONError(w, http.StatusPaymentRequired, "payment_required", "A one-time payment is required to use the resume builder.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}
