package middleware

import (
	"context"
	"net/http"

	"github.com/heya-pos/HEYA-BookingService/internal/api/handlers"
)

type contextKey string

// MerchantIDKey ключ контекста с ID мерчанта
const MerchantIDKey contextKey = "merchantID"

// MerchantIDHeader заголовок аутентификации.
// Идентичность мерчанта проверяет API gateway, сюда приходит готовый ID.
const MerchantIDHeader = "X-Merchant-ID"

// Auth требует наличия X-Merchant-ID и кладет его в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		merchantID := r.Header.Get(MerchantIDHeader)
		if merchantID == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "missing X-Merchant-ID header")
			return
		}

		ctx := context.WithValue(r.Context(), MerchantIDKey, merchantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MerchantID извлекает ID мерчанта из контекста запроса
func MerchantID(ctx context.Context) string {
	if v, ok := ctx.Value(MerchantIDKey).(string); ok {
		return v
	}
	return ""
}
