package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
)

// TimeTokenTTL is how long a generated time token is accepted.
const TimeTokenTTL = 5 * time.Minute

// deriveKey turns an arbitrary-length API key into a fernet key.
func deriveKey(apiKey string) *fernet.Key {
	sum := sha256.Sum256([]byte(apiKey))
	key := fernet.Key(sum)
	return &key
}

// GenerateTimeToken returns a fernet token, signed with a key derived from apiKey,
// whose payload is the current Unix time. Callers of internal endpoints send it as X-Time-Token.
func GenerateTimeToken(apiKey string) string {
	tok, err := fernet.EncryptAndSign([]byte(strconv.FormatInt(time.Now().Unix(), 10)), deriveKey(apiKey))
	if err != nil {
		slog.Error("failed to generate time token", "error", err)
		return ""
	}
	return string(tok)
}

// APIKeyMiddleware protects internal endpoints. Requests must carry expected
// in X-API-Key and a time token from GenerateTimeToken, no older than
// TimeTokenTTL, in X-Time-Token. With an empty expected key every request is
// refused with 500.
func APIKeyMiddleware(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expected == "" {
				slog.Error("INTERNAL_API_KEY is not set, rejecting internal request", "path", r.URL.Path)
				response.RespondError(w, http.StatusInternalServerError, "internal server error", "Authentication not loaded")
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
				slog.Warn("invalid API key on internal endpoint", "path", r.URL.Path, "remoteAddr", r.RemoteAddr)
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}

			timeToken := r.Header.Get("X-Time-Token")
			if timeToken == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
				return
			}
			if fernet.VerifyAndDecrypt([]byte(timeToken), TimeTokenTTL, []*fernet.Key{deriveKey(expected)}) == nil {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
