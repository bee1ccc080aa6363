package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/fernwell/choreboard/internal/auth"
	"github.com/fernwell/choreboard/internal/model"
)

// MemberSource loads family members and their PIN hashes for authentication.
type MemberSource interface {
	GetMember(id int64) (*model.FamilyMember, error)
	PINHash(id int64) (string, error)
}

// MemberAuth returns middleware that identifies the acting family member.
// The client supplies X-Member-ID on every request; members with a PIN set
// must also supply X-Member-PIN. The resolved member is placed on the
// request context for handlers to read via auth.Member.
func MemberAuth(members MemberSource, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idStr := r.Header.Get("X-Member-ID")
			if idStr == "" {
				http.Error(w, "missing member id", http.StatusUnauthorized)
				return
			}
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				http.Error(w, "invalid member id", http.StatusUnauthorized)
				return
			}

			member, err := members.GetMember(id)
			if err != nil {
				logger.Error("load member", "member_id", id, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if member == nil {
				http.Error(w, "unknown member", http.StatusUnauthorized)
				return
			}

			if member.HasPIN {
				hash, err := members.PINHash(id)
				if err != nil {
					logger.Error("load pin hash", "member_id", id, "error", err)
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				pin := r.Header.Get("X-Member-PIN")
				if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
					http.Error(w, "invalid pin", http.StatusUnauthorized)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(auth.WithMember(r.Context(), *member)))
		})
	}
}
