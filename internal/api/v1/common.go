package v1

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/isroiljohn-creator/posbonbot/internal/api/middleware"
	"github.com/isroiljohn-creator/posbonbot/internal/api/response"
	"github.com/isroiljohn-creator/posbonbot/internal/session"
	"github.com/isroiljohn-creator/posbonbot/internal/store"
	"github.com/isroiljohn-creator/posbonbot/pkg/telegram"
)

// sessionStore resolves the caller's admin store from their claims. A valid
// token with no live session (service restart, idle sweep) transparently
// re-creates one, which restarts the background sync.
func sessionStore(c *gin.Context, manager *session.Manager) (*store.Store, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Fail(c, 401, response.ErrUnauthorized, "unauthorized")
		return nil, false
	}

	st := manager.Acquire(telegram.Identity{
		Available: true,
		UserID:    claims.TelegramID,
		Username:  claims.Username,
	})
	if st == nil {
		response.Fail(c, 500, response.ErrInternal, "internal error")
		return nil, false
	}
	return st, true
}

func parseIntOrDefault(raw string, fallback int) int {
	value := strings.TrimSpace(raw)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
