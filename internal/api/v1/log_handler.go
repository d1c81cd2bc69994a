package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/isroiljohn-creator/posbonbot/internal/api/response"
	"github.com/isroiljohn-creator/posbonbot/internal/api/sanitize"
	"github.com/isroiljohn-creator/posbonbot/internal/model"
	"github.com/isroiljohn-creator/posbonbot/internal/session"
)

const (
	defaultLogPageSize = 20
	maxLogPageSize     = 100
)

type LogHandler struct {
	manager *session.Manager
}

func NewLogHandler(manager *session.Manager) *LogHandler {
	return &LogHandler{manager: manager}
}

func RegisterLogRoutes(group *gin.RouterGroup, manager *session.Manager) {
	handler := NewLogHandler(manager)
	group.GET("/logs", handler.List)
}

// List returns moderation records newest first, optionally narrowed by
// group_id, action and reason, with envelope pagination.
func (h *LogHandler) List(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	groupID := c.Query("group_id")
	if groupID != "" && !st.HasGroup(groupID) {
		response.Fail(c, 404, response.ErrGroupNotFound, "group not found")
		return
	}

	action := model.LogAction(c.Query("action"))
	reason := model.LogReason(c.Query("reason"))

	logs := st.Logs(groupID)
	filtered := make([]model.ModerationLog, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		entry := logs[i]
		if action != "" && entry.Action != action {
			continue
		}
		if reason != "" && entry.Reason != reason {
			continue
		}
		entry.Username = sanitize.TextPtr(entry.Username)
		if entry.Details != nil {
			cleaned := sanitize.Detail(*entry.Details)
			entry.Details = &cleaned
		}
		filtered = append(filtered, entry)
	}

	page := parseIntOrDefault(c.Query("page"), 1)
	pageSize := parseIntOrDefault(c.Query("page_size"), defaultLogPageSize)
	if pageSize > maxLogPageSize {
		pageSize = maxLogPageSize
	}

	total := len(filtered)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	response.Paginated(c, filtered[start:end], page, pageSize, int64(total))
}
