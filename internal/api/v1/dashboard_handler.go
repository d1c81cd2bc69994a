package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/isroiljohn-creator/posbonbot/internal/api/response"
	"github.com/isroiljohn-creator/posbonbot/internal/model"
	"github.com/isroiljohn-creator/posbonbot/internal/session"
)

const dashboardRecentLogs = 10

type DashboardHandler struct {
	manager *session.Manager
}

func NewDashboardHandler(manager *session.Manager) *DashboardHandler {
	return &DashboardHandler{manager: manager}
}

func RegisterDashboardRoutes(group *gin.RouterGroup, manager *session.Manager) {
	handler := NewDashboardHandler(manager)
	group.GET("/dashboard", handler.Overview)
}

// Overview aggregates everything the landing view needs in one call.
func (h *DashboardHandler) Overview(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	logs := st.Logs("")
	if len(logs) > dashboardRecentLogs {
		logs = logs[len(logs)-dashboardRecentLogs:]
	}
	// Newest first for display.
	recent := make([]model.ModerationLog, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		recent = append(recent, logs[i])
	}

	response.Success(c, gin.H{
		"user":         st.User(),
		"subscription": st.Subscription(),
		"slots":        st.SlotOverview(),
		"boundGroups":  len(st.BoundGroups()),
		"totalGroups":  len(st.Groups()),
		"recentLogs":   recent,
	})
}
