package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isroiljohn-creator/posbonbot/internal/api/response"
	"github.com/isroiljohn-creator/posbonbot/internal/session"
)

type GroupHandler struct {
	manager *session.Manager
}

func NewGroupHandler(manager *session.Manager) *GroupHandler {
	return &GroupHandler{manager: manager}
}

func RegisterGroupRoutes(group *gin.RouterGroup, manager *session.Manager) {
	handler := NewGroupHandler(manager)
	groups := group.Group("/groups")
	groups.GET("", handler.List)
	groups.POST("/:id/bind", handler.Bind)
	groups.POST("/:id/unbind", handler.Unbind)
}

func (h *GroupHandler) List(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	response.Success(c, gin.H{
		"groups":  st.Groups(),
		"bound":   st.BoundGroups(),
		"unbound": st.UnboundGroups(),
		"slots":   st.SlotOverview(),
	})
}

func (h *GroupHandler) Bind(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	groupID := c.Param("id")
	if !st.HasGroup(groupID) {
		response.Fail(c, http.StatusNotFound, response.ErrGroupNotFound, "group not found")
		return
	}

	for _, bound := range st.BoundGroups() {
		if bound.ID == groupID {
			response.Success(c, gin.H{"slots": st.SlotOverview()})
			return
		}
	}

	if st.SlotOverview().Free <= 0 {
		response.Fail(c, http.StatusConflict, response.ErrSlotLimit, "no free premium slots")
		return
	}

	st.BindGroup(groupID)
	response.Success(c, gin.H{"slots": st.SlotOverview()})
}

func (h *GroupHandler) Unbind(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	groupID := c.Param("id")
	if !st.HasGroup(groupID) {
		response.Fail(c, http.StatusNotFound, response.ErrGroupNotFound, "group not found")
		return
	}

	st.UnbindGroup(groupID)
	response.Success(c, gin.H{"slots": st.SlotOverview()})
}
