package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isroiljohn-creator/posbonbot/internal/api/response"
	"github.com/isroiljohn-creator/posbonbot/internal/model"
	"github.com/isroiljohn-creator/posbonbot/internal/session"
)

type SettingsHandler struct {
	manager *session.Manager
}

func NewSettingsHandler(manager *session.Manager) *SettingsHandler {
	return &SettingsHandler{manager: manager}
}

func RegisterSettingsRoutes(group *gin.RouterGroup, manager *session.Manager) {
	handler := NewSettingsHandler(manager)
	groups := group.Group("/groups")
	groups.GET("/:id/settings", handler.Get)
	groups.PUT("/:id/settings", handler.Update)
}

// Get returns the cached settings for a group, or the defaults when no record
// has arrived yet. The sync state tells the caller how much to trust them.
func (h *SettingsHandler) Get(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	groupID := c.Param("id")
	if !st.HasGroup(groupID) {
		response.Fail(c, http.StatusNotFound, response.ErrGroupNotFound, "group not found")
		return
	}

	settings, cached := st.GroupSettings(groupID)
	if !cached {
		settings = model.DefaultGroupSettings(groupID)
	}

	payload := gin.H{
		"settings":  settings,
		"cached":    cached,
		"syncState": st.SettingsSyncState(groupID),
	}
	if saveErr, failed := st.LastSaveError(groupID); failed {
		payload["lastSaveError"] = saveErr
	}

	response.Success(c, payload)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	groupID := c.Param("id")
	if !st.HasGroup(groupID) {
		response.Fail(c, http.StatusNotFound, response.ErrGroupNotFound, "group not found")
		return
	}

	var patch model.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrSettingsRejected, "invalid settings payload")
		return
	}
	if msg, valid := validatePatch(patch); !valid {
		response.Fail(c, http.StatusBadRequest, response.ErrSettingsRejected, msg)
		return
	}

	updated := st.UpdateGroupSettings(groupID, patch)
	response.Success(c, gin.H{
		"settings":  updated,
		"syncState": st.SettingsSyncState(groupID),
	})
}

func validatePatch(patch model.SettingsPatch) (string, bool) {
	if patch.ActionOnLimit != nil {
		switch *patch.ActionOnLimit {
		case model.WarnActionMute, model.WarnActionKick:
		default:
			return "invalid actionOnLimit", false
		}
	}
	if patch.CaptchaType != nil {
		switch *patch.CaptchaType {
		case model.CaptchaTypeButton, model.CaptchaTypeMath:
		default:
			return "invalid captchaType", false
		}
	}
	if patch.CaptchaFailAction != nil {
		switch *patch.CaptchaFailAction {
		case model.CaptchaFailKick, model.CaptchaFailMute:
		default:
			return "invalid captchaFailAction", false
		}
	}
	for _, bound := range []struct {
		name  string
		value *int
	}{
		{"floodMessagesLimit", patch.FloodMessagesLimit},
		{"floodIntervalSeconds", patch.FloodIntervalSeconds},
		{"warnLimit", patch.WarnLimit},
		{"captchaTimeoutSeconds", patch.CaptchaTimeoutSeconds},
		{"readOnlyDurationSeconds", patch.ReadOnlyDurationSeconds},
	} {
		if bound.value != nil && *bound.value <= 0 {
			return "invalid " + bound.name, false
		}
	}
	return "", true
}
