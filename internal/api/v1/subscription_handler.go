package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/isroiljohn-creator/posbonbot/internal/api/response"
	"github.com/isroiljohn-creator/posbonbot/internal/model"
	"github.com/isroiljohn-creator/posbonbot/internal/session"
)

// planCatalog backs the upgrade page. Purchases happen outside this service,
// so the catalog is static.
var planCatalog = []model.SubscriptionPlan{
	{ID: model.PlanFree, Name: "Free", Price: 0, Slots: 1, Features: []string{"1 group", "basic moderation"}},
	{ID: model.PlanBasic, Name: "Basic", Price: 5, Slots: 3, Features: []string{"3 groups", "flood control", "captcha"}},
	{ID: model.PlanPro, Name: "Pro", Price: 15, Slots: 10, Features: []string{"10 groups", "all moderation tools", "priority support"}},
	{ID: model.PlanEnterprise, Name: "Enterprise", Price: 50, Slots: 50, Features: []string{"50 groups", "all moderation tools", "dedicated support"}},
}

type SubscriptionHandler struct {
	manager *session.Manager
}

func NewSubscriptionHandler(manager *session.Manager) *SubscriptionHandler {
	return &SubscriptionHandler{manager: manager}
}

func RegisterSubscriptionRoutes(group *gin.RouterGroup, manager *session.Manager) {
	handler := NewSubscriptionHandler(manager)
	group.GET("/subscription", handler.Get)
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	response.Success(c, gin.H{
		"subscription": st.Subscription(),
		"slots":        st.SlotOverview(),
		"plans":        planCatalog,
	})
}
