package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isroiljohn-creator/posbonbot/internal/api/response"
	"github.com/isroiljohn-creator/posbonbot/internal/api/sanitize"
	"github.com/isroiljohn-creator/posbonbot/internal/model"
	"github.com/isroiljohn-creator/posbonbot/internal/session"
)

type WordHandler struct {
	manager *session.Manager
}

type addWordRequest struct {
	Word     string `json:"word"`
	Category string `json:"category"`
}

func NewWordHandler(manager *session.Manager) *WordHandler {
	return &WordHandler{manager: manager}
}

func RegisterWordRoutes(group *gin.RouterGroup, manager *session.Manager) {
	handler := NewWordHandler(manager)
	groups := group.Group("/groups")
	groups.GET("/:id/words", handler.List)
	groups.POST("/:id/words", handler.Add)
	groups.DELETE("/:id/words/:wordId", handler.Remove)
}

func (h *WordHandler) List(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	groupID := c.Param("id")
	if !st.HasGroup(groupID) {
		response.Fail(c, http.StatusNotFound, response.ErrGroupNotFound, "group not found")
		return
	}

	response.Success(c, gin.H{"words": st.ForbiddenWords(groupID)})
}

func (h *WordHandler) Add(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	groupID := c.Param("id")
	if !st.HasGroup(groupID) {
		response.Fail(c, http.StatusNotFound, response.ErrGroupNotFound, "group not found")
		return
	}

	var req addWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrEmptyWord, "invalid request")
		return
	}

	word := sanitize.Text(req.Word)
	if word == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrEmptyWord, "word must not be empty")
		return
	}

	category := model.WordCategory(req.Category)
	if category == "" {
		category = model.WordCategoryCustom
	}
	if !model.ValidWordCategory(category) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidCategory, "invalid category")
		return
	}

	entry := st.AddForbiddenWord(groupID, word, category)
	response.Success(c, entry)
}

func (h *WordHandler) Remove(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	groupID := c.Param("id")
	if !st.HasGroup(groupID) {
		response.Fail(c, http.StatusNotFound, response.ErrGroupNotFound, "group not found")
		return
	}

	if !st.RemoveForbiddenWord(groupID, c.Param("wordId")) {
		response.Fail(c, http.StatusNotFound, response.ErrWordNotFound, "word not found")
		return
	}
	response.Success(c, nil)
}
