package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isroiljohn-creator/posbonbot/internal/api/response"
	"github.com/isroiljohn-creator/posbonbot/internal/locale"
	"github.com/isroiljohn-creator/posbonbot/internal/session"
)

type LocaleHandler struct {
	manager *session.Manager
	locales *locale.Store
}

type setLocaleRequest struct {
	Language string `json:"language" binding:"required"`
}

func NewLocaleHandler(manager *session.Manager, locales *locale.Store) *LocaleHandler {
	return &LocaleHandler{manager: manager, locales: locales}
}

func RegisterLocaleRoutes(group *gin.RouterGroup, manager *session.Manager, locales *locale.Store) {
	handler := NewLocaleHandler(manager, locales)
	group.GET("/locale", handler.Get)
	group.PUT("/locale", handler.Set)
}

func (h *LocaleHandler) Get(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	lang := h.locales.Get(c.Request.Context(), st.User().ID)
	response.Success(c, gin.H{
		"language": lang,
		"strings":  locale.Strings(lang),
	})
}

func (h *LocaleHandler) Set(c *gin.Context) {
	st, ok := sessionStore(c, h.manager)
	if !ok {
		return
	}

	var req setLocaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrLocaleUnsupported, "invalid request")
		return
	}

	lang := locale.Language(req.Language)
	if err := h.locales.Set(c.Request.Context(), st.User().ID, lang); err != nil {
		if errors.Is(err, locale.ErrUnsupported) {
			response.Fail(c, http.StatusBadRequest, response.ErrLocaleUnsupported, "unsupported language")
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "internal error")
		return
	}

	response.Success(c, gin.H{
		"language": lang,
		"strings":  locale.Strings(lang),
	})
}
