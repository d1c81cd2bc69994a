package v1

import (
	"crypto/rsa"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/isroiljohn-creator/posbonbot/internal/api/response"
	"github.com/isroiljohn-creator/posbonbot/internal/locale"
	"github.com/isroiljohn-creator/posbonbot/internal/session"
	jwtutil "github.com/isroiljohn-creator/posbonbot/pkg/jwt"
	"github.com/isroiljohn-creator/posbonbot/pkg/telegram"
)

type AuthConfig struct {
	BotToken       string
	InitDataMaxAge time.Duration
	TokenTTL       time.Duration
	PrivateKey     *rsa.PrivateKey
}

type AuthHandler struct {
	manager *session.Manager
	locales *locale.Store
	cfg     AuthConfig
	logger  *zap.Logger
}

type telegramAuthRequest struct {
	InitData string `json:"initData" binding:"required"`
}

func NewAuthHandler(manager *session.Manager, locales *locale.Store, cfg AuthConfig, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		manager: manager,
		locales: locales,
		cfg:     cfg,
		logger:  logger,
	}
}

func RegisterAuthRoutes(group *gin.RouterGroup, manager *session.Manager, locales *locale.Store, cfg AuthConfig, logger *zap.Logger) {
	handler := NewAuthHandler(manager, locales, cfg, logger)
	auth := group.Group("/auth")
	auth.POST("/telegram", handler.Telegram)
}

// Telegram exchanges Mini-App init data for an access token and creates the
// admin session.
func (h *AuthHandler) Telegram(c *gin.Context) {
	var req telegramAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInternal, "invalid request")
		return
	}

	if err := telegram.VerifyInitData(req.InitData, h.cfg.BotToken, h.cfg.InitDataMaxAge); err != nil {
		if errors.Is(err, telegram.ErrAuthDateExpired) {
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenExpired, "init data expired")
			return
		}
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized, "unauthorized")
		return
	}

	identity, err := telegram.ParseIdentity(req.InitData)
	if err != nil || !identity.Available {
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized, "unauthorized")
		return
	}

	st := h.manager.Acquire(identity)
	if st == nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "internal error")
		return
	}
	user := st.User()

	claims := jwtutil.NewClaims(user.ID, user.TelegramID, user.Username, h.cfg.TokenTTL)
	token, err := jwtutil.GenerateAccessToken(claims, h.cfg.PrivateKey)
	if err != nil {
		h.logger.Error("sign access token failed", zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "internal error")
		return
	}

	language := locale.DefaultLanguage
	if h.locales != nil {
		language = h.locales.Get(c.Request.Context(), user.ID)
	}

	response.Success(c, gin.H{
		"token":    token,
		"user":     user,
		"language": language,
	})
}
