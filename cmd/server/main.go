package main

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/isroiljohn-creator/posbonbot/internal/api/middleware"
	v1 "github.com/isroiljohn-creator/posbonbot/internal/api/v1"
	"github.com/isroiljohn-creator/posbonbot/internal/botapi"
	"github.com/isroiljohn-creator/posbonbot/internal/locale"
	"github.com/isroiljohn-creator/posbonbot/internal/repository/sqlite"
	"github.com/isroiljohn-creator/posbonbot/internal/scheduler"
	"github.com/isroiljohn-creator/posbonbot/internal/session"
	"github.com/isroiljohn-creator/posbonbot/internal/store"
	logring "github.com/isroiljohn-creator/posbonbot/pkg/logger"
	"github.com/isroiljohn-creator/posbonbot/pkg/telegram"
)

type Config struct {
	App struct {
		Env string `mapstructure:"env"`
	} `mapstructure:"app"`
	Server struct {
		Host            string        `mapstructure:"host"`
		Port            int           `mapstructure:"port"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`
	BotAPI struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"botapi"`
	Telegram struct {
		BotToken     string `mapstructure:"bot_token"`
		BotTokenFile string `mapstructure:"bot_token_file"`
	} `mapstructure:"telegram"`
	Auth struct {
		InitDataMaxAge time.Duration `mapstructure:"init_data_max_age"`
		TokenTTL       time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`
	Session struct {
		IdleTTL time.Duration `mapstructure:"idle_ttl"`
	} `mapstructure:"session"`
	Prefs struct {
		DBPath string `mapstructure:"db_path"`
	} `mapstructure:"prefs"`
	Log struct {
		Level    string `mapstructure:"level"`
		Encoding string `mapstructure:"encoding"`
	} `mapstructure:"log"`
	Security struct {
		InternalToken     string `mapstructure:"internal_token"`
		InternalTokenFile string `mapstructure:"internal_token_file"`
	} `mapstructure:"security"`
	CORS struct {
		AllowOrigins []string `mapstructure:"allow_origins"`
	} `mapstructure:"cors"`
}

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(runHealthcheck())
	}

	cfg, err := loadConfig()
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	logger, ring, err := newLogger(cfg)
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer logger.Sync() //nolint:errcheck

	isDebugMode := strings.EqualFold(cfg.App.Env, "development")
	if !isDebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	prefs, err := sqlite.Open(cfg.Prefs.DBPath)
	if err != nil {
		logger.Fatal("open preferences database failed", zap.Error(err))
	}
	defer prefs.Close() //nolint:errcheck

	jwtPrivateKey, err := loadRSAPrivateKey()
	if err != nil {
		logger.Fatal("load jwt private key failed", zap.Error(err))
	}

	apiClient := botapi.NewClient(cfg.BotAPI.BaseURL, &http.Client{Timeout: cfg.BotAPI.Timeout})
	locales := locale.NewStore(prefs, logger)

	manager := session.NewManager(func(identity telegram.Identity) *store.Store {
		return store.New(identity, apiClient, logger)
	}, cfg.Session.IdleTTL, logger)
	defer manager.Close()

	cronRunner := scheduler.NewScheduler(scheduler.Deps{
		SessionJob: manager,
	}, logger)
	cronRunner.Start()
	defer func() {
		stopCtx := cronRunner.Stop()
		select {
		case <-stopCtx.Done():
		case <-time.After(2 * time.Second):
		}
	}()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(buildCORSMiddleware(cfg))
	router.Use(middleware.RequestLogger(logger))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	readyHandler := func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := prefs.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"error":  "preferences database unavailable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
	router.GET("/health", healthHandler)
	router.GET("/health/ready", readyHandler)
	router.GET("/api/v1/health", healthHandler)
	router.GET("/api/v1/health/ready", readyHandler)

	internalMetrics := router.Group("/internal")
	internalMetrics.Use(middleware.InternalTokenAuth(cfg.Security.InternalToken))
	internalMetrics.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	v1.RegisterAuthRoutes(apiV1, manager, locales, v1.AuthConfig{
		BotToken:       cfg.Telegram.BotToken,
		InitDataMaxAge: cfg.Auth.InitDataMaxAge,
		TokenTTL:       cfg.Auth.TokenTTL,
		PrivateKey:     jwtPrivateKey,
	}, logger)

	protected := apiV1.Group("")
	protected.Use(middleware.JWTAuth())
	v1.RegisterDashboardRoutes(protected, manager)
	v1.RegisterGroupRoutes(protected, manager)
	v1.RegisterSettingsRoutes(protected, manager)
	v1.RegisterWordRoutes(protected, manager)
	v1.RegisterLogRoutes(protected, manager)
	v1.RegisterSubscriptionRoutes(protected, manager)
	v1.RegisterLocaleRoutes(protected, manager, locales)
	v1.RegisterSystemRoutes(protected, ring)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	logger.Info("server started",
		zap.String("addr", srv.Addr),
		zap.String("version", Version),
		zap.String("commit", Commit),
		zap.String("build_time", BuildTime),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			logger.Fatal("server exited unexpectedly", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown server failed", zap.Error(err))
	}
}

func loadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MODERBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("telegram.bot_token", "MODERBOT_TELEGRAM_BOT_TOKEN", "BOT_TOKEN")

	v.SetDefault("app.env", "development")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("botapi.base_url", botapi.DefaultBaseURL)
	v.SetDefault("botapi.timeout", "10s")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.bot_token_file", "")
	v.SetDefault("auth.init_data_max_age", "24h")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("prefs.db_path", "moderbot-prefs.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("security.internal_token", "")
	v.SetDefault("security.internal_token_file", "")
	v.SetDefault("cors.allow_origins", []string{"http://localhost:5173"})

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return Config{}, fmt.Errorf("read config file failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config failed: %w", err)
	}

	if strings.TrimSpace(cfg.Telegram.BotToken) == "" && strings.TrimSpace(cfg.Telegram.BotTokenFile) != "" {
		// #nosec G304 -- path is provided by operator config.
		raw, err := os.ReadFile(strings.TrimSpace(cfg.Telegram.BotTokenFile))
		if err != nil {
			return Config{}, fmt.Errorf("read telegram.bot_token_file failed: %w", err)
		}
		cfg.Telegram.BotToken = strings.TrimSpace(string(raw))
	}
	if strings.TrimSpace(cfg.Security.InternalToken) == "" && strings.TrimSpace(cfg.Security.InternalTokenFile) != "" {
		// #nosec G304 -- path is provided by operator config.
		raw, err := os.ReadFile(strings.TrimSpace(cfg.Security.InternalTokenFile))
		if err != nil {
			return Config{}, fmt.Errorf("read security.internal_token_file failed: %w", err)
		}
		cfg.Security.InternalToken = strings.TrimSpace(string(raw))
	}

	if strings.TrimSpace(cfg.BotAPI.BaseURL) == "" {
		return Config{}, errors.New("botapi.base_url is required")
	}
	if cfg.BotAPI.Timeout <= 0 {
		return Config{}, errors.New("botapi.timeout must be greater than 0")
	}
	if strings.TrimSpace(cfg.Telegram.BotToken) == "" && !strings.EqualFold(cfg.App.Env, "development") {
		return Config{}, errors.New("telegram.bot_token is required outside development")
	}
	if cfg.Auth.InitDataMaxAge <= 0 {
		return Config{}, errors.New("auth.init_data_max_age must be greater than 0")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return Config{}, errors.New("auth.token_ttl must be greater than 0")
	}
	if strings.TrimSpace(cfg.Prefs.DBPath) == "" {
		return Config{}, errors.New("prefs.db_path is required")
	}

	if len(cfg.CORS.AllowOrigins) == 0 {
		return Config{}, errors.New("cors.allow_origins must not be empty")
	}
	for _, origin := range cfg.CORS.AllowOrigins {
		if strings.TrimSpace(origin) == "*" {
			return Config{}, errors.New("cors.allow_origins must not contain wildcard *")
		}
	}

	return cfg, nil
}

func newLogger(cfg Config) (*zap.Logger, *logring.Ring, error) {
	var zapCfg zap.Config
	if strings.EqualFold(cfg.App.Env, "development") {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.Log.Level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log.level: %w", err)
		}
	}
	if cfg.Log.Encoding != "" {
		zapCfg.Encoding = cfg.Log.Encoding
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build zap logger failed: %w", err)
	}

	ring := logring.NewRing(1000)
	logger = logring.WrapZapLogger(logger, ring)
	return logger, ring, nil
}

func buildCORSMiddleware(cfg Config) gin.HandlerFunc {
	origins := make([]string, 0, len(cfg.CORS.AllowOrigins))
	for _, origin := range cfg.CORS.AllowOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		origins = append(origins, trimmed)
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func loadRSAPrivateKey() (*rsa.PrivateKey, error) {
	pem := strings.TrimSpace(os.Getenv("MODERBOT_JWT_PRIVATE_KEY"))
	if pem == "" {
		path := strings.TrimSpace(os.Getenv("MODERBOT_JWT_PRIVATE_KEY_FILE"))
		if path != "" {
			// #nosec G304 -- path is provided by operator environment variable.
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			pem = string(raw)
		}
	}
	if pem == "" {
		return nil, errors.New("jwt private key not configured")
	}
	return jwt.ParseRSAPrivateKeyFromPEM([]byte(pem))
}

func runHealthcheck() int {
	port := 8080
	if cfg, err := loadConfig(); err == nil {
		port = cfg.Server.Port
	}

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/health", port))
	if err != nil {
		return 1
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return 1
	}
	return 0
}
