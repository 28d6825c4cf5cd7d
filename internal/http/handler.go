package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"currency-ledger/internal/apperrors"
	"currency-ledger/internal/service"
)

const defaultRateLimit = "60-M"

// Options configures the HTTP layer.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	// RateLimit uses the limiter format, e.g. "60-M". It applies per client IP to
	// routes that call the rate provider.
	RateLimit string
	Logger    logrus.FieldLogger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	exchange  service.ExchangeService
	ledgers   service.LedgerService
	exports   service.ExportService
	jwtSecret []byte
	tokenTTL  time.Duration
	limiter   *limiter.Limiter
	logger    logrus.FieldLogger
}

func NewHandler(
	users service.UserService,
	exchange service.ExchangeService,
	ledgers service.LedgerService,
	exports service.ExportService,
	opts Options,
) (*Handler, error) {
	if opts.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.RateLimit == "" {
		opts.RateLimit = defaultRateLimit
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	rate, err := limiter.NewRateFromFormatted(opts.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit %q: %w", opts.RateLimit, err)
	}

	registerValidators()

	return &Handler{
		users:     users,
		exchange:  exchange,
		ledgers:   ledgers,
		exports:   exports,
		jwtSecret: []byte(opts.JWTSecret),
		tokenTTL:  opts.TokenTTL,
		limiter:   limiter.New(memory.NewStore(), rate),
		logger:    opts.Logger,
	}, nil
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogger())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		auth := api.Group("/auth")
		auth.POST("/register", h.rateLimit(), h.register)
		auth.POST("/login", h.rateLimit(), h.login)
		auth.GET("/me", h.requireAuth(), h.me)

		user := api.Group("/user", h.requireAuth())
		user.PUT("/profile", h.updateProfile)
		user.GET("/stats", h.stats)

		exchange := api.Group("/exchange")
		exchange.GET("/rates", h.rateLimit(), h.optionalAuth(), h.rates)
		exchange.GET("/convert", h.rateLimit(), h.convert)
		exchange.GET("/supported-currencies", h.rateLimit(), h.supportedCurrencies)
		exchange.POST("/save-conversion", h.requireAuth(), h.saveConversion)
		exchange.POST("/convert-and-save", h.requireAuth(), h.rateLimit(), h.convertAndSave)
		exchange.GET("/history", h.requireAuth(), h.history)
		exchange.GET("/recent", h.requireAuth(), h.recent)
		exchange.POST("/history/export", h.requireAuth(), h.exportHistory)
		exchange.GET("/history/exports", h.requireAuth(), h.listExports)
	}
}

// statusFor maps error kinds onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrProviderRejected):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrProviderUnavailable), errors.Is(err, apperrors.ErrProviderMalformed):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrExportDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		loggerFrom(c, h.logger).WithError(err).Error("request failed")
		message = "internal server error"
	} else {
		loggerFrom(c, h.logger).WithError(err).Debug("request rejected")
	}
	c.AbortWithStatusJSON(status, errorResponse{Success: false, Message: message})
}

func (h *Handler) bindError(c *gin.Context, err error) {
	h.writeError(c, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
}
