// Package http assembles the HTTP surface: engine, middleware, handlers and
// routes.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/innovinitylabs/x402/internal/application/session/usecases"
	"github.com/innovinitylabs/x402/internal/domain/session"
	vo "github.com/innovinitylabs/x402/internal/domain/session/valueobjects"
	"github.com/innovinitylabs/x402/internal/infrastructure/config"
	"github.com/innovinitylabs/x402/internal/infrastructure/facilitator"
	"github.com/innovinitylabs/x402/internal/infrastructure/repository"
	"github.com/innovinitylabs/x402/internal/infrastructure/scheduler"
	"github.com/innovinitylabs/x402/internal/interfaces/http/handlers"
	"github.com/innovinitylabs/x402/internal/interfaces/http/middleware"
	"github.com/innovinitylabs/x402/internal/interfaces/http/routes"
	"github.com/innovinitylabs/x402/internal/shared/logger"
)

// Router wires the payment gateway and its handlers onto a gin engine.
type Router struct {
	engine          *gin.Engine
	cfg             *config.Config
	donationHandler *handlers.DonationHandler
	serviceHandler  *handlers.ServiceHandler
	sessionHandler  *handlers.SessionHandler
	healthHandler   *handlers.HealthHandler
	gateway         *middleware.PaymentGateway
	reaper          *scheduler.SessionReaper
}

// NewRouter builds the full dependency graph: store, facilitator client,
// use cases, handlers and the reaper. redisClient may be nil when the memory
// store is configured.
func NewRouter(cfg *config.Config, redisClient *redis.Client, log logger.Interface) *Router {
	engine := gin.New()

	retention := time.Duration(cfg.Session.RetainExpiredMinutes) * time.Minute

	var repo session.Repository
	if cfg.Session.Store == "redis" {
		repo = repository.NewRedisSessionRepository(redisClient, retention)
	} else {
		repo = repository.NewMemorySessionRepository()
	}

	verifier := facilitator.NewClient(
		cfg.Payment.FacilitatorURL,
		time.Duration(cfg.Payment.VerifyTimeoutSecs)*time.Second,
		log.Named("facilitator"),
	)
	gateway := middleware.NewPaymentGateway(verifier, &cfg.Payment, cfg.Server.BaseURL, log.Named("gateway"))

	donationTTL := time.Duration(cfg.Session.DonationTTLMinutes) * time.Minute
	customTTL := time.Duration(cfg.Session.CustomTTLMinutes) * time.Minute
	serviceTTL := time.Duration(cfg.Session.ServiceTTLMinutes) * time.Minute
	premiumTTL := time.Duration(cfg.Session.PremiumTTLMinutes) * time.Minute

	createDonationUC := usecases.NewCreateDonationUseCase(repo, donationTTL, customTTL, log)
	createServiceUC := usecases.NewCreateServiceUseCase(repo, usecases.DefaultServiceFunc, serviceTTL, premiumTTL, log)
	consumeServiceUC := usecases.NewConsumeServiceUseCase(repo, usecases.DefaultServiceFunc, log)
	validateSessionUC := usecases.NewValidateSessionUseCase(repo, log)
	listSessionsUC := usecases.NewListActiveSessionsUseCase(repo, log)
	reapUC := usecases.NewReapExpiredSessionsUseCase(repo, retention, log)

	donationHandler := handlers.NewDonationHandler(createDonationUC, vo.NewMoney(cfg.Payment.DonationPriceCents))
	serviceHandler := handlers.NewServiceHandler(
		createServiceUC,
		consumeServiceUC,
		vo.NewMoney(cfg.Payment.ServicePriceCents),
		vo.NewMoney(cfg.Payment.PremiumPriceCents),
	)
	sessionHandler := handlers.NewSessionHandler(validateSessionUC, listSessionsUC)
	healthHandler := handlers.NewHealthHandler(&cfg.Payment, &cfg.Session)

	var reaper *scheduler.SessionReaper
	if cfg.Session.ReaperEnabled {
		interval := time.Duration(cfg.Session.ReaperIntervalMins) * time.Minute
		reaper = scheduler.NewSessionReaper(reapUC, interval, log.Named("reaper"))
	}

	return &Router{
		engine:          engine,
		cfg:             cfg,
		donationHandler: donationHandler,
		serviceHandler:  serviceHandler,
		sessionHandler:  sessionHandler,
		healthHandler:   healthHandler,
		gateway:         gateway,
		reaper:          reaper,
	}
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(logger.NewLogger()))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	routes.SetupPaymentRoutes(r.engine, &routes.PaymentRouteConfig{
		DonationHandler: r.donationHandler,
		ServiceHandler:  r.serviceHandler,
		Gateway:         r.gateway,
		DonationPrice:   vo.NewMoney(r.cfg.Payment.DonationPriceCents),
		ServicePrice:    vo.NewMoney(r.cfg.Payment.ServicePriceCents),
		PremiumPrice:    vo.NewMoney(r.cfg.Payment.PremiumPriceCents),
	})

	routes.SetupSessionRoutes(r.engine, &routes.SessionRouteConfig{
		SessionHandler: r.sessionHandler,
		HealthHandler:  r.healthHandler,
	})
}

// Reaper returns the background session reaper, nil when disabled.
func (r *Router) Reaper() *scheduler.SessionReaper {
	return r.reaper
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
