// Package routes wires handlers and middleware onto the gin engine.
package routes

import (
	"github.com/gin-gonic/gin"

	vo "github.com/innovinitylabs/x402/internal/domain/session/valueobjects"
	"github.com/innovinitylabs/x402/internal/interfaces/http/handlers"
	"github.com/innovinitylabs/x402/internal/interfaces/http/middleware"
)

// PaymentRouteConfig holds dependencies for the payment-gated routes.
type PaymentRouteConfig struct {
	DonationHandler *handlers.DonationHandler
	ServiceHandler  *handlers.ServiceHandler
	Gateway         *middleware.PaymentGateway
	DonationPrice   vo.Money
	ServicePrice    vo.Money
	PremiumPrice    vo.Money
}

// SetupPaymentRoutes configures the gated action routes plus the ungated
// consume route. Each gated route declares its own price policy.
func SetupPaymentRoutes(engine *gin.Engine, cfg *PaymentRouteConfig) {
	api := engine.Group("/api")
	{
		api.POST("/donate",
			cfg.Gateway.Require(middleware.RoutePolicy{
				Description: "Support this project with a donation",
				Price:       cfg.DonationPrice,
			}),
			cfg.DonationHandler.Donate,
		)
		api.POST("/donate/custom",
			cfg.Gateway.Require(middleware.RoutePolicy{
				Description:  "Support this project with a donation of your choice",
				CallerAmount: true,
			}),
			cfg.DonationHandler.DonateCustom,
		)

		api.POST("/pay/service",
			cfg.Gateway.Require(middleware.RoutePolicy{
				Description: "Pay-per-call AI service access",
				Price:       cfg.ServicePrice,
			}),
			cfg.ServiceHandler.PayService,
		)
		api.POST("/pay/premium",
			cfg.Gateway.Require(middleware.RoutePolicy{
				Description: "Premium AI service access",
				Price:       cfg.PremiumPrice,
			}),
			cfg.ServiceHandler.PayPremium,
		)

		// Redeeming an existing session needs no new payment.
		api.POST("/service", cfg.ServiceHandler.Consume)
	}
}
