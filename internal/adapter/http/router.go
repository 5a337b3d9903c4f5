package http

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rogerzombo-blip/DonFood/internal/adapter/http/middleware"
)

func NewRouter(ph *PaymentHandler, wh *WebhookHandler, l *slog.Logger, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())
	r.Use(middleware.Logging(l))

	if len(allowedOrigins) > 0 {
		cc := cors.DefaultConfig()
		cc.AllowOrigins = allowedOrigins
		cc.AllowCredentials = true
		cc.AllowHeaders = append(cc.AllowHeaders, "Stripe-Signature")
		r.Use(cors.New(cc))
	}

	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", ph.Health)
	r.GET("/config", ph.Config)
	r.POST("/create-payment-intent", ph.CreatePaymentIntent)
	r.POST("/confirm-payment", ph.ConfirmPayment)
	r.GET("/payment-intent/:id", ph.GetPaymentIntent)
	r.POST("/refund", ph.Refund)
	r.POST("/webhook", wh.Handle)

	return r
}
