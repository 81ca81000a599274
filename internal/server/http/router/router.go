package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/server/http/handlers"
	"github.com/mkraev/loanledger/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.LoanFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	customerHandler := handlers.NewCustomerHandler(facade)
	loanHandler := handlers.NewLoanHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.GET("/auth/me", authHandler.Me)

	lifecycle := middleware.RoleRequired(model.RoleAdmin, model.RoleManager)

	customers := authed.Group("/customers")
	customers.POST("", customerHandler.Create)
	customers.GET("", customerHandler.List)
	customers.GET("/:id", customerHandler.Get)
	customers.PUT("/:id", customerHandler.Update)
	customers.DELETE("/:id", middleware.RoleRequired(model.RoleAdmin), customerHandler.Delete)
	customers.GET("/:id/loans", loanHandler.ListByCustomer)

	loans := authed.Group("/loans")
	loans.POST("", loanHandler.Create)
	loans.GET("/:id", loanHandler.Get)
	loans.POST("/:id/approve", lifecycle, loanHandler.Approve)
	loans.POST("/:id/disburse", lifecycle, loanHandler.Disburse)
	loans.POST("/:id/default", lifecycle, loanHandler.MarkDefault)
	loans.POST("/:id/close", lifecycle, loanHandler.Close)
	loans.GET("/:id/schedule", loanHandler.Schedule)
	loans.POST("/:id/schedule/:number/waive", lifecycle, loanHandler.Waive)
	loans.POST("/:id/payments", paymentHandler.Post)
	loans.GET("/:id/payments", paymentHandler.List)

	return engine
}
