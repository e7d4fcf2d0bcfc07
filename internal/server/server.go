package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/address"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/auth"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/cart"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/config"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/email"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/game"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/order"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/user"
	"github.com/Anuj2006-ux/joy-juncture-sub001/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	userHandler := user.NewHandler(db, emailService, cfg.JWTSecret)
	gameHandler := game.NewHandler(db)
	cartHandler := cart.NewHandler(db)
	orderHandler := order.NewHandler(db, emailService)
	walletHandler := wallet.NewHandler(db)
	addressHandler := address.NewHandler(db)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	// The catalog is browsable without an account.
	router.GET("/games", gameHandler.ListGames)
	router.GET("/games/:gameID", gameHandler.GetGame)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/cart", cartHandler.GetCart)
		protected.POST("/cart", cartHandler.AddItem)
		protected.PUT("/cart/:gameID", cartHandler.UpdateItem)
		protected.DELETE("/cart/:gameID", cartHandler.RemoveItem)
		protected.DELETE("/cart", cartHandler.ClearCart)

		protected.POST("/orders", orderHandler.CreateOrder)
		protected.GET("/orders", orderHandler.ListOrders)
		protected.GET("/orders/:orderID", orderHandler.GetOrder)

		protected.GET("/wallet", walletHandler.GetWallet)
		protected.GET("/wallet/history", walletHandler.History)
		protected.POST("/wallet/daily-game-bonus", walletHandler.DailyGameBonus)
		protected.GET("/wallet/discount", walletHandler.Discount)
		protected.GET("/wallet/referral-code", walletHandler.ReferralCode)
		protected.POST("/wallet/game-activity", walletHandler.GameActivity)

		protected.GET("/addresses", addressHandler.ListAddresses)
		protected.POST("/addresses", addressHandler.CreateAddress)
		protected.PUT("/addresses/:addressID", addressHandler.UpdateAddress)
		protected.DELETE("/addresses/:addressID", addressHandler.DeleteAddress)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/games", gameHandler.CreateGame)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
