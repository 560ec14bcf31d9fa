package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/gildedline/atelier/internal/server/http/handlers"
	"github.com/gildedline/atelier/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.AtelierFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade, logger)
	designHandler := handlers.NewDesignHandler(facade, logger)

	api := engine.Group("/api")
	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	designs := api.Group("/custom-designs")
	designs.Use(middleware.AuthRequired(facade))
	designs.GET("", designHandler.List)
	designs.POST("", designHandler.Create)
	designs.GET("/:id", designHandler.Get)
	designs.PATCH("/:id", designHandler.Update)
	designs.POST("/:id", designHandler.AddQuote)
	designs.PUT("/:id", designHandler.AcceptQuote)
	designs.POST("/:id/notes", designHandler.AddNote)
	designs.POST("/:id/payments", designHandler.RecordPayment)

	return engine
}
