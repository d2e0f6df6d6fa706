package routes

import (
	"net/http"
	"os"

	"agritrack/internal/container"
	"agritrack/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.LoginHandler.RegisterRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protectedRoutes := router.Group("/api")
	protectedRoutes.Use(security.JWTMiddleware())

	c.EquipmentHandler.RegisterRoutes(protectedRoutes)
	c.LedgerHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine, log *zap.Logger) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	openapiFilePath := "./docs/index.html"
	if _, err := os.Stat(openapiFilePath); err == nil {
		router.GET("/openapi.html", func(c *gin.Context) {
			c.File(openapiFilePath)
		})
		log.Info("Route docs/index.html registered successfully")
	} else {
		log.Warn("docs/index.html not found, route /openapi.html will not be registered")
	}
}
