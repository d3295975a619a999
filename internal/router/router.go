package router

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Subasree2717/agropredictor/config"
	"github.com/Subasree2717/agropredictor/internal/api"
	"github.com/Subasree2717/agropredictor/internal/middleware"
)

// SetupRouter configures middleware and application routes. limiter may
// be nil when Redis is unavailable.
func SetupRouter(cfg *config.Config, deps api.Dependencies, limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(config.GinMode())
	router := gin.New()

	// ClientIP keys the rate limiter, so forwarding headers only count when
	// they come from a configured proxy
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Printf("[Router] Invalid trusted proxies %v, trusting none: %v", cfg.TrustedProxies, err)
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	router.Use(middleware.ErrorHandler())

	var limit gin.HandlerFunc
	if limiter != nil {
		limit = limiter.RateLimitMiddleware()
	}
	api.RegisterRoutes(router, deps, limit)

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
