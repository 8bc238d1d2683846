package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardswipe/cardswipe/internal/config"
)

// New builds the gin engine and registers all provided services.
func New(cfg *config.Config, registrars ...Registrar) *http.Server {
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	// health probe for load balancers and smoke tests
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	for _, r := range registrars {
		r.Register(engine)
	}

	return &http.Server{
		Addr:    cfg.HTTP.Host + ":" + cfg.HTTP.Port,
		Handler: engine,
	}
}

// Run serves until the listener fails or Shutdown is called.
func Run(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func Shutdown(ctx context.Context, srv *http.Server) error {
	return srv.Shutdown(ctx)
}
