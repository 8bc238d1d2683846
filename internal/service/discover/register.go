package discover

import (
	"github.com/gin-gonic/gin"
)

// Registrar ties the candidate listing into the HTTP server.
type Registrar struct {
	service *Service
	authMW  gin.HandlerFunc
}

// NewRegistrar creates a new Registrar for the discover service.
func NewRegistrar(service *Service, authMW gin.HandlerFunc) *Registrar {
	return &Registrar{service: service, authMW: authMW}
}

// Register attaches the candidates endpoint to the engine.
func (r *Registrar) Register(e *gin.Engine) {
	grp := e.Group("/swipes", r.authMW)
	grp.GET("/candidates", r.service.Candidates)
}
