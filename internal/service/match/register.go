package match

import (
	"github.com/gin-gonic/gin"
)

// Registrar ties the match routes into the HTTP server.
type Registrar struct {
	service *Service
	authMW  gin.HandlerFunc
}

// NewRegistrar creates a new Registrar for the match service.
func NewRegistrar(service *Service, authMW gin.HandlerFunc) *Registrar {
	return &Registrar{service: service, authMW: authMW}
}

// Register attaches the match endpoints to the engine.
func (r *Registrar) Register(e *gin.Engine) {
	grp := e.Group("/matches", r.authMW)
	grp.GET("", r.service.List)
	grp.GET("/:matchId", r.service.Get)
	grp.GET("/:matchId/messages", r.service.Messages)
	grp.POST("/:matchId/messages", r.service.SendMessage)
}
