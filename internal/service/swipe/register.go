package swipe

import (
	"github.com/gin-gonic/gin"
)

// Registrar ties the swipe routes into the HTTP server.
type Registrar struct {
	service *Service
	authMW  gin.HandlerFunc
}

// NewRegistrar creates a new Registrar for the swipe service.
func NewRegistrar(service *Service, authMW gin.HandlerFunc) *Registrar {
	return &Registrar{service: service, authMW: authMW}
}

// Register attaches the swipe endpoints to the engine.
func (r *Registrar) Register(e *gin.Engine) {
	grp := e.Group("/swipes", r.authMW)
	grp.POST("/like", r.service.PostLike)
	grp.POST("/dislike", r.service.PostDislike)
	grp.GET("/liked-count", r.service.LikedCount)
}
