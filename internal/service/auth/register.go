package auth

import (
	"github.com/gin-gonic/gin"
)

// Registrar ties the auth routes into the HTTP server.
type Registrar struct {
	service *Service
}

// NewRegistrar creates a new Registrar for the auth service.
func NewRegistrar(service *Service) *Registrar {
	return &Registrar{service: service}
}

// Register attaches the auth endpoints to the engine. Register/login are
// public; /users/me sits behind the token middleware.
func (r *Registrar) Register(e *gin.Engine) {
	grp := e.Group("/auth")
	grp.POST("/register", r.service.Register)
	grp.POST("/login", r.service.Login)

	users := e.Group("/users", r.service.Middleware())
	users.GET("/me", r.service.Me)
}
