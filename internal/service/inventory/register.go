package inventory

import (
	"github.com/gin-gonic/gin"
)

// Registrar ties the cards and wishlist routes into the HTTP server.
type Registrar struct {
	service *Service
	authMW  gin.HandlerFunc
}

// NewRegistrar creates a new Registrar for the inventory service.
func NewRegistrar(service *Service, authMW gin.HandlerFunc) *Registrar {
	return &Registrar{service: service, authMW: authMW}
}

// Register attaches the inventory endpoints to the engine.
func (r *Registrar) Register(e *gin.Engine) {
	cards := e.Group("/cards", r.authMW)
	cards.GET("/my", r.service.MyCards)
	cards.POST("/add", r.service.AddCard)
	cards.PATCH("/my/:id", r.service.UpdateCard)
	cards.DELETE("/my/:id", r.service.DeleteCard)

	wishlist := e.Group("/wishlist", r.authMW)
	wishlist.GET("", r.service.Wishlist)
	wishlist.POST("/add", r.service.AddWish)
	wishlist.DELETE("/:id", r.service.DeleteWish)
}
