// internal/app/router.go
package app

import (
	contactHandler "crm-service/internal/handlers/contact"
	customerHandler "crm-service/internal/handlers/customer"
	dashboardHandler "crm-service/internal/handlers/dashboard"
	orderHandler "crm-service/internal/handlers/order"
	"crm-service/internal/pkg/view"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	DashboardHandler *dashboardHandler.DashboardHandler
	CustomerHandler  *customerHandler.CustomerHandler
	OrderHandler     *orderHandler.OrderHandler
	ContactHandler   *contactHandler.ContactHandler
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	// ==================== Health Check ====================
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ==================== Dashboard ====================
	r.GET("/", h.DashboardHandler.Index)

	// ==================== Customers ====================
	customers := r.Group("/customers")
	{
		customers.GET("", h.CustomerHandler.List)
		customers.GET("/new", h.CustomerHandler.NewForm)
		customers.POST("/new", h.CustomerHandler.Create)
		customers.GET("/:id", h.CustomerHandler.Detail)
		customers.GET("/:id/edit", h.CustomerHandler.EditForm)
		customers.POST("/:id/edit", h.CustomerHandler.Edit)
		customers.POST("/:id/delete", h.CustomerHandler.Delete)
		customers.GET("/:id/orders", h.CustomerHandler.Orders)
		customers.GET("/:id/contacts", h.CustomerHandler.Contacts)
		customers.GET("/:id/revenue", h.CustomerHandler.Revenue)
	}

	// ==================== Orders ====================
	orders := r.Group("/orders")
	{
		orders.GET("", h.OrderHandler.List)
		orders.GET("/new", h.OrderHandler.NewForm)
		orders.POST("/new", h.OrderHandler.Create)
		orders.GET("/:id", h.OrderHandler.Detail)
	}

	// ==================== Contacts ====================
	contacts := r.Group("/contacts")
	{
		contacts.GET("", h.ContactHandler.List)
		contacts.GET("/new", h.ContactHandler.NewForm)
		contacts.POST("/new", h.ContactHandler.Create)
		contacts.GET("/:id", h.ContactHandler.Detail)
	}

	r.NoRoute(func(c *gin.Context) {
		view.NotFound(c)
	})
}
