package httpt

import (
	"net/http"

	"gallery/internal/entity"

	"github.com/gin-gonic/gin"
)

const (
	_bornAfterYear  = 1980
	_jerusalem      = "ירושלים"
	_ordersAfterRaw = "2025-01-01"
)

func (h *Handler) setupRoutes() {
	h.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	artists := h.router.Group("/artists")
	{
		artists.GET("", listHandler(h, "transport.artists.List", h.svc.Artists.List))
		artists.GET("/born_after_1980", h.listArtistsBornAfter)
		artists.GET("/:id", getHandler(h, "transport.artists.Get", h.svc.Artists.Get))
		artists.POST("", createHandler(h, "transport.artists.Create", h.svc.Artists.Create))
		artists.PUT("/:id", updateHandler(h, "transport.artists.Update", h.svc.Artists.Update))
		artists.DELETE("/:id", deleteHandler(h, "transport.artists.Delete", "artist",
			h.svc.Artists.Delete))
	}

	customers := h.router.Group("/customers")
	{
		customers.GET("", listHandler(h, "transport.customers.List", h.svc.Customers.List))
		customers.GET("/address/jerusalem", h.listCustomersInJerusalem)
		customers.GET("/:id", getHandler(h, "transport.customers.Get", h.svc.Customers.Get))
		customers.POST("", createHandler(h, "transport.customers.Create", h.svc.Customers.Create))
		customers.PUT("/:id", updateHandler(h, "transport.customers.Update",
			h.svc.Customers.Update))
		customers.DELETE("/:id", deleteHandler(h, "transport.customers.Delete", "customer",
			h.svc.Customers.Delete))
	}

	artworks := h.router.Group("/artworks")
	{
		artworks.GET("", listHandler(h, "transport.artworks.List", h.svc.Artworks.List))
		artworks.GET("/type/:art_type", h.listArtworksByType)
		artworks.GET("/:id", getHandler(h, "transport.artworks.Get", h.svc.Artworks.Get))
		artworks.POST("", createHandler(h, "transport.artworks.Create", h.svc.Artworks.Create))
		artworks.PUT("/:id", updateHandler(h, "transport.artworks.Update", h.svc.Artworks.Update))
		artworks.DELETE("/:id", deleteHandler(h, "transport.artworks.Delete", "artwork",
			h.svc.Artworks.Delete))
	}

	orders := h.router.Group("/orders")
	{
		orders.GET("", listHandler(h, "transport.orders.List", h.svc.Orders.List))
		orders.GET("/detailed", listHandler(h, "transport.orders.ListDetailed",
			h.svc.Orders.ListDetailed))
		orders.GET("/after/"+_ordersAfterRaw, h.listOrdersAfter)
		orders.GET("/:id", getHandler(h, "transport.orders.Get", h.svc.Orders.Get))
		orders.POST("", createHandler(h, "transport.orders.Create", h.svc.Orders.Create))
		orders.PUT("/:id", updateHandler(h, "transport.orders.Update", h.svc.Orders.Update))
		orders.DELETE("/:id", deleteHandler(h, "transport.orders.Delete", "order",
			h.svc.Orders.Delete))
	}

	lines := h.router.Group("/artworks_in_order")
	{
		lines.GET("", listHandler(h, "transport.artworksInOrder.List",
			h.svc.ArtworksInOrder.List))
		lines.GET("/:id", getHandler(h, "transport.artworksInOrder.Get",
			h.svc.ArtworksInOrder.Get))
		lines.POST("", createHandler(h, "transport.artworksInOrder.Create",
			h.svc.ArtworksInOrder.Create))
		lines.PUT("/:id", updateHandler(h, "transport.artworksInOrder.Update",
			h.svc.ArtworksInOrder.Update))
		lines.DELETE("/:id", deleteHandler(h, "transport.artworksInOrder.Delete",
			"artwork in order", h.svc.ArtworksInOrder.Delete))
	}
}

func (h *Handler) listArtistsBornAfter(c *gin.Context) {
	const op = "transport.artists.ListBornAfter"

	ctx, cancel := h.requestContext(c)
	defer cancel()

	artists, err := h.svc.Artists.ListBornAfter(ctx, _bornAfterYear)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}
	c.JSON(http.StatusOK, artists)
}

func (h *Handler) listCustomersInJerusalem(c *gin.Context) {
	const op = "transport.customers.ListByAddress"

	ctx, cancel := h.requestContext(c)
	defer cancel()

	customers, err := h.svc.Customers.ListByAddress(ctx, _jerusalem)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) listArtworksByType(c *gin.Context) {
	const op = "transport.artworks.ListByType"

	ctx, cancel := h.requestContext(c)
	defer cancel()

	artworks, err := h.svc.Artworks.ListByType(ctx, c.Param("art_type"))
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}
	c.JSON(http.StatusOK, artworks)
}

func (h *Handler) listOrdersAfter(c *gin.Context) {
	const op = "transport.orders.ListAfter"

	after, err := entity.ParseDate(_ordersAfterRaw)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	orders, err := h.svc.Orders.ListAfter(ctx, after)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}
	c.JSON(http.StatusOK, orders)
}
