// Package http wires the gin router: middleware chain, product routes,
// health probe and the 404 catch-all.
package http

import (
	"github.com/gin-gonic/gin"

	"productflow/internal/apperror"
	"productflow/internal/config"
	"productflow/internal/http/controller"
	"productflow/internal/http/middleware"
)

// InitRouter registers middleware and routes on the given engine. The error
// middleware is registered first so it is the outermost layer and sees
// every error, including recovered panics.
func InitRouter(conf *config.Config, server *gin.Engine, ctr *controller.Controller, productCtr *controller.ProductController) *gin.Engine {
	server.Use(middleware.RequestLogger())
	server.Use(middleware.CORS())
	server.Use(middleware.Errors(conf))
	server.Use(middleware.Recovery())

	server.GET("/health", ctr.Health)

	api := server.Group("/api")
	products := api.Group("/products")
	{
		products.GET("", productCtr.ListProducts)
		products.GET("/:id", productCtr.GetProduct)
		products.POST("", productCtr.CreateProduct)
		products.PUT("/:id", productCtr.UpdateProduct)
		products.DELETE("/:id", productCtr.DeleteProduct)
	}

	server.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperror.NotFound())
	})

	return server
}
