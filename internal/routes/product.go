package routes

import (
	"github.com/labstack/echo/v4"

	"niuniq/internal/controllers"
	"niuniq/internal/entities"
	"niuniq/pkg/middleware"
)

func runProductRouter(api *echo.Group, ctrl *controllers.ProductController, authMW *middleware.AuthMiddleware) {
	products := api.Group("/products", authMW.Protect)
	anyRole := authMW.Authorize(entities.RoleUser, entities.RoleAdmin)

	products.GET("", ctrl.GetProducts)
	products.GET("/:id", ctrl.GetProduct)
	products.PUT("/:id", ctrl.UpdateProduct, anyRole)
	products.DELETE("/:id", ctrl.DeleteProduct, anyRole)
}
