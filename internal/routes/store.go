package routes

import (
	"github.com/labstack/echo/v4"

	"niuniq/internal/controllers"
	"niuniq/internal/entities"
	"niuniq/pkg/middleware"
)

// runStoreRouter also mounts the store scoped product routes.
func runStoreRouter(api *echo.Group, ctrl *controllers.StoreController, productCtrl *controllers.ProductController, authMW *middleware.AuthMiddleware) {
	stores := api.Group("/stores", authMW.Protect)
	anyRole := authMW.Authorize(entities.RoleUser, entities.RoleAdmin)

	stores.GET("", ctrl.GetStores, authMW.Authorize(entities.RoleAdmin))
	stores.POST("", ctrl.CreateStore, anyRole)
	stores.GET("/:id", ctrl.GetStore)
	stores.PUT("/:id", ctrl.UpdateStore, anyRole)
	stores.DELETE("/:id", ctrl.DeleteStore, anyRole)

	stores.GET("/:storeId/products", productCtrl.GetProducts, anyRole)
	stores.POST("/:storeId/products", productCtrl.CreateProduct, anyRole)
	stores.GET("/:storeId/products/export", productCtrl.ExportProducts, anyRole)
}
