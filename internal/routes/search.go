package routes

import (
	"github.com/labstack/echo/v4"

	"niuniq/internal/controllers"
)

func runSearchRouter(api *echo.Group, ctrl *controllers.SearchController) {
	api.GET("/search", ctrl.SearchProduct)
}
