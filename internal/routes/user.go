package routes

import (
	"github.com/labstack/echo/v4"

	"niuniq/internal/controllers"
	"niuniq/internal/entities"
	"niuniq/pkg/middleware"
)

func runUserRouter(api *echo.Group, ctrl *controllers.UserController, authMW *middleware.AuthMiddleware) {
	users := api.Group("/users", authMW.Protect, authMW.Authorize(entities.RoleAdmin))

	users.GET("", ctrl.GetUsers)
	users.POST("", ctrl.CreateUser)
	users.GET("/:id", ctrl.GetUser)
	users.PUT("/:id", ctrl.UpdateUser)
	users.DELETE("/:id", ctrl.DeleteUser)
}
