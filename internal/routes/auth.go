package routes

import (
	"github.com/labstack/echo/v4"

	"niuniq/internal/controllers"
	"niuniq/pkg/middleware"
)

func runAuthRouter(api *echo.Group, ctrl *controllers.AuthController, authMW *middleware.AuthMiddleware) {
	auth := api.Group("/auth")

	auth.POST("/register", ctrl.Register)
	auth.POST("/login", ctrl.Login)
	auth.POST("/forgotpassword", ctrl.ForgotPassword)
	auth.PUT("/resetpassword/:resettoken", ctrl.ResetPassword)

	auth.GET("/logout", ctrl.Logout, authMW.Protect)
	auth.GET("/me", ctrl.Me, authMW.Protect)
	auth.PUT("/updatedetails", ctrl.UpdateDetails, authMW.Protect)
	auth.PUT("/updatepassword", ctrl.UpdatePassword, authMW.Protect)
}
