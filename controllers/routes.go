package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/princinho/callboard/middleware"
)

func RegisterRoutes(r gin.IRouter, app *App) {
	authorize := middleware.Authorize(app.Users, app.Sessions, app.Config.Auth.JWTSecret)

	auth := r.Group("/auth")
	{
		auth.POST("/register", app.Register())
		auth.POST("/login", app.Login())
		auth.POST("/logout", authorize, app.Logout())
	}

	user := r.Group("/user")
	{
		user.GET("", authorize, app.GetCurrentUser())
		user.GET("/creators", GetCreators())
		user.GET("/:userId", app.GetUserByID())
		user.PATCH("/avatar", authorize, app.UploadAvatar())
		user.DELETE("/avatar", authorize, app.ResetAvatar())
	}

	call := r.Group("/call")
	{
		call.POST("", authorize, app.PostCall())
		call.GET("", app.LoadPages())
		call.POST("/favourite/:callId", authorize, app.AddToFavourites())
		call.DELETE("/favourite/:callId", authorize, app.RemoveFromFavourites())
		call.DELETE("/:callId", authorize, app.DeleteCall())
		call.GET("/own", authorize, app.GetOwnCalls())
		call.GET("/favourites", authorize, app.GetFavourites())
		call.GET("/find", app.SearchCalls())
		call.GET("/categories", GetCategories())
		call.GET("/russian-categories", GetRussianCategories())
		call.GET("/specific/:category", app.GetCategory())
		call.GET("/ads", app.GetAds())
		call.GET("/check/:callId", app.CheckCall())
	}
}
