package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/callboard/dto"
	"github.com/princinho/callboard/middleware"
	"github.com/princinho/callboard/models"
	"github.com/princinho/callboard/utils"
)

var creators = []models.Creator{
	{FirstName: "Daniel", SecondName: "Tsvirkun", Tasks: "Team Lead | Header", Avatar: "https://storage.googleapis.com/kidslikev2_bucket/cb3029e9-8667-480a-8646-4eadaa9bdeb6.jpg"},
	{FirstName: "Andrew", SecondName: "Oscolok", Tasks: "Forma rejestracji, nasz zespół i ustawienia userbacka", Avatar: "https://storage.googleapis.com/kidslikev2_bucket/4d4e8cc1-db9e-4713-b8e7-f559693969e4.jpg"},
	{FirstName: "Iryna", SecondName: "Lunova", Tasks: "Karta ogłoszenia i wypełnienie bazy", Avatar: "https://storage.googleapis.com/kidslikev2_bucket/5ce409e6-def8-4151-9e1f-3fafcec56410.jpg"},
	{FirstName: "Andrii", SecondName: "Kochmaruk", Tasks: "Mój profil", Avatar: "https://storage.googleapis.com/kidslikev2_bucket/2538fc90-8959-4a56-8865-9dde68b8c537.jpg"},
	{FirstName: "Igor", SecondName: "Serov", Tasks: "Napisanie modułów pytań do ogłoszeń", Avatar: "https://storage.googleapis.com/kidslikev2_bucket/d4996f0a-274f-459d-ab3a-fe0306fb4b50.jpg"},
	{FirstName: "Oleksandr", SecondName: "Tril", Tasks: "Architektura BD", Avatar: "https://storage.googleapis.com/kidslikev2_bucket/9d2f4b2a-e803-4fc4-ba6e-b10f0ce55d14.png"},
	{FirstName: "Andrii", SecondName: "Kyluk", Tasks: "Reklama i pasek kategorii", Avatar: "https://storage.googleapis.com/kidslikev2_bucket/2c94ba5c-6c13-4aa0-8e05-86eba65daa47.jpg"},
	{FirstName: "Yurii", SecondName: "Dubenyuk", Tasks: "Stopka i okno modalne", Avatar: "https://storage.googleapis.com/kidslikev2_bucket/1dd94074-cb6e-49c6-9a33-4c4345e6756c.jpg"},
	{FirstName: "Ivan", SecondName: "Shtypula", Tasks: "Forma tworzenia ogłoszeń", Avatar: "https://storage.googleapis.com/kidslikev2_bucket/c6705931-a616-4695-9fdf-17c6e9f6b936.jpg"},
}

// GET /user
func (a *App) GetCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{
			"email":      user.Email,
			"firstName":  user.FirstName,
			"secondName": user.SecondName,
			"phone":      user.Phone,
			"id":         user.ID,
			"avatarUrl":  user.AvatarURL,
			"calls":      user.Calls,
			"favourites": user.Favourites,
		})
	}
}

// GET /user/:userId
func (a *App) GetUserByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		var params dto.UserIDParam
		if err := c.ShouldBindUri(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": utils.ValidationMessage(err)})
			return
		}

		user, err := a.Users.FindByID(c.Request.Context(), mustObjectID(params.UserID))
		if err != nil {
			if isNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			internalError(c, "get user", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"email":      user.Email,
			"firstName":  user.FirstName,
			"secondName": user.SecondName,
			"avatar":     user.AvatarURL,
			"phone":      user.Phone,
		})
	}
}

// PATCH /user/avatar
// multipart/form-data with a single image in "file".
func (a *App) UploadAvatar() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		file, err := c.FormFile("file")
		if err != nil || file == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Image required"})
			return
		}
		if _, err := a.Validator.ValidateFile(file); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		ctx := c.Request.Context()
		url, err := a.Images.Upload(ctx, "avatars/"+user.ID.Hex(), file)
		if err != nil {
			internalError(c, "upload avatar", err)
			return
		}

		if err := a.Users.SetAvatar(ctx, user.ID, url); err != nil {
			_ = a.Images.Delete(ctx, []string{url})
			internalError(c, "save avatar", err)
			return
		}

		a.dropStoredAvatar(c, user.AvatarURL)
		c.JSON(http.StatusOK, gin.H{"avatarUrl": url})
	}
}

// DELETE /user/avatar
func (a *App) ResetAvatar() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		url := a.Config.DefaultAvatarURL

		if err := a.Users.SetAvatar(c.Request.Context(), user.ID, url); err != nil {
			internalError(c, "reset avatar", err)
			return
		}

		a.dropStoredAvatar(c, user.AvatarURL)
		c.JSON(http.StatusOK, gin.H{"avatarUrl": url})
	}
}

// dropStoredAvatar removes a replaced avatar from the image host. The default
// avatar is hosted elsewhere and is never deleted.
func (a *App) dropStoredAvatar(c *gin.Context, old string) {
	if old == "" || old == a.Config.DefaultAvatarURL {
		return
	}
	if err := a.Images.Delete(c.Request.Context(), []string{old}); err != nil {
		log.Printf("delete old avatar %s: %v", old, err)
	}
}

// GET /user/creators
func GetCreators() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, creators)
	}
}
