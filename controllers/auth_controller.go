package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princinho/callboard/database"
	"github.com/princinho/callboard/dto"
	"github.com/princinho/callboard/middleware"
	"github.com/princinho/callboard/models"
	"github.com/princinho/callboard/utils"
)

// POST /auth/register
func (a *App) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": utils.ValidationMessage(err)})
			return
		}

		ctx := c.Request.Context()
		email := strings.ToLower(strings.TrimSpace(body.Email))

		_, err := a.Users.FindByEmail(ctx, email)
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"message": fmt.Sprintf("User with %s email already exists", email)})
			return
		}
		if !isNotFound(err) {
			internalError(c, "register: find user", err)
			return
		}

		hash, err := utils.HashPassword(body.Password, a.Config.Auth.BcryptCost)
		if err != nil {
			internalError(c, "register: hash password", err)
			return
		}

		user := models.User{
			Email:        email,
			FirstName:    body.FirstName,
			SecondName:   body.SecondName,
			Phone:        body.Phone,
			PasswordHash: hash,
			AvatarURL:    a.Config.DefaultAvatarURL,
			Calls:        []models.Call{},
			Favourites:   []models.Call{},
		}
		if err := a.Users.Create(ctx, &user); err != nil {
			// lost a race with a concurrent registration
			if errors.Is(err, database.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"message": fmt.Sprintf("User with %s email already exists", email)})
				return
			}
			internalError(c, "register: create user", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"email":      user.Email,
			"phone":      user.Phone,
			"firstName":  user.FirstName,
			"secondName": user.SecondName,
			"id":         user.ID,
		})
	}
}

// POST /auth/login
func (a *App) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": utils.ValidationMessage(err)})
			return
		}

		ctx := c.Request.Context()
		email := strings.ToLower(strings.TrimSpace(body.Email))

		user, err := a.Users.FindByEmail(ctx, email)
		if err != nil {
			if isNotFound(err) {
				c.JSON(http.StatusForbidden, gin.H{"message": fmt.Sprintf("User with %s email doesn't exist", email)})
				return
			}
			internalError(c, "login: find user", err)
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"message": "Password is wrong"})
			return
		}

		session, err := a.Sessions.Create(ctx, user.ID)
		if err != nil {
			internalError(c, "login: create session", err)
			return
		}

		token, err := utils.GenerateToken(user.ID.Hex(), session.ID.Hex(), a.Config.Auth.JWTSecret, a.Config.Auth.TokenTTL)
		if err != nil {
			internalError(c, "login: sign token", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"email":      user.Email,
				"firstName":  user.FirstName,
				"secondName": user.SecondName,
				"phone":      user.Phone,
				"avatarUrl":  user.AvatarURL,
				"id":         user.ID,
				"favourites": user.Favourites,
				"calls":      user.Calls,
			},
		})
	}
}

// POST /auth/logout
func (a *App) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.CurrentSession(c)
		if err := a.Sessions.Delete(c.Request.Context(), session.ID); err != nil && !isNotFound(err) {
			internalError(c, "logout: delete session", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
