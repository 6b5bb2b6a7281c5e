package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/callboard/config"
	"github.com/princinho/callboard/database"
	"github.com/princinho/callboard/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// App carries the dependencies shared by every handler.
type App struct {
	Users     database.UserStore
	Calls     database.CallStore
	Sessions  database.SessionStore
	Ads       database.AdStore
	Images    utils.ImageStorage
	Validator *utils.ImageValidator
	Config    *config.Config
}

func NewApp(cfg *config.Config, stores *database.Stores, images utils.ImageStorage) *App {
	return &App{
		Users:     stores.Users,
		Calls:     stores.Calls,
		Sessions:  stores.Sessions,
		Ads:       stores.Ads,
		Images:    images,
		Validator: utils.NewImageValidator(cfg.Upload.MaxSizeMB),
		Config:    cfg,
	}
}

func internalError(c *gin.Context, where string, err error) {
	log.Printf("%s: %v", where, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

// mustObjectID is only called on values already checked by the "objectid"
// binding rule.
func mustObjectID(hex string) bson.ObjectID {
	id, _ := bson.ObjectIDFromHex(hex)
	return id
}
