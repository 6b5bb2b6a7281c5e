package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/princinho/callboard/config"
	"github.com/princinho/callboard/controllers"
	"github.com/princinho/callboard/database"
	"github.com/princinho/callboard/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	utils.SetupBinding()

	ctx := context.Background()

	var stores *database.Stores
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Println("Using in-memory store, data is lost on restart")
		stores = database.NewMemoryStores()
	default:
		client, err := database.Connect(ctx, cfg.Mongo)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("mongo disconnect: %v", err)
			}
		}()
		db := client.Database(cfg.Mongo.DatabaseName)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			log.Fatal(err)
		}
		stores = database.NewMongoStores(db)
	}

	//seeding ad banners
	if err := utils.SeedAds(ctx, stores.Ads, cfg.AdsSeedFile); err != nil {
		log.Fatal(err)
	}

	images, err := utils.NewImageStorage(ctx, cfg.Upload)
	if err != nil {
		log.Fatal(err)
	}
	if closer, ok := images.(io.Closer); ok {
		defer closer.Close()
	}

	app := controllers.NewApp(cfg, stores, images)
	r := newRouter(cfg, app)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		log.Printf("Listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

func newRouter(cfg *config.Config, app *controllers.App) *gin.Engine {
	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	log.Printf("Allowed origins: %v", cfg.AllowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			// no list configured means any origin
			return len(allowedOrigins) == 0 || allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	controllers.RegisterRoutes(r, app)
	return r
}
