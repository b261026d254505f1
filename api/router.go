// Package api contains all endpoints available
package api

import (
	"time"

	"filebox/files-api/config"
	"filebox/files-api/db"
	"filebox/files-api/middleware"
	"filebox/files-api/pkg/security"
	"filebox/files-api/service"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Argon     *security.ArgonHash
	Sessions  *service.SessionStore
	Files     *service.FileStore
	Stats     *service.StatsReporter
	FileQueue *service.Queue
	UserQueue *service.Queue
}

func NewRouter() (*API, error) {
	gormDB, err := db.New()
	if err != nil {
		return nil, err
	}

	config.SetupLogger()

	return New(gormDB, db.NewRedis())
}

// New wires the API onto explicit database and Redis handles so tests
// can run against isolated instances
func New(gormDB *gorm.DB, rdb *redis.Client) (*API, error) {
	files, err := service.NewFileStore(gormDB, viper.GetString("storage.folder_path"))
	if err != nil {
		return nil, err
	}

	a := &API{
		DB:        gormDB,
		Argon:     security.New(),
		Sessions:  service.NewSessionStore(rdb),
		Files:     files,
		Stats:     service.NewStatsReporter(gormDB),
		FileQueue: service.NewQueue(rdb, service.FileQueue),
		UserQueue: service.NewQueue(rdb, service.UserQueue),
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.TokenHeader},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true

	auth := middleware.NewTokenAuth(a.Sessions)
	maxUploadSize := viper.GetInt64("upload.max_size")
	if maxUploadSize <= 0 {
		maxUploadSize = 50 << 20
	}

	// GET /status		-> Liveness of Redis and the database
	router.GET("/status", a.Status)

	// GET /stats		-> User and file counts
	router.GET("/stats", cacheFor(30), a.StatsShow)

	// POST /users		-> Registers a new user
	router.POST("/users", middleware.BodySizeLimiter(1<<20), a.UserRegister)

	// GET /connect		-> Exchanges Basic credentials for a session token
	router.GET("/connect", a.UserConnect)

	// GET /disconnect	-> Destroys the presented session token
	router.GET("/disconnect", auth, a.UserDisconnect)

	// GET /users/me	-> Returns the token's user
	router.GET("/users/me", auth, a.UserMe)

	filesGroup := router.Group("/files")
	{
		// POST /files			-> Creates a folder, file or image entity
		filesGroup.POST("", auth, middleware.BodySizeLimiter(maxUploadSize), a.FileUpload)

		// GET /files			-> Lists owned entities, 20 per page
		filesGroup.GET("", auth, a.FileFetchBulk)

		// GET /files/:id		-> Returns one entity
		filesGroup.GET("/:id", auth, a.FileFetch)

		// PUT /files/:id/publish	-> Makes an entity public
		filesGroup.PUT("/:id/publish", auth, a.FilePublish)

		// PUT /files/:id/unpublish	-> Makes an entity private again
		filesGroup.PUT("/:id/unpublish", auth, a.FileUnpublish)

		// GET /files/:id/data		-> Serves raw content, token optional
		filesGroup.GET("/:id/data", a.FileServe)
	}

	return a, nil
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
