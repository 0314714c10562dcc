// Package router wires handlers, middleware and sessions into a gin engine.
package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/config"
	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/handlers"
	"github.com/yukikurage/task-tracker/internal/logger"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/validation"
	"gorm.io/gorm"
)

// Deps holds everything the routes need
type Deps struct {
	Config       *config.Config
	DB           *gorm.DB
	TaskService  *services.TaskService
	AuthService  *services.AuthService
	SessionStore sessions.Store
	// Files is served under /storage when set
	Files http.FileSystem
}

// NewSessionStore builds the session store selected by SESSION_DRIVER
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store

	switch cfg.SessionDriver {
	case config.SessionDriverCookie:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// New builds the gin engine with every route
func New(deps Deps) *gin.Engine {
	validation.RegisterTagNames()

	r := gin.New()
	r.Use(logger.Middleware())

	if len(deps.Config.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.Config.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	if deps.Files != nil {
		r.StaticFS("/storage", deps.Files)
	}

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	taskHandler := handlers.NewTaskHandler(deps.TaskService, deps.Config.AppURL)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.GET("/health", healthHandler.Check)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/trashed", taskHandler.ListTrashed)

			// Trashed tasks are looked up by the handlers themselves
			tasks.POST("/:id/restore", taskHandler.RestoreTask)
			tasks.DELETE("/:id/force-delete", taskHandler.ForceDeleteTask)

			task := tasks.Group("/:id", middleware.RequireTaskAccess(deps.TaskService))
			{
				task.GET("", taskHandler.GetTask)
				task.PUT("", taskHandler.UpdateTask)
				task.DELETE("", taskHandler.DeleteTask)
				task.PATCH("/status", taskHandler.UpdateStatus)
				task.PATCH("/toggle-published", taskHandler.TogglePublished)

				task.POST("/subtasks", taskHandler.AddSubtask)
				task.PATCH("/subtasks/:subtask_id", taskHandler.UpdateSubtaskStatus)
				task.POST("/subtasks/:subtask_id/toggle", taskHandler.ToggleSubtask)
				task.DELETE("/subtasks/:subtask_id", taskHandler.DeleteSubtask)
			}
		}
	}

	return r
}
