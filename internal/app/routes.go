package app

import (
	"github.com/yokanm/task-management-app/internal/auth"
	"github.com/yokanm/task-management-app/internal/cache"
	"github.com/yokanm/task-management-app/internal/config"
	"github.com/yokanm/task-management-app/internal/handlers"
	"github.com/yokanm/task-management-app/internal/repo"
	"github.com/yokanm/task-management-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	sessionStore := auth.NewStore(rdb, cfg.Session.TTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc)
	registerAuthRoutes(api, sessionStore, authHandler)

	protected := api.Group("", auth.RequireSession(sessionStore))

	groupRepo := repo.NewPGTaskGroupRepo(db)
	projectRepo := repo.NewPGProjectRepo(db)
	taskRepo := repo.NewPGTaskRepo(db)
	views := cache.NewViews(rdb, cfg.Redis.DefaultTTL.Duration())
	agg := service.NewAggregator(taskRepo)

	groupSvc := service.NewTaskGroupService(groupRepo, projectRepo, taskRepo, agg, views)
	projectSvc := service.NewProjectService(projectRepo, groupRepo, taskRepo, agg, views)
	taskSvc := service.NewTaskService(taskRepo, projectRepo, groupRepo, views)

	registerTaskGroupRoutes(protected, handlers.NewTaskGroupHandler(groupSvc))
	registerProjectRoutes(protected, handlers.NewProjectHandler(projectSvc))
	registerTaskRoutes(protected, handlers.NewTaskHandler(taskSvc))
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Task Management API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, sessions *auth.Store, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
	api.DELETE("/auth/account", auth.RequireSession(sessions), h.DeleteAccount)
}

func registerTaskGroupRoutes(api *gin.RouterGroup, h *handlers.TaskGroupHandler) {
	api.POST("/taskgroups", h.Create)
	api.GET("/taskgroups", h.List)
	api.GET("/taskgroups/:id", h.GetByID)
	api.PATCH("/taskgroups/:id", h.Update)
	api.DELETE("/taskgroups/:id", h.Delete)
}

func registerProjectRoutes(api *gin.RouterGroup, h *handlers.ProjectHandler) {
	api.POST("/projects", h.Create)
	api.GET("/projects", h.List)
	api.GET("/projects/:id", h.GetByID)
	api.PATCH("/projects/:id", h.Update)
	api.DELETE("/projects/:id", h.Delete)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.POST("/tasks", h.Create)
	api.GET("/tasks", h.List)
	api.GET("/tasks/today", h.Today)
	api.GET("/tasks/stats", h.Stats)
	api.GET("/tasks/status/:status", h.ByStatus)
	api.GET("/tasks/:id", h.GetByID)
	api.PATCH("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
}
