package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/matheusvidal/stockman/internal/config"
	"github.com/matheusvidal/stockman/internal/handler"
	"github.com/matheusvidal/stockman/internal/middleware"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Calls   *handler.CallHandler
	Sectors *handler.SectorHandler
}

// Register wires every route onto the Echo instance. Login is the
// only unauthenticated API endpoint; everything else sits behind
// JWTAuth plus a role gate. The gates test single capability markers:
// cumulative claims mean an admin token passes the "moderador" and
// "user" gates too.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	api.POST("/auth/login", h.Auth.Login)

	jwtAuth := middleware.JWTAuth(cfg.JWTSecret)

	// Account management. Reads are moderador-gated, writes admin-gated.
	users := api.Group("/users", jwtAuth)
	users.GET("", h.Users.GetAll, middleware.RequireRole("moderador"))
	users.GET("/:id", h.Users.GetByID, middleware.RequireRole("moderador"))
	users.GET("/search/:param", h.Users.Search, middleware.RequireRole("moderador"))
	users.POST("", h.Users.Create, middleware.RequireRole("admin"))
	users.PUT("/:id", h.Users.Update, middleware.RequireRole("admin"))
	users.DELETE("/:id", h.Users.Disable, middleware.RequireRole("admin"))

	// Helpdesk calls. Any user can open one; reading is for moderators.
	calls := api.Group("/calls", jwtAuth)
	calls.POST("", h.Calls.Create, middleware.RequireRole("user"))
	calls.GET("", h.Calls.GetAll, middleware.RequireRole("moderador"))
	calls.GET("/:id", h.Calls.GetByID, middleware.RequireRole("moderador"))
	calls.GET("/user/:id", h.Calls.GetByUserID, middleware.RequireRole("moderador"))
	calls.GET("/sector/:id", h.Calls.GetBySectorID, middleware.RequireRole("moderador"))

	// Sector lookups are static data; GETs go through the response cache.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	sectors := api.Group("/sectors", jwtAuth)
	sectors.GET("", h.Sectors.GetAll, middleware.RequireRole("user"), cache)
	sectors.GET("/:id", h.Sectors.GetByID, middleware.RequireRole("user"), cache)
	sectors.POST("", h.Sectors.Create, middleware.RequireRole("admin"))
}
