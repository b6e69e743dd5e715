package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskline/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, sessionGuard func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public routes
	r.GET("/", handlers.Auth.LoginPage)
	r.POST("/", handlers.Auth.Login)
	r.GET("/register/", handlers.Auth.RegisterPage)
	r.POST("/register/", handlers.Auth.Register)

	// Protected routes
	r.GET("/logout/", sessionGuard(handlers.Auth.Logout))
	r.GET("/tasks/", sessionGuard(handlers.Task.Tasks))
	r.POST("/add/", sessionGuard(handlers.Task.Add))
	r.GET("/complete/{id}", sessionGuard(handlers.Task.Complete))
	r.GET("/delete/{id}", sessionGuard(handlers.Task.Delete))

	return r
}
