package routes

import (
	"net/http"
	"time"

	"inkwell/app/controllers"
	"inkwell/app/logger"
	"inkwell/app/middleware"
	"inkwell/app/services"

	"github.com/gorilla/mux"
)

// Services are the application services the API exposes.
type Services struct {
	Posts      *services.PostService
	Comments   *services.CommentService
	Categories *services.CategoryService
	Auth       *services.AuthService
}

// Options configure the HTTP surface around the services.
type Options struct {
	Tokens    middleware.TokenVerifier
	TokenTTL  time.Duration
	ClientURL string
	Log       *logger.Logger
	// Health reports readiness for /healthz. Nil means always healthy.
	Health func() error
}

// SetupRoutes defines the application's routes and returns the handler
// serving them.
func SetupRoutes(svc Services, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	postController := controllers.NewPostController(svc.Posts, log)
	commentController := controllers.NewCommentController(svc.Comments, log)
	categoryController := controllers.NewCategoryController(svc.Categories, log)
	authController := controllers.NewAuthController(svc.Auth, opts.TokenTTL, log)

	requireAuth := middleware.RequireAuth(opts.Tokens, controllers.CookieName)
	protected := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return requireAuth(middleware.RequireAdmin(h))
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	router.HandleFunc("/healthz", health(opts.Health)).Methods("GET")

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	// Posts API endpoints. The fixed paths come before /{id}.
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("/search", postController.Search).Methods("GET")
	posts.HandleFunc("/category/{categoryId}", postController.ByCategory).Methods("GET")
	posts.HandleFunc("/{id}", postController.Show).Methods("GET")
	posts.Handle("", protected(postController.Create)).Methods("POST")
	posts.Handle("/{id}", protected(postController.Update)).Methods("PUT")
	posts.Handle("/{id}", protected(postController.Delete)).Methods("DELETE")

	// Comments API endpoints
	posts.Handle("/{id}/comments", protected(commentController.Create)).Methods("POST")
	posts.Handle("/{id}/comments", protected(commentController.Delete)).Methods("DELETE")
	posts.Handle("/{id}/comments/{commentId}", protected(commentController.Delete)).Methods("DELETE")

	// Categories API endpoints
	api.HandleFunc("/categories", categoryController.Index).Methods("GET")
	api.Handle("/categories", adminOnly(categoryController.Create)).Methods("POST")

	// Auth API endpoints
	api.HandleFunc("/auth/register", authController.Register).Methods("POST")
	api.HandleFunc("/auth/login", authController.Login).Methods("POST")
	api.HandleFunc("/auth/logout", authController.Logout).Methods("POST")
	api.Handle("/auth/me", protected(authController.Me)).Methods("GET")

	// The outer middleware wraps the router itself so unmatched requests and
	// CORS preflights pass through it too.
	var handler http.Handler = router
	handler = middleware.CORS(opts.ClientURL)(handler)
	handler = middleware.Recoverer(log)(handler)
	handler = middleware.Logger(log)(handler)
	handler = middleware.Tracing(handler)
	return handler
}

func health(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, "ok"
		if check != nil {
			if err := check(); err != nil {
				status, body = http.StatusServiceUnavailable, "unavailable"
			}
		}
		writeJSON(w, status, map[string]string{"status": body})
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"success": false,
		"message": "Not found - " + r.URL.Path,
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
		"success": false,
		"message": "Method not allowed",
	})
}
