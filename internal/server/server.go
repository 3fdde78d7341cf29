package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"studytrack/internal/config"
	"studytrack/internal/repository"
	rtr "studytrack/internal/router"
)

func Routes(repo repository.Repository) *chi.Mux {
	h := rtr.NewHandlers(repo)

	router := chi.NewRouter()
	router.Use(
		middleware.Logger, // Log API Request Calls
	)

	router.Mount("/health", rtr.HealthRoutes())
	router.Mount("/courses", h.CourseRoutes())
	router.Mount("/assignments", h.AssignmentRoutes())

	return router
}

// Handler wraps the routes with the CORS policy from conf.
func Handler(conf *config.TrackerConfig, repo repository.Repository) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: conf.AllowedOrigins,
		AllowedHeaders: []string{"Content-Type", "Accept"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
	})
	return c.Handler(Routes(repo))
}

func Start(conf *config.TrackerConfig, repo repository.Repository) error {
	if conf == nil {
		log.Panic("❌ Missing or invalid configuration!")
	}

	log.Printf("Server is listening on port %v\n", conf.Port)
	return http.ListenAndServe(fmt.Sprintf(":%v", conf.Port), Handler(conf, repo))
}
