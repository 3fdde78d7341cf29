package router

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang/glog"

	"studytrack/internal/qerrors"
	"studytrack/internal/repository"
)

// Handlers serves the courses REST API from a Repository.
type Handlers struct {
	repo repository.Repository
}

func NewHandlers(repo repository.Repository) *Handlers {
	return &Handlers{repo: repo}
}

func HealthRoutes() *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	return router
}

type errorResponse struct {
	Message string `json:"message"`
}

// writeError renders err as a JSON message with a status derived from its kind.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, qerrors.ErrCourseNotFound), errors.Is(err, qerrors.ErrAssignmentNotFound):
		code = http.StatusNotFound
	case errors.Is(err, qerrors.ErrInvalidID), qerrors.IsValidation(err):
		code = http.StatusBadRequest
	}
	if code == http.StatusInternalServerError {
		glog.Errorf("request %s %s failed: %v\n", r.Method, r.URL.Path, err)
	}

	render.Status(r, code)
	render.JSON(w, r, errorResponse{Message: err.Error()})
}
