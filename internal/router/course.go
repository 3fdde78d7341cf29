package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"studytrack/internal/middleware"
	"studytrack/internal/models"
	"studytrack/internal/validate"
)

func (h *Handlers) CourseRoutes() *chi.Mux {
	router := chi.NewRouter()

	router.Get("/", h.listCoursesHandler)
	router.Post("/", h.createCourseHandler)

	router.Route("/{courseID}", func(r chi.Router) {
		r.Use(middleware.CourseCtx())

		r.Put("/", h.updateCourseHandler)
		r.Delete("/", h.deleteCourseHandler)

		// Assignments are created under their course.
		r.Post("/assignments", h.createAssignmentHandler)
	})

	return router
}

// GET: /
func (h *Handlers) listCoursesHandler(w http.ResponseWriter, r *http.Request) {
	courses, err := h.repo.ListCourses()
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, courses)
}

// POST: /
func (h *Handlers) createCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req models.Course

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	create := models.CreateCourseRequest{Name: req.Name, CourseLink: req.CourseLink}
	if err := validate.Struct(create); err != nil {
		writeError(w, r, err)
		return
	}
	if req.StudyHours < 0 {
		req.StudyHours = 0
	}

	c, err := h.repo.CreateCourse(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, c)
}

// PUT: /{courseID}
func (h *Handlers) updateCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req models.Course

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.ID = middleware.IDFromContext(r.Context(), middleware.CourseIDKey)
	if req.StudyHours < 0 {
		req.StudyHours = 0
	}

	c, err := h.repo.UpdateCourse(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, c)
}

// DELETE: /{courseID}
func (h *Handlers) deleteCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseID := middleware.IDFromContext(r.Context(), middleware.CourseIDKey)

	err := h.repo.DeleteCourse(courseID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST: /{courseID}/assignments
func (h *Handlers) createAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	var req models.Assignment

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	courseID := middleware.IDFromContext(r.Context(), middleware.CourseIDKey)

	create := models.CreateAssignmentRequest{CourseID: courseID, Name: req.Name, DueDate: req.DueDate}
	if err := validate.Struct(create); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := h.repo.CreateAssignment(courseID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, a)
}
