package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"studytrack/internal/middleware"
	"studytrack/internal/models"
)

func (h *Handlers) AssignmentRoutes() *chi.Mux {
	router := chi.NewRouter()

	router.Get("/", h.listAssignmentsHandler)

	router.Route("/{assignmentID}", func(r chi.Router) {
		r.Use(middleware.AssignmentCtx())

		// Accepts either a full assignment or any subset of its fields.
		r.Put("/", h.updateAssignmentHandler)
		r.Delete("/", h.deleteAssignmentHandler)
	})

	return router
}

// GET: /
func (h *Handlers) listAssignmentsHandler(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.repo.ListAssignments()
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, assignments)
}

// PUT: /{assignmentID}
func (h *Handlers) updateAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	var patch models.AssignmentPatch

	err := json.NewDecoder(r.Body).Decode(&patch)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	assignmentID := middleware.IDFromContext(r.Context(), middleware.AssignmentIDKey)

	a, err := h.repo.UpdateAssignment(assignmentID, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, a)
}

// DELETE: /{assignmentID}
func (h *Handlers) deleteAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	assignmentID := middleware.IDFromContext(r.Context(), middleware.AssignmentIDKey)

	err := h.repo.DeleteAssignment(assignmentID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
