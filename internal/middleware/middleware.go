package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studytrack/internal/models"
)

type ctxKey string

const (
	CourseIDKey     ctxKey = "courseID"
	AssignmentIDKey ctxKey = "assignmentID"
)

func CourseCtx() func(handler http.Handler) http.Handler {
	return idCtx("courseID", CourseIDKey)
}

func AssignmentCtx() func(handler http.Handler) http.Handler {
	return idCtx("assignmentID", AssignmentIDKey)
}

// IDFromContext returns the resource ID stored by CourseCtx or AssignmentCtx.
func IDFromContext(ctx context.Context, key ctxKey) models.ID {
	id, _ := ctx.Value(key).(models.ID)
	return id
}

func idCtx(param string, key ctxKey) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, param)
			if id == "" {
				http.Error(w, "missing "+param, http.StatusBadRequest)
				return
			}

			ctx := context.WithValue(r.Context(), key, models.ID(id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
