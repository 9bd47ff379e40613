package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/meelsaw/database-final-assignment/internal/config"
	"github.com/meelsaw/database-final-assignment/internal/workflow"
)

type Server struct {
	cfg      config.Config
	workflow *workflow.Service
	logger   *zap.Logger
}

func NewServer(cfg config.Config, service *workflow.Service, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, workflow: service, logger: logger}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/courses", s.handleListCourses)
	r.Put("/courses/availability", s.handleSetAvailability)
	r.Post("/courses/assign", s.handleAssignCourses)
	r.Get("/course/view", s.handleViewCourses)
	r.Post("/enrollments", s.handleEnroll)
	r.Put("/grade", s.handleGrade)

	return r
}

// Middleware

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("requestId", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

// Requests

type setAvailabilityRequest struct {
	UserID      int64 `json:"UserID"`
	CourseID    int64 `json:"CourseID"`
	IsAvailable int   `json:"isAvailable"`
}

type assignCoursesRequest struct {
	UserID    int64  `json:"UserID"`
	TeacherID int64  `json:"teacherId"`
	CourseIDs string `json:"courseIds"`
}

type enrollRequest struct {
	UserID   int64 `json:"UserID"`
	CourseID int64 `json:"CourseID"`
}

type gradeRequest struct {
	UserID    int64 `json:"UserID"`
	TeacherID int64 `json:"teacherId"`
	CourseID  int64 `json:"CourseID"`
	Mark      int32 `json:"mark"`
}

type courseTitleResponse struct {
	Title string `json:"Title"`
}

// Handlers

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	titles, err := s.workflow.ListCourses(r.Context())
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}
	resp := make([]courseTitleResponse, 0, len(titles))
	for _, title := range titles {
		resp = append(resp, courseTitleResponse{Title: title})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetAvailability(w http.ResponseWriter, r *http.Request) {
	var req setAvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "invalid request body")
		return
	}
	msg, err := s.workflow.SetCourseAvailability(r.Context(), req.UserID, req.CourseID, req.IsAvailable)
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": msg})
}

func (s *Server) handleAssignCourses(w http.ResponseWriter, r *http.Request) {
	var req assignCoursesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Item failures are logged by the coordinator; the batch response is
	// emitted once every item has been processed.
	if _, err := s.workflow.AssignCourses(r.Context(), req.UserID, req.TeacherID, req.CourseIDs); err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, "Courses assigned to teacher successfully")
}

func (s *Server) handleViewCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.workflow.ListAvailableCourses(r.Context())
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "invalid request body")
		return
	}
	msg, err := s.workflow.Enroll(r.Context(), req.UserID, req.CourseID)
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, msg)
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "invalid request body")
		return
	}
	msg, err := s.workflow.Grade(r.Context(), req.TeacherID, req.UserID, req.CourseID, req.Mark)
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, msg)
}

// Error mapping

func (s *Server) writeWorkflowError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *workflow.ValidationError
	var permissionErr *workflow.PermissionError
	var notFoundErr *workflow.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		writeText(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &permissionErr):
		writeText(w, http.StatusForbidden, permissionErr.Error())
	case errors.As(err, &notFoundErr):
		writeText(w, http.StatusNotFound, notFoundErr.Error())
	default:
		// Store error detail stays server-side.
		s.logger.Error("store failure",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// Utilities

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}
