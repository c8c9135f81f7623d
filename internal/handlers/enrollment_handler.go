package handlers

import (
	"net/http"

	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/service"
)

type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	log         *logger.Logger
}

func NewEnrollmentHandler(enrollments *service.EnrollmentService, log *logger.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollments: enrollments,
		log:         log,
	}
}

func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEnrollmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	enrollment, err := h.enrollments.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Enrollment created successfully",
		"enrollment": enrollment,
	})
}

func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.enrollments.List(r.Context())
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollments.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, enrollment)
}

func (h *EnrollmentHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(w, r, "studentId")
	if !ok {
		return
	}

	enrollments, err := h.enrollments.ListByStudent(r.Context(), studentID)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) ListByCourseClass(w http.ResponseWriter, r *http.Request) {
	courseClassID, ok := pathID(w, r, "courseClassId")
	if !ok {
		return
	}

	enrollments, err := h.enrollments.ListByCourseClass(r.Context(), courseClassID)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateEnrollmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	enrollment, err := h.enrollments.Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Enrollment updated successfully",
		"enrollment": enrollment,
	})
}

func (h *EnrollmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.enrollments.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondMessage(w, http.StatusOK, "Enrollment deleted successfully")
}
