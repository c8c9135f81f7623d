package handlers

import (
	"net/http"

	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/service"
)

type CourseClassHandler struct {
	classes *service.CourseClassService
	log     *logger.Logger
}

func NewCourseClassHandler(classes *service.CourseClassService, log *logger.Logger) *CourseClassHandler {
	return &CourseClassHandler{
		classes: classes,
		log:     log,
	}
}

func (h *CourseClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseClassRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	class, err := h.classes.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Course class created successfully",
		"courseClass": class,
	})
}

func (h *CourseClassHandler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classes.List(r.Context())
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, classes)
}

func (h *CourseClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	class, err := h.classes.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, class)
}

func (h *CourseClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateCourseClassRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	class, err := h.classes.Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Course class updated successfully",
		"courseClass": class,
	})
}

func (h *CourseClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.classes.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondMessage(w, http.StatusOK, "Course class deleted successfully")
}
