package handlers

import (
	"net/http"

	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/service"
)

type StudentHandler struct {
	students *service.StudentService
	log      *logger.Logger
}

func NewStudentHandler(students *service.StudentService, log *logger.Logger) *StudentHandler {
	return &StudentHandler{
		students: students,
		log:      log,
	}
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	student, err := h.students.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Student created successfully",
		"student": student,
	})
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.students.List(r.Context())
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, students)
}

func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	student, err := h.students.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	student, err := h.students.GetByUserID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateStudentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	student, err := h.students.Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Student updated successfully",
		"student": student,
	})
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.students.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}
	respondMessage(w, http.StatusOK, "Student deleted successfully")
}
