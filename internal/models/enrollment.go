package models

import "time"

const (
	EnrollmentStatusEnrolled  = "enrolled"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusDropped   = "dropped"
)

var EnrollmentStatuses = []string{
	EnrollmentStatusEnrolled,
	EnrollmentStatusCompleted,
	EnrollmentStatusDropped,
}

type Enrollment struct {
	ID             int64        `json:"id"`
	StudentID      int64        `json:"studentId"`
	CourseClassID  int64        `json:"courseClassId"`
	EnrollmentDate Date         `json:"enrollmentDate"`
	EvaluationNote *int         `json:"evaluationNote"`
	Status         string       `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
	CourseClass    *CourseClass `json:"courseClass,omitempty"`
}

type CreateEnrollmentRequest struct {
	StudentID      int64  `json:"studentId"`
	CourseClassID  int64  `json:"courseClassId"`
	EnrollmentDate *Date  `json:"enrollmentDate,omitempty"`
	Status         string `json:"status,omitempty"`
}

type UpdateEnrollmentRequest struct {
	Status         *string `json:"status,omitempty"`
	EvaluationNote *int    `json:"evaluationNote,omitempty"`
}
