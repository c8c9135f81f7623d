package models

import "time"

type Student struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	Major          string    `json:"major"`
	StudentNumber  string    `json:"studentNumber"`
	EnrollmentDate *Date     `json:"enrollmentDate"`
	GraduationYear *int      `json:"graduationYear"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	User           *User     `json:"user,omitempty"`
}

type CreateStudentRequest struct {
	UserID         int64  `json:"userId"`
	Major          string `json:"major"`
	StudentNumber  string `json:"studentNumber,omitempty"`
	EnrollmentDate *Date  `json:"enrollmentDate,omitempty"`
	GraduationYear *int   `json:"graduationYear,omitempty"`
}

type UpdateStudentRequest struct {
	Major          *string `json:"major,omitempty"`
	StudentNumber  *string `json:"studentNumber,omitempty"`
	EnrollmentDate *Date   `json:"enrollmentDate,omitempty"`
	GraduationYear *int    `json:"graduationYear,omitempty"`
}
