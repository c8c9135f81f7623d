package storage

import "github.com/Varun5711/campusapi/internal/database"

func NewPostgresRepositories(db *database.DBManager) Repositories {
	return Repositories{
		Users:         NewUserStorage(db),
		Products:      NewProductStorage(db),
		Purchases:     NewPurchaseStorage(db),
		Students:      NewStudentStorage(db),
		CourseClasses: NewCourseClassStorage(db),
		Enrollments:   NewEnrollmentStorage(db),
	}
}
