package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Varun5711/campusapi/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract checks the behaviour every Repositories implementation shares.
func runRepositoryContract(t *testing.T, repos Repositories) {
	ctx := context.Background()
	email := "contract-" + uuid.NewString() + "@example.com"

	t.Run("users", func(t *testing.T) {
		u, err := repos.Users.CreateUser(ctx, email, "Contract", "hash-1")
		require.NoError(t, err)
		assert.NotZero(t, u.ID)

		_, err = repos.Users.CreateUser(ctx, email, "Dup", "hash-2")
		assert.ErrorIs(t, err, ErrConflict)

		got, err := repos.Users.GetUserByEmail(ctx, email)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.ID, got.ID)

		missing, err := repos.Users.GetUserByID(ctx, -1)
		require.NoError(t, err)
		assert.Nil(t, missing)

		cred, err := repos.Users.GetCredential(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, cred)
		assert.Equal(t, "hash-1", cred.PasswordHash)

		require.NoError(t, repos.Users.UpdatePassword(ctx, u.ID, "hash-3"))
		cred, err = repos.Users.GetCredential(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "hash-3", cred.PasswordHash)

		assert.ErrorIs(t, repos.Users.UpdatePassword(ctx, -1, "x"), ErrNotFound)

		updated, err := repos.Users.UpdateUser(ctx, u.ID, email, "Renamed")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)

		_, err = repos.Users.UpdateUser(ctx, -1, "x@example.com", "x")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	user, err := repos.Users.GetUserByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, user)

	var product *models.Product
	t.Run("products and purchases", func(t *testing.T) {
		product, err = repos.Products.CreateProduct(ctx, &models.Product{Name: "Notebook", Description: "A5", Price: 4.5, Stock: 3})
		require.NoError(t, err)
		assert.InDelta(t, 4.5, product.Price, 0.001)

		purchase, err := repos.Purchases.CreatePurchase(ctx, user.ID, product.ID, 2, models.PurchaseStatusCompleted)
		require.NoError(t, err)
		assert.InDelta(t, 4.5, purchase.PurchasePrice, 0.001)
		require.NotNil(t, purchase.Product)
		assert.Equal(t, 1, purchase.Product.Stock)

		_, err = repos.Purchases.CreatePurchase(ctx, user.ID, product.ID, 2, models.PurchaseStatusCompleted)
		assert.ErrorIs(t, err, ErrInsufficientStock)

		_, err = repos.Purchases.CreatePurchase(ctx, user.ID, -1, 1, models.PurchaseStatusCompleted)
		assert.ErrorIs(t, err, ErrNotFound)

		reloaded, err := repos.Products.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, reloaded.Stock, "failed purchase must not touch stock")

		byUser, err := repos.Purchases.ListPurchasesByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, byUser, 1)

		changed, err := repos.Purchases.UpdatePurchaseStatus(ctx, purchase.ID, models.PurchaseStatusRefunded)
		require.NoError(t, err)
		assert.Equal(t, models.PurchaseStatusRefunded, changed.Status)

		_, err = repos.Purchases.UpdatePurchaseStatus(ctx, -1, models.PurchaseStatusRefunded)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("students and enrollments", func(t *testing.T) {
		start := models.NewDate(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
		year := 2028
		st, err := repos.Students.CreateStudent(ctx, &models.Student{
			UserID:         user.ID,
			Major:          "Physics",
			StudentNumber:  "S-" + uuid.NewString()[:8],
			EnrollmentDate: &start,
			GraduationYear: &year,
		})
		require.NoError(t, err)
		require.NotNil(t, st.User)
		assert.Equal(t, user.Email, st.User.Email)
		require.NotNil(t, st.EnrollmentDate)
		assert.Equal(t, "2025-09-01", st.EnrollmentDate.String())

		_, err = repos.Students.CreateStudent(ctx, &models.Student{UserID: user.ID, Major: "Again"})
		assert.ErrorIs(t, err, ErrConflict)

		byUser, err := repos.Students.GetStudentByUserID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, byUser)
		assert.Equal(t, st.ID, byUser.ID)

		class, err := repos.CourseClasses.CreateCourseClass(ctx, &models.CourseClass{
			Name: "Mechanics", Credits: 6, Status: models.CourseStatusActive, StartDate: &start,
		})
		require.NoError(t, err)

		e, err := repos.Enrollments.CreateEnrollment(ctx, &models.Enrollment{
			StudentID: st.ID, CourseClassID: class.ID, EnrollmentDate: start, Status: models.EnrollmentStatusEnrolled,
		})
		require.NoError(t, err)
		require.NotNil(t, e.CourseClass)
		assert.Equal(t, "Mechanics", e.CourseClass.Name)
		assert.Nil(t, e.EvaluationNote)

		_, err = repos.Enrollments.CreateEnrollment(ctx, &models.Enrollment{
			StudentID: st.ID, CourseClassID: class.ID, EnrollmentDate: start, Status: models.EnrollmentStatusEnrolled,
		})
		assert.ErrorIs(t, err, ErrConflict)

		note := 87
		e.EvaluationNote = &note
		e.Status = models.EnrollmentStatusCompleted
		graded, err := repos.Enrollments.UpdateEnrollment(ctx, e)
		require.NoError(t, err)
		require.NotNil(t, graded.EvaluationNote)
		assert.Equal(t, 87, *graded.EvaluationNote)

		byClass, err := repos.Enrollments.ListEnrollmentsByCourseClass(ctx, class.ID)
		require.NoError(t, err)
		assert.Len(t, byClass, 1)

		require.NoError(t, repos.CourseClasses.DeleteCourseClass(ctx, class.ID))
		byStudent, err := repos.Enrollments.ListEnrollmentsByStudent(ctx, st.ID)
		require.NoError(t, err)
		assert.Empty(t, byStudent, "deleting a class removes its enrollments")
	})

	t.Run("delete cascades", func(t *testing.T) {
		require.NoError(t, repos.Users.DeleteUser(ctx, user.ID))
		assert.ErrorIs(t, repos.Users.DeleteUser(ctx, user.ID), ErrNotFound)

		st, err := repos.Students.GetStudentByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, st)

		cred, err := repos.Users.GetCredential(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, cred)

		require.NoError(t, repos.Products.DeleteProduct(ctx, product.ID))
		assert.ErrorIs(t, repos.Products.DeleteProduct(ctx, product.ID), ErrNotFound)
	})
}
