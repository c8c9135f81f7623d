package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Varun5711/campusapi/internal/models"
)

// MemoryStorage implements every repository in process memory with the same
// uniqueness, reference and cascade rules as the Postgres schema.
type MemoryStorage struct {
	mu sync.RWMutex

	seq         int64
	users       map[int64]*models.User
	credentials map[int64]*models.Credential // by user id
	products    map[int64]*models.Product
	purchases   map[int64]*models.Purchase
	students    map[int64]*models.Student
	classes     map[int64]*models.CourseClass
	enrollments map[int64]*models.Enrollment

	now func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:       make(map[int64]*models.User),
		credentials: make(map[int64]*models.Credential),
		products:    make(map[int64]*models.Product),
		purchases:   make(map[int64]*models.Purchase),
		students:    make(map[int64]*models.Student),
		classes:     make(map[int64]*models.CourseClass),
		enrollments: make(map[int64]*models.Enrollment),
		now:         time.Now,
	}
}

func (s *MemoryStorage) Repositories() Repositories {
	return Repositories{
		Users:         s,
		Products:      s,
		Purchases:     s,
		Students:      s,
		CourseClasses: s,
		Enrollments:   s,
	}
}

func (s *MemoryStorage) nextID() int64 {
	s.seq++
	return s.seq
}

func sortedByID[T any](m map[int64]*T, keep func(*T) bool, clone func(*T) *T) []*T {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(m[id]))
	}
	return out
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneProduct(p *models.Product) *models.Product {
	c := *p
	return &c
}

func cloneCourseClass(c *models.CourseClass) *models.CourseClass {
	out := *c
	return &out
}

// Users

func (s *MemoryStorage) emailTaken(email string, except int64) bool {
	for id, u := range s.users {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *MemoryStorage) CreateUser(_ context.Context, email, name, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(email, 0) {
		return nil, ErrConflict
	}

	now := s.now()
	u := &models.User{ID: s.nextID(), Email: email, Name: name, CreatedAt: now, UpdatedAt: now}
	s.users[u.ID] = u
	s.credentials[u.ID] = &models.Credential{ID: s.nextID(), UserID: u.ID, PasswordHash: passwordHash}
	return cloneUser(u), nil
}

func (s *MemoryStorage) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (s *MemoryStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *MemoryStorage) GetCredential(_ context.Context, userID int64) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.credentials[userID]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (s *MemoryStorage) ListUsers(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.users, nil, cloneUser), nil
}

func (s *MemoryStorage) UpdateUser(_ context.Context, id int64, email, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.emailTaken(email, id) {
		return nil, ErrConflict
	}

	u.Email = email
	u.Name = name
	u.UpdatedAt = s.now()
	return cloneUser(u), nil
}

func (s *MemoryStorage) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.credentials[userID]
	if !ok {
		return ErrNotFound
	}
	c.PasswordHash = passwordHash
	if u, ok := s.users[userID]; ok {
		u.UpdatedAt = s.now()
	}
	return nil
}

func (s *MemoryStorage) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}

	delete(s.users, id)
	delete(s.credentials, id)
	for pid, p := range s.purchases {
		if p.UserID == id {
			delete(s.purchases, pid)
		}
	}
	for sid, st := range s.students {
		if st.UserID == id {
			s.deleteStudentLocked(sid)
		}
	}
	return nil
}

// Products

func (s *MemoryStorage) CreateProduct(_ context.Context, p *models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	created := cloneProduct(p)
	created.ID = s.nextID()
	created.CreatedAt = now
	created.UpdatedAt = now
	s.products[created.ID] = created
	return cloneProduct(created), nil
}

func (s *MemoryStorage) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (s *MemoryStorage) ListProducts(_ context.Context) ([]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.products, nil, cloneProduct), nil
}

func (s *MemoryStorage) UpdateProduct(_ context.Context, p *models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[p.ID]
	if !ok {
		return nil, ErrNotFound
	}

	existing.Name = p.Name
	existing.Description = p.Description
	existing.Price = p.Price
	existing.Stock = p.Stock
	existing.UpdatedAt = s.now()
	return cloneProduct(existing), nil
}

func (s *MemoryStorage) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	for pid, p := range s.purchases {
		if p.ProductID == id {
			delete(s.purchases, pid)
		}
	}
	return nil
}

// Purchases

func (s *MemoryStorage) purchaseView(p *models.Purchase) *models.Purchase {
	out := *p
	if prod, ok := s.products[p.ProductID]; ok {
		out.Product = cloneProduct(prod)
	}
	return &out
}

func (s *MemoryStorage) CreatePurchase(_ context.Context, userID, productID int64, quantity int, status string) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prod, ok := s.products[productID]
	if !ok {
		return nil, ErrNotFound
	}
	if prod.Stock < quantity {
		return nil, ErrInsufficientStock
	}
	if _, ok := s.users[userID]; !ok {
		return nil, ErrReferenceMissing
	}

	now := s.now()
	p := &models.Purchase{
		ID:            s.nextID(),
		UserID:        userID,
		ProductID:     productID,
		Quantity:      quantity,
		PurchasePrice: prod.Price,
		Status:        status,
		CreatedAt:     now,
	}
	s.purchases[p.ID] = p
	prod.Stock -= quantity
	prod.UpdatedAt = now

	return s.purchaseView(p), nil
}

func (s *MemoryStorage) GetPurchase(_ context.Context, id int64) (*models.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.purchases[id]
	if !ok {
		return nil, nil
	}
	return s.purchaseView(p), nil
}

func (s *MemoryStorage) ListPurchases(_ context.Context) ([]*models.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.purchases, nil, s.purchaseView), nil
}

func (s *MemoryStorage) ListPurchasesByUser(_ context.Context, userID int64) ([]*models.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.purchases, func(p *models.Purchase) bool { return p.UserID == userID }, s.purchaseView), nil
}

func (s *MemoryStorage) UpdatePurchaseStatus(_ context.Context, id int64, status string) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.purchases[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Status = status
	return s.purchaseView(p), nil
}

// Students

func (s *MemoryStorage) studentView(st *models.Student) *models.Student {
	out := *st
	if u, ok := s.users[st.UserID]; ok {
		out.User = cloneUser(u)
	}
	return &out
}

func (s *MemoryStorage) CreateStudent(_ context.Context, st *models.Student) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[st.UserID]; !ok {
		return nil, ErrReferenceMissing
	}
	for _, existing := range s.students {
		if existing.UserID == st.UserID {
			return nil, ErrConflict
		}
	}

	now := s.now()
	created := *st
	created.ID = s.nextID()
	created.User = nil
	created.CreatedAt = now
	created.UpdatedAt = now
	s.students[created.ID] = &created
	return s.studentView(&created), nil
}

func (s *MemoryStorage) GetStudent(_ context.Context, id int64) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return nil, nil
	}
	return s.studentView(st), nil
}

func (s *MemoryStorage) GetStudentByUserID(_ context.Context, userID int64) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.students {
		if st.UserID == userID {
			return s.studentView(st), nil
		}
	}
	return nil, nil
}

func (s *MemoryStorage) ListStudents(_ context.Context) ([]*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.students, nil, s.studentView), nil
}

func (s *MemoryStorage) UpdateStudent(_ context.Context, st *models.Student) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.students[st.ID]
	if !ok {
		return nil, ErrNotFound
	}

	existing.Major = st.Major
	existing.StudentNumber = st.StudentNumber
	existing.EnrollmentDate = st.EnrollmentDate
	existing.GraduationYear = st.GraduationYear
	existing.UpdatedAt = s.now()
	return s.studentView(existing), nil
}

func (s *MemoryStorage) deleteStudentLocked(id int64) {
	delete(s.students, id)
	for eid, e := range s.enrollments {
		if e.StudentID == id {
			delete(s.enrollments, eid)
		}
	}
}

func (s *MemoryStorage) DeleteStudent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return ErrNotFound
	}
	s.deleteStudentLocked(id)
	return nil
}

// Course classes

func (s *MemoryStorage) CreateCourseClass(_ context.Context, c *models.CourseClass) (*models.CourseClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	created := cloneCourseClass(c)
	created.ID = s.nextID()
	created.CreatedAt = now
	created.UpdatedAt = now
	s.classes[created.ID] = created
	return cloneCourseClass(created), nil
}

func (s *MemoryStorage) GetCourseClass(_ context.Context, id int64) (*models.CourseClass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.classes[id]
	if !ok {
		return nil, nil
	}
	return cloneCourseClass(c), nil
}

func (s *MemoryStorage) ListCourseClasses(_ context.Context) ([]*models.CourseClass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.classes, nil, cloneCourseClass), nil
}

func (s *MemoryStorage) UpdateCourseClass(_ context.Context, c *models.CourseClass) (*models.CourseClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.classes[c.ID]
	if !ok {
		return nil, ErrNotFound
	}

	updated := cloneCourseClass(c)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()
	s.classes[c.ID] = updated
	return cloneCourseClass(updated), nil
}

func (s *MemoryStorage) DeleteCourseClass(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.classes[id]; !ok {
		return ErrNotFound
	}
	delete(s.classes, id)
	for eid, e := range s.enrollments {
		if e.CourseClassID == id {
			delete(s.enrollments, eid)
		}
	}
	return nil
}

// Enrollments

func (s *MemoryStorage) enrollmentView(e *models.Enrollment) *models.Enrollment {
	out := *e
	if c, ok := s.classes[e.CourseClassID]; ok {
		out.CourseClass = cloneCourseClass(c)
	}
	return &out
}

func (s *MemoryStorage) CreateEnrollment(_ context.Context, e *models.Enrollment) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[e.StudentID]; !ok {
		return nil, ErrReferenceMissing
	}
	if _, ok := s.classes[e.CourseClassID]; !ok {
		return nil, ErrReferenceMissing
	}
	for _, existing := range s.enrollments {
		if existing.StudentID == e.StudentID && existing.CourseClassID == e.CourseClassID {
			return nil, ErrConflict
		}
	}

	now := s.now()
	created := *e
	created.ID = s.nextID()
	created.CourseClass = nil
	created.CreatedAt = now
	created.UpdatedAt = now
	s.enrollments[created.ID] = &created
	return s.enrollmentView(&created), nil
}

func (s *MemoryStorage) GetEnrollment(_ context.Context, id int64) (*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.enrollments[id]
	if !ok {
		return nil, nil
	}
	return s.enrollmentView(e), nil
}

func (s *MemoryStorage) ListEnrollments(_ context.Context) ([]*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.enrollments, nil, s.enrollmentView), nil
}

func (s *MemoryStorage) ListEnrollmentsByStudent(_ context.Context, studentID int64) ([]*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.enrollments, func(e *models.Enrollment) bool { return e.StudentID == studentID }, s.enrollmentView), nil
}

func (s *MemoryStorage) ListEnrollmentsByCourseClass(_ context.Context, courseClassID int64) ([]*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedByID(s.enrollments, func(e *models.Enrollment) bool { return e.CourseClassID == courseClassID }, s.enrollmentView), nil
}

func (s *MemoryStorage) UpdateEnrollment(_ context.Context, e *models.Enrollment) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.enrollments[e.ID]
	if !ok {
		return nil, ErrNotFound
	}
	existing.Status = e.Status
	existing.EvaluationNote = e.EvaluationNote
	existing.UpdatedAt = s.now()
	return s.enrollmentView(existing), nil
}

func (s *MemoryStorage) DeleteEnrollment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.enrollments[id]; !ok {
		return ErrNotFound
	}
	delete(s.enrollments, id)
	return nil
}
