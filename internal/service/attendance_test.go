package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository"
)

type fakeAttendanceRepo struct {
	nextID  uint
	records []domain.Attendance
}

func (f *fakeAttendanceRepo) Create(_ context.Context, attendance domain.Attendance) (domain.Attendance, error) {
	for _, existing := range f.records {
		if existing.StudentID == attendance.StudentID && existing.MenuID == attendance.MenuID {
			return domain.Attendance{}, repository.ErrAttendanceExists
		}
	}
	f.nextID++
	attendance.ID = f.nextID
	f.records = append(f.records, attendance)

	return attendance, nil
}

func (f *fakeAttendanceRepo) Find(_ context.Context, studentIDs []uint, menuID *uint, date *time.Time) ([]domain.Attendance, error) {
	out := []domain.Attendance{}
	for _, record := range f.records {
		if studentIDs != nil && !containsUint(studentIDs, record.StudentID) {
			continue
		}
		if menuID != nil && record.MenuID != *menuID {
			continue
		}
		if date != nil && !record.Date.Equal(*date) {
			continue
		}
		out = append(out, record)
	}

	return out, nil
}

type fakeAttStudentRepo struct {
	students map[uint]domain.Student
}

func (f *fakeAttStudentRepo) FindByID(_ context.Context, id uint) (domain.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return domain.Student{}, repository.ErrStudentNotFound
	}

	return student, nil
}

func (f *fakeAttStudentRepo) Find(_ context.Context, schoolIDs []uint, className string, parentID *uint) ([]domain.Student, error) {
	out := []domain.Student{}
	for _, student := range f.students {
		if schoolIDs != nil && !containsUint(schoolIDs, student.SchoolID) {
			continue
		}
		if className != "" && student.ClassName != className {
			continue
		}
		if parentID != nil && (student.ParentID == nil || *student.ParentID != *parentID) {
			continue
		}
		out = append(out, student)
	}

	return out, nil
}

func (f *fakeAttStudentRepo) FindIDsBySchools(_ context.Context, schoolIDs []uint) ([]uint, error) {
	var ids []uint
	for id, student := range f.students {
		if containsUint(schoolIDs, student.SchoolID) {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

type fakeAttMenuRepo struct {
	menus map[uint]domain.Menu
}

func (f *fakeAttMenuRepo) FindByID(_ context.Context, id uint) (domain.Menu, error) {
	menu, ok := f.menus[id]
	if !ok {
		return domain.Menu{}, repository.ErrMenuNotFound
	}

	return menu, nil
}

type fakeAttSubRepo struct {
	latest map[uint]domain.Subscription
}

func (f *fakeAttSubRepo) FindLatestByStudent(_ context.Context, studentID uint) (domain.Subscription, error) {
	sub, ok := f.latest[studentID]
	if !ok {
		return domain.Subscription{}, repository.ErrSubscriptionNotFound
	}

	return sub, nil
}

type fakeAttPayRepo struct {
	latest map[uint]domain.Payment
}

func (f *fakeAttPayRepo) FindLatestPayerBySubscription(_ context.Context, subscriptionID uint) (domain.Payment, error) {
	payment, ok := f.latest[subscriptionID]
	if !ok {
		return domain.Payment{}, repository.ErrPaymentNotFound
	}

	return payment, nil
}

type attendanceFixture struct {
	svc           *AttendanceService
	repo          *fakeAttendanceRepo
	students      *fakeAttStudentRepo
	subs          *fakeAttSubRepo
	payments      *fakeAttPayRepo
	notifications *fakeNotificationRepo
}

func newAttendanceFixture() *attendanceFixture {
	repo := &fakeAttendanceRepo{}
	students := &fakeAttStudentRepo{students: map[uint]domain.Student{}}
	menus := &fakeAttMenuRepo{menus: map[uint]domain.Menu{
		1: {ID: 1, SchoolID: 1, Date: date(2025, time.December, 1), MealType: domain.MealTypeLunch},
		2: {ID: 2, SchoolID: 2, Date: date(2025, time.December, 1), MealType: domain.MealTypeLunch},
	}}
	subs := &fakeAttSubRepo{latest: map[uint]domain.Subscription{}}
	payments := &fakeAttPayRepo{latest: map[uint]domain.Payment{}}
	notifications := &fakeNotificationRepo{}

	return &attendanceFixture{
		svc:           NewAttendanceService(repo, students, menus, subs, payments, notifications),
		repo:          repo,
		students:      students,
		subs:          subs,
		payments:      payments,
		notifications: notifications,
	}
}

func TestMarkAttendanceNotifiesDirectParent(t *testing.T) {
	f := newAttendanceFixture()
	parentID := uint(9)
	f.students.students[5] = domain.Student{ID: 5, SchoolID: 1, FirstName: "Awa", LastName: "Ouédraogo", ParentID: &parentID}

	marker := domain.User{ID: 3, Role: domain.RoleCanteenManager}
	result, err := f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 5, MenuID: 1, Present: true}, marker, domain.ScopeOf(1))
	require.NoError(t, err)

	assert.True(t, result.NotificationSent)
	assert.Equal(t, marker.ID, result.Attendance.MarkedBy)
	assert.Equal(t, date(2025, time.December, 1), result.Attendance.Date)

	require.Len(t, f.notifications.created, 1)
	notification := f.notifications.created[0]
	assert.Equal(t, parentID, notification.UserID)
	assert.Equal(t, domain.NotificationTypeAttendance, notification.Type)
	assert.Contains(t, notification.Message, "Awa Ouédraogo")
	assert.Contains(t, notification.Message, "present")
}

func TestMarkAttendanceAbsenceMessageCarriesReason(t *testing.T) {
	f := newAttendanceFixture()
	parentID := uint(9)
	f.students.students[5] = domain.Student{ID: 5, SchoolID: 1, FirstName: "Awa", LastName: "Ouédraogo", ParentID: &parentID}

	_, err := f.svc.MarkAttendance(context.Background(), domain.Attendance{
		StudentID:           5,
		MenuID:              1,
		Present:             false,
		Justified:           true,
		JustificationReason: "doctor visit",
	}, domain.User{ID: 3, Role: domain.RoleCanteenManager}, domain.ScopeOf(1))
	require.NoError(t, err)

	require.Len(t, f.notifications.created, 1)
	assert.Contains(t, f.notifications.created[0].Message, "absent")
	assert.Contains(t, f.notifications.created[0].Message, "doctor visit")
}

func TestMarkAttendanceDuplicateRejected(t *testing.T) {
	f := newAttendanceFixture()
	f.students.students[5] = domain.Student{ID: 5, SchoolID: 1}

	marker := domain.User{ID: 3, Role: domain.RoleCanteenManager}
	_, err := f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 5, MenuID: 1, Present: true}, marker, domain.ScopeOf(1))
	require.NoError(t, err)

	_, err = f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 5, MenuID: 1, Present: false}, marker, domain.ScopeOf(1))
	assert.ErrorIs(t, err, ErrAttendanceExists)
}

func TestMarkAttendanceUnknownStudentOrMenu(t *testing.T) {
	f := newAttendanceFixture()
	f.students.students[5] = domain.Student{ID: 5, SchoolID: 1}
	marker := domain.User{ID: 3, Role: domain.RoleCanteenManager}

	_, err := f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 99, MenuID: 1}, marker, domain.ScopeOf(1))
	assert.ErrorIs(t, err, ErrStudentNotFound)

	_, err = f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 5, MenuID: 99}, marker, domain.ScopeOf(1))
	assert.ErrorIs(t, err, ErrMenuNotFound)
}

func TestMarkAttendanceFallsBackToLatestPayer(t *testing.T) {
	f := newAttendanceFixture()
	f.students.students[5] = domain.Student{ID: 5, SchoolID: 1, FirstName: "Issa", LastName: "Kaboré"}
	f.subs.latest[5] = domain.Subscription{ID: 7, StudentID: 5}
	payerID := uint(11)
	f.payments.latest[7] = domain.Payment{ID: 20, SubscriptionID: 7, ParentID: &payerID}

	result, err := f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 5, MenuID: 1, Present: true}, domain.User{ID: 3, Role: domain.RoleCanteenManager}, domain.ScopeOf(1))
	require.NoError(t, err)

	assert.True(t, result.NotificationSent)
	require.Len(t, f.notifications.created, 1)
	assert.Equal(t, payerID, f.notifications.created[0].UserID)
}

func TestMarkAttendanceNoParentStillSucceeds(t *testing.T) {
	f := newAttendanceFixture()
	f.students.students[5] = domain.Student{ID: 5, SchoolID: 1}

	result, err := f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 5, MenuID: 1, Present: true}, domain.User{ID: 3, Role: domain.RoleCanteenManager}, domain.ScopeOf(1))
	require.NoError(t, err)

	assert.False(t, result.NotificationSent)
	assert.Empty(t, f.notifications.created)
	assert.Len(t, f.repo.records, 1)
}

func TestMarkAttendanceNotificationFailureKeepsRecord(t *testing.T) {
	f := newAttendanceFixture()
	parentID := uint(9)
	f.students.students[5] = domain.Student{ID: 5, SchoolID: 1, ParentID: &parentID}
	f.notifications.fail = assert.AnError

	result, err := f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 5, MenuID: 1, Present: true}, domain.User{ID: 3, Role: domain.RoleCanteenManager}, domain.ScopeOf(1))
	require.NoError(t, err)

	assert.False(t, result.NotificationSent)
	assert.Len(t, f.repo.records, 1)
}

func TestMarkAttendanceOutsideScopeRejected(t *testing.T) {
	f := newAttendanceFixture()
	f.students.students[5] = domain.Student{ID: 5, SchoolID: 1}
	f.students.students[6] = domain.Student{ID: 6, SchoolID: 2}

	marker := domain.User{ID: 3, Role: domain.RoleCanteenManager}

	// A marker scoped to school 2 cannot touch a school-1 student.
	_, err := f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 5, MenuID: 1, Present: true}, marker, domain.ScopeOf(2))
	assert.ErrorIs(t, err, ErrStudentNotFound)

	// Student and menu must belong to the same school.
	_, err = f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 6, MenuID: 1, Present: true}, marker, domain.ScopeOf(2))
	assert.ErrorIs(t, err, ErrMenuNotFound)

	assert.Empty(t, f.repo.records)
}

func TestListAttendanceParentSeesOnlyOwnChildren(t *testing.T) {
	f := newAttendanceFixture()
	parentID := uint(9)
	otherParentID := uint(10)
	f.students.students[5] = domain.Student{ID: 5, SchoolID: 1, ParentID: &parentID}
	f.students.students[6] = domain.Student{ID: 6, SchoolID: 1, ParentID: &otherParentID}

	marker := domain.User{ID: 3, Role: domain.RoleCanteenManager}
	_, err := f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 5, MenuID: 1, Present: true}, marker, domain.ScopeOf(1))
	require.NoError(t, err)
	_, err = f.svc.MarkAttendance(context.Background(), domain.Attendance{
		StudentID:           6,
		MenuID:              1,
		Present:             false,
		Justified:           true,
		JustificationReason: "medical",
	}, marker, domain.ScopeOf(1))
	require.NoError(t, err)

	parent := domain.User{ID: parentID, Role: domain.RoleParent}
	records, err := f.svc.ListAttendance(context.Background(), parent, domain.ScopeOf(1), nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint(5), records[0].StudentID)

	// Filtering for another family's student leaks nothing either.
	other := uint(6)
	records, err = f.svc.ListAttendance(context.Background(), parent, domain.ScopeOf(1), &other, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	childless := domain.User{ID: 42, Role: domain.RoleParent}
	records, err = f.svc.ListAttendance(context.Background(), childless, domain.ScopeOf(1), nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListAttendanceScoping(t *testing.T) {
	f := newAttendanceFixture()
	f.students.students[5] = domain.Student{ID: 5, SchoolID: 1}
	f.students.students[6] = domain.Student{ID: 6, SchoolID: 2}

	marker := domain.User{ID: 3, Role: domain.RoleCanteenManager}
	_, err := f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 5, MenuID: 1, Present: true}, marker, domain.ScopeOf(1))
	require.NoError(t, err)
	_, err = f.svc.MarkAttendance(context.Background(), domain.Attendance{StudentID: 6, MenuID: 2, Present: true}, marker, domain.ScopeOf(2))
	require.NoError(t, err)

	all, err := f.svc.ListAttendance(context.Background(), marker, domain.Scope{All: true}, nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := f.svc.ListAttendance(context.Background(), marker, domain.ScopeOf(1), nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, uint(5), scoped[0].StudentID)

	// A student filter outside the scope yields nothing rather than leaking.
	outside := uint(6)
	records, err := f.svc.ListAttendance(context.Background(), marker, domain.ScopeOf(1), &outside, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	empty, err := f.svc.ListAttendance(context.Background(), marker, domain.Scope{}, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
