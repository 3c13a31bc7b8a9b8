package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository"
)

type fakeSubscriptionRepo struct {
	nextID uint
	subs   map[uint]domain.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: map[uint]domain.Subscription{}}
}

func (f *fakeSubscriptionRepo) Create(_ context.Context, sub domain.Subscription) (domain.Subscription, error) {
	f.nextID++
	sub.ID = f.nextID
	f.subs[sub.ID] = sub

	return sub, nil
}

func (f *fakeSubscriptionRepo) FindByID(_ context.Context, id uint) (domain.Subscription, error) {
	sub, ok := f.subs[id]
	if !ok {
		return domain.Subscription{}, repository.ErrSubscriptionNotFound
	}

	return sub, nil
}

func (f *fakeSubscriptionRepo) Find(_ context.Context, studentIDs []uint, status string) ([]domain.Subscription, error) {
	out := []domain.Subscription{}
	for _, sub := range f.subs {
		if studentIDs != nil && !containsUint(studentIDs, sub.StudentID) {
			continue
		}
		if status != "" && sub.Status != status {
			continue
		}
		out = append(out, sub)
	}

	return out, nil
}

func (f *fakeSubscriptionRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	sub, ok := f.subs[id]
	if !ok {
		return repository.ErrSubscriptionNotFound
	}
	sub.Status = status
	f.subs[id] = sub

	return nil
}

func (f *fakeSubscriptionRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.subs[id]; !ok {
		return repository.ErrSubscriptionNotFound
	}
	delete(f.subs, id)

	return nil
}

type fakePaymentCounter struct {
	counts map[uint]int64
}

func (f *fakePaymentCounter) CountBySubscription(_ context.Context, subscriptionID uint) (int64, error) {
	return f.counts[subscriptionID], nil
}

type subscriptionFixture struct {
	svc      *SubscriptionService
	repo     *fakeSubscriptionRepo
	students *fakeStudentRepo
	payments *fakePaymentCounter
}

func newSubscriptionFixture() *subscriptionFixture {
	repo := newFakeSubscriptionRepo()
	students := newFakeStudentRepo()
	payments := &fakePaymentCounter{counts: map[uint]int64{}}

	return &subscriptionFixture{
		svc:      NewSubscriptionService(repo, students, payments),
		repo:     repo,
		students: students,
		payments: payments,
	}
}

func TestCreateSubscriptionStartsPendingPayment(t *testing.T) {
	f := newSubscriptionFixture()
	parentID := uint(9)
	student := seedStudent(f.students, domain.Student{FirstName: "Awa", SchoolID: 1, ParentID: &parentID})

	sub, err := f.svc.CreateSubscription(context.Background(), domain.Subscription{
		StudentID: student.ID,
		Status:    domain.SubscriptionStatusActive, // caller-supplied status is ignored
	}, domain.User{ID: 9, Role: domain.RoleParent})
	require.NoError(t, err)

	assert.Equal(t, domain.SubscriptionStatusPendingPayment, sub.Status)
}

func TestCreateSubscriptionParentMustOwnStudent(t *testing.T) {
	f := newSubscriptionFixture()
	otherParent := uint(10)
	claimed := seedStudent(f.students, domain.Student{FirstName: "Awa", SchoolID: 1, ParentID: &otherParent})
	unclaimed := seedStudent(f.students, domain.Student{FirstName: "Issa", SchoolID: 1})

	parent := domain.User{ID: 9, Role: domain.RoleParent}
	_, err := f.svc.CreateSubscription(context.Background(), domain.Subscription{StudentID: claimed.ID}, parent)
	assert.ErrorIs(t, err, ErrNotParentOfStudent)

	_, err = f.svc.CreateSubscription(context.Background(), domain.Subscription{StudentID: unclaimed.ID}, parent)
	assert.ErrorIs(t, err, ErrNotParentOfStudent)

	_, err = f.svc.CreateSubscription(context.Background(), domain.Subscription{StudentID: 99}, parent)
	assert.ErrorIs(t, err, ErrStudentNotFound)

	// Admins may subscribe any student.
	_, err = f.svc.CreateSubscription(context.Background(), domain.Subscription{StudentID: unclaimed.ID}, domain.User{ID: 2, Role: domain.RoleSchoolAdmin})
	assert.NoError(t, err)
}

func TestGetSubscriptionVisibility(t *testing.T) {
	f := newSubscriptionFixture()
	parentID := uint(9)
	student := seedStudent(f.students, domain.Student{FirstName: "Awa", SchoolID: 1, ParentID: &parentID})
	sub, err := f.svc.CreateSubscription(context.Background(), domain.Subscription{StudentID: student.ID}, domain.User{ID: 9, Role: domain.RoleParent})
	require.NoError(t, err)

	_, err = f.svc.GetSubscription(context.Background(), sub.ID, domain.User{ID: 9, Role: domain.RoleParent}, domain.Scope{})
	require.NoError(t, err)

	_, err = f.svc.GetSubscription(context.Background(), sub.ID, domain.User{ID: 10, Role: domain.RoleParent}, domain.Scope{})
	assert.ErrorIs(t, err, ErrNotParentOfStudent)

	admin := domain.User{ID: 2, Role: domain.RoleSchoolAdmin}
	_, err = f.svc.GetSubscription(context.Background(), sub.ID, admin, domain.ScopeOf(1))
	require.NoError(t, err)
	_, err = f.svc.GetSubscription(context.Background(), sub.ID, admin, domain.ScopeOf(2))
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestListSubscriptionsScoping(t *testing.T) {
	f := newSubscriptionFixture()
	parentID := uint(9)
	mine := seedStudent(f.students, domain.Student{FirstName: "Awa", SchoolID: 1, ParentID: &parentID})
	other := seedStudent(f.students, domain.Student{FirstName: "Moussa", SchoolID: 2})

	admin := domain.User{ID: 2, Role: domain.RoleSchoolAdmin}
	_, err := f.svc.CreateSubscription(context.Background(), domain.Subscription{StudentID: mine.ID}, admin)
	require.NoError(t, err)
	_, err = f.svc.CreateSubscription(context.Background(), domain.Subscription{StudentID: other.ID}, admin)
	require.NoError(t, err)

	subs, err := f.svc.ListSubscriptions(context.Background(), domain.User{ID: 1, Role: domain.RoleSuperAdmin}, domain.ScopeAll(), nil, "")
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	subs, err = f.svc.ListSubscriptions(context.Background(), admin, domain.ScopeOf(1), nil, "")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, mine.ID, subs[0].StudentID)

	// A student filter outside the visible set yields nothing.
	outside := other.ID
	subs, err = f.svc.ListSubscriptions(context.Background(), admin, domain.ScopeOf(1), &outside, "")
	require.NoError(t, err)
	assert.Empty(t, subs)

	parent := domain.User{ID: 9, Role: domain.RoleParent}
	subs, err = f.svc.ListSubscriptions(context.Background(), parent, domain.Scope{}, nil, "")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, mine.ID, subs[0].StudentID)
}

func TestOverrideStatus(t *testing.T) {
	f := newSubscriptionFixture()
	student := seedStudent(f.students, domain.Student{FirstName: "Awa", SchoolID: 1})
	sub, err := f.svc.CreateSubscription(context.Background(), domain.Subscription{StudentID: student.ID}, domain.User{ID: 1, Role: domain.RoleSuperAdmin})
	require.NoError(t, err)

	updated, err := f.svc.OverrideStatus(context.Background(), sub.ID, domain.SubscriptionStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionStatusSuspended, updated.Status)

	_, err = f.svc.OverrideStatus(context.Background(), sub.ID, "FROZEN")
	assert.ErrorIs(t, err, ErrInvalidSubscriptionState)
}

func TestDeleteSubscriptionRefusesWithPayments(t *testing.T) {
	f := newSubscriptionFixture()
	student := seedStudent(f.students, domain.Student{FirstName: "Awa", SchoolID: 1})
	sub, err := f.svc.CreateSubscription(context.Background(), domain.Subscription{StudentID: student.ID}, domain.User{ID: 1, Role: domain.RoleSuperAdmin})
	require.NoError(t, err)

	f.payments.counts[sub.ID] = 2
	err = f.svc.DeleteSubscription(context.Background(), sub.ID)
	assert.ErrorIs(t, err, ErrSubscriptionHasPayments)

	f.payments.counts[sub.ID] = 0
	err = f.svc.DeleteSubscription(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Empty(t, f.repo.subs)
}
