package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository"
)

type fakeManagerRepo struct {
	users map[uint]domain.User
}

func (f *fakeManagerRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeManagerRepo) FindByRoleAndSchool(_ context.Context, role string, schoolID uint) ([]domain.User, error) {
	out := []domain.User{}
	for _, user := range f.users {
		if user.Role == role && user.SchoolID != nil && *user.SchoolID == schoolID {
			out = append(out, user)
		}
	}

	return out, nil
}

func (f *fakeManagerRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)

	return nil
}

func newUserServiceForTest() (*UserService, *fakeManagerRepo) {
	adminID := uint(2)
	mySchool, otherSchool := uint(1), uint(2)
	users := &fakeManagerRepo{users: map[uint]domain.User{
		3: {ID: 3, Email: "manager@gmail.com", Role: domain.RoleCanteenManager, SchoolID: &mySchool},
		4: {ID: 4, Email: "elsewhere@gmail.com", Role: domain.RoleCanteenManager, SchoolID: &otherSchool},
		9: {ID: 9, Email: "parent@example.com", Role: domain.RoleParent, SchoolID: &mySchool},
	}}
	schools := &fakeAuthSchoolRepo{schools: map[uint]domain.School{
		1: {ID: 1, Name: "Mon École", AdminID: &adminID},
		2: {ID: 2, Name: "Autre École"},
	}}

	return NewUserService(users, schools), users
}

func TestListCanteenManagers(t *testing.T) {
	svc, _ := newUserServiceForTest()

	managers, err := svc.ListCanteenManagers(context.Background(), domain.User{ID: 2, Role: domain.RoleSchoolAdmin})
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "manager@gmail.com", managers[0].Email)

	// An admin without a school sees nothing.
	managers, err = svc.ListCanteenManagers(context.Background(), domain.User{ID: 99, Role: domain.RoleSchoolAdmin})
	require.NoError(t, err)
	assert.Empty(t, managers)
}

func TestDeleteCanteenManagerScopedToOwnSchool(t *testing.T) {
	svc, users := newUserServiceForTest()
	admin := domain.User{ID: 2, Role: domain.RoleSchoolAdmin}

	// Another school's manager reads as not found.
	err := svc.DeleteCanteenManager(context.Background(), admin, 4)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// A non-manager is never deletable through this path.
	err = svc.DeleteCanteenManager(context.Background(), admin, 9)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, svc.DeleteCanteenManager(context.Background(), admin, 3))
	_, ok := users.users[3]
	assert.False(t, ok)
}
