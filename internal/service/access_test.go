package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository"
)

type fakeAccessSchoolRepo struct {
	schools map[uint]domain.School
}

func (f *fakeAccessSchoolRepo) FindByID(_ context.Context, id uint) (domain.School, error) {
	school, ok := f.schools[id]
	if !ok {
		return domain.School{}, repository.ErrSchoolNotFound
	}

	return school, nil
}

func (f *fakeAccessSchoolRepo) FindByAdminID(_ context.Context, adminID uint) (domain.School, error) {
	for _, school := range f.schools {
		if school.AdminID != nil && *school.AdminID == adminID {
			return school, nil
		}
	}

	return domain.School{}, repository.ErrSchoolNotFound
}

type fakeAccessStudentRepo struct {
	schoolsByParent map[uint][]uint
}

func (f *fakeAccessStudentRepo) DistinctSchoolIDsByParent(_ context.Context, parentID uint) ([]uint, error) {
	return f.schoolsByParent[parentID], nil
}

func newAccessServiceForTest() (*AccessService, *fakeAccessSchoolRepo, *fakeAccessStudentRepo) {
	adminID := uint(2)
	schools := &fakeAccessSchoolRepo{schools: map[uint]domain.School{
		1: {ID: 1, Name: "Mon École", AdminID: &adminID},
		2: {ID: 2, Name: "Autre École"},
	}}
	students := &fakeAccessStudentRepo{schoolsByParent: map[uint][]uint{}}

	return NewAccessService(schools, students), schools, students
}

func TestResolveSchoolsSuperAdminSeesAll(t *testing.T) {
	svc, _, _ := newAccessServiceForTest()

	scope, err := svc.ResolveSchools(context.Background(), domain.User{ID: 1, Role: domain.RoleSuperAdmin})
	require.NoError(t, err)
	assert.True(t, scope.All)
}

func TestResolveSchoolsSchoolAdmin(t *testing.T) {
	svc, _, _ := newAccessServiceForTest()

	scope, err := svc.ResolveSchools(context.Background(), domain.User{ID: 2, Role: domain.RoleSchoolAdmin})
	require.NoError(t, err)
	assert.False(t, scope.All)
	assert.Equal(t, []uint{1}, scope.SchoolIDs)

	// An admin not attached to any school gets the empty scope.
	scope, err = svc.ResolveSchools(context.Background(), domain.User{ID: 99, Role: domain.RoleSchoolAdmin})
	require.NoError(t, err)
	assert.True(t, scope.IsEmpty())
}

func TestResolveSchoolsCanteenManager(t *testing.T) {
	svc, _, _ := newAccessServiceForTest()
	schoolID := uint(1)

	scope, err := svc.ResolveSchools(context.Background(), domain.User{ID: 3, Role: domain.RoleCanteenManager, SchoolID: &schoolID})
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, scope.SchoolIDs)

	scope, err = svc.ResolveSchools(context.Background(), domain.User{ID: 4, Role: domain.RoleCanteenManager})
	require.NoError(t, err)
	assert.True(t, scope.IsEmpty())
}

func TestResolveSchoolsParentFollowsChildren(t *testing.T) {
	svc, _, students := newAccessServiceForTest()
	students.schoolsByParent[9] = []uint{1, 2}

	scope, err := svc.ResolveSchools(context.Background(), domain.User{ID: 9, Role: domain.RoleParent})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2}, scope.SchoolIDs)

	// A parent with no claimed students sees nothing.
	scope, err = svc.ResolveSchools(context.Background(), domain.User{ID: 10, Role: domain.RoleParent})
	require.NoError(t, err)
	assert.True(t, scope.IsEmpty())
}

func TestResolveSchoolsUnknownRoleFailsClosed(t *testing.T) {
	svc, _, _ := newAccessServiceForTest()

	scope, err := svc.ResolveSchools(context.Background(), domain.User{ID: 1, Role: "JANITOR"})
	require.NoError(t, err)
	assert.True(t, scope.IsEmpty())
}

func TestCanWriteMenu(t *testing.T) {
	svc, _, _ := newAccessServiceForTest()
	menu := domain.Menu{ID: 1, SchoolID: 1}
	otherMenu := domain.Menu{ID: 2, SchoolID: 2}
	schoolID := uint(1)

	assert.True(t, svc.CanWriteMenu(context.Background(), menu, domain.User{ID: 1, Role: domain.RoleSuperAdmin}))

	admin := domain.User{ID: 2, Role: domain.RoleSchoolAdmin}
	assert.True(t, svc.CanWriteMenu(context.Background(), menu, admin))
	assert.False(t, svc.CanWriteMenu(context.Background(), otherMenu, admin))

	manager := domain.User{ID: 3, Role: domain.RoleCanteenManager, SchoolID: &schoolID}
	assert.True(t, svc.CanWriteMenu(context.Background(), menu, manager))
	assert.False(t, svc.CanWriteMenu(context.Background(), otherMenu, manager))

	assert.False(t, svc.CanWriteMenu(context.Background(), menu, domain.User{ID: 9, Role: domain.RoleParent}))
}
