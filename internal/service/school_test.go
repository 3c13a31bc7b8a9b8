package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository"
)

type fakeSchoolRepo struct {
	nextID  uint
	schools map[uint]domain.School
}

func newFakeSchoolRepo() *fakeSchoolRepo {
	return &fakeSchoolRepo{schools: map[uint]domain.School{}}
}

func (f *fakeSchoolRepo) Create(_ context.Context, school domain.School) (domain.School, error) {
	f.nextID++
	school.ID = f.nextID
	f.schools[school.ID] = school

	return school, nil
}

func (f *fakeSchoolRepo) FindByID(_ context.Context, id uint) (domain.School, error) {
	school, ok := f.schools[id]
	if !ok {
		return domain.School{}, repository.ErrSchoolNotFound
	}

	return school, nil
}

func (f *fakeSchoolRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.School, error) {
	out := []domain.School{}
	for _, id := range ids {
		if school, ok := f.schools[id]; ok {
			out = append(out, school)
		}
	}

	return out, nil
}

func (f *fakeSchoolRepo) FindAll(_ context.Context) ([]domain.School, error) {
	out := []domain.School{}
	for _, school := range f.schools {
		out = append(out, school)
	}

	return out, nil
}

func (f *fakeSchoolRepo) Update(_ context.Context, school domain.School) (domain.School, error) {
	if _, ok := f.schools[school.ID]; !ok {
		return domain.School{}, repository.ErrSchoolNotFound
	}
	f.schools[school.ID] = school

	return school, nil
}

func (f *fakeSchoolRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.schools[id]; !ok {
		return repository.ErrSchoolNotFound
	}
	delete(f.schools, id)

	return nil
}

func TestGetSchoolOutsideScopeReadsAsNotFound(t *testing.T) {
	repo := newFakeSchoolRepo()
	svc := NewSchoolService(repo)
	school, err := svc.CreateSchool(context.Background(), domain.School{Name: "Mon École"})
	require.NoError(t, err)

	got, err := svc.GetSchool(context.Background(), school.ID, domain.ScopeOf(school.ID))
	require.NoError(t, err)
	assert.Equal(t, "Mon École", got.Name)

	_, err = svc.GetSchool(context.Background(), school.ID, domain.ScopeOf(99))
	assert.ErrorIs(t, err, ErrSchoolNotFound)

	_, err = svc.GetSchool(context.Background(), 42, domain.ScopeAll())
	assert.ErrorIs(t, err, ErrSchoolNotFound)
}

func TestListSchoolsByScope(t *testing.T) {
	repo := newFakeSchoolRepo()
	svc := NewSchoolService(repo)
	first, _ := svc.CreateSchool(context.Background(), domain.School{Name: "École A"})
	_, _ = svc.CreateSchool(context.Background(), domain.School{Name: "École B"})

	all, err := svc.ListSchools(context.Background(), domain.ScopeAll())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := svc.ListSchools(context.Background(), domain.ScopeOf(first.ID))
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "École A", scoped[0].Name)

	none, err := svc.ListSchools(context.Background(), domain.Scope{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateSchoolPatchesOnlyGivenFields(t *testing.T) {
	repo := newFakeSchoolRepo()
	svc := NewSchoolService(repo)
	school, err := svc.CreateSchool(context.Background(), domain.School{Name: "École A", Address: "Rue 12", City: "Ouagadougou"})
	require.NoError(t, err)

	updated, err := svc.UpdateSchool(context.Background(), school.ID, "", "Avenue Kwame Nkrumah", "", domain.ScopeOf(school.ID))
	require.NoError(t, err)
	assert.Equal(t, "École A", updated.Name)
	assert.Equal(t, "Avenue Kwame Nkrumah", updated.Address)
	assert.Equal(t, "Ouagadougou", updated.City)

	_, err = svc.UpdateSchool(context.Background(), school.ID, "X", "", "", domain.ScopeOf(99))
	assert.ErrorIs(t, err, ErrSchoolNotFound)
}

func TestDeleteSchool(t *testing.T) {
	repo := newFakeSchoolRepo()
	svc := NewSchoolService(repo)
	school, err := svc.CreateSchool(context.Background(), domain.School{Name: "École A"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSchool(context.Background(), school.ID))
	assert.ErrorIs(t, svc.DeleteSchool(context.Background(), school.ID), ErrSchoolNotFound)
}
