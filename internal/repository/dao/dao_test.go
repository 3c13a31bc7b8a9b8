package dao

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tests in this package run the DAOs against a disposable Postgres container,
// because the interesting behavior (unique violations, case-insensitive
// identity matching) lives in the database. `go test -short` skips them.

var testDB *gorm.DB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("dockertest.NewPool: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		log.Fatalf("docker is not available: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=canteen",
			"POSTGRES_PASSWORD=canteen",
			"POSTGRES_DB=canteen_test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("pool.RunWithOptions: %v", err)
	}
	_ = resource.Expire(180)

	dsn := fmt.Sprintf("host=localhost port=%s user=canteen password=canteen dbname=canteen_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	pool.MaxWait = 60 * time.Second
	if err = pool.Retry(func() error {
		db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}
		if pingErr := sqlDB.Ping(); pingErr != nil {
			return pingErr
		}
		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("InitTables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("pool.Purge: %v", err)
	}

	os.Exit(code)
}

func skipWithoutDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
}

func TestUserDAOUniqueEmail(t *testing.T) {
	skipWithoutDB(t)
	d := NewUserDAO(testDB)
	ctx := context.Background()

	user, err := d.Insert(ctx, User{
		Email:     "unique.email@example.com",
		Password:  "hash",
		FirstName: "Jean",
		LastName:  "Dupont",
		Role:      "PARENT",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	_, err = d.Insert(ctx, User{
		Email:     "unique.email@example.com",
		Password:  "hash",
		FirstName: "Other",
		LastName:  "Person",
		Role:      "PARENT",
	})
	assert.ErrorIs(t, err, ErrUserEmailExists)

	found, err := d.FindByEmail(ctx, "unique.email@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = d.FindByID(ctx, 999999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStudentDAOCodeUniquePerSchool(t *testing.T) {
	skipWithoutDB(t)
	d := NewStudentDAO(testDB)
	ctx := context.Background()

	schoolDAO := NewSchoolDAO(testDB)
	schoolA, err := schoolDAO.Insert(ctx, School{Name: "École Code A"})
	require.NoError(t, err)
	schoolB, err := schoolDAO.Insert(ctx, School{Name: "École Code B"})
	require.NoError(t, err)

	code := "STU-42"
	_, err = d.Insert(ctx, Student{FirstName: "Awa", LastName: "Ouédraogo", SchoolID: schoolA.ID, StudentCode: &code})
	require.NoError(t, err)

	_, err = d.Insert(ctx, Student{FirstName: "Issa", LastName: "Kaboré", SchoolID: schoolA.ID, StudentCode: &code})
	assert.ErrorIs(t, err, ErrStudentCodeExists)

	// The same code is fine in another school.
	_, err = d.Insert(ctx, Student{FirstName: "Issa", LastName: "Kaboré", SchoolID: schoolB.ID, StudentCode: &code})
	assert.NoError(t, err)
}

func TestStudentDAOFindByIdentity(t *testing.T) {
	skipWithoutDB(t)
	d := NewStudentDAO(testDB)
	ctx := context.Background()

	schoolDAO := NewSchoolDAO(testDB)
	school, err := schoolDAO.Insert(ctx, School{Name: "École Identité"})
	require.NoError(t, err)

	birth := time.Date(2016, time.March, 12, 0, 0, 0, 0, time.UTC)
	created, err := d.Insert(ctx, Student{
		FirstName: "Fatou",
		LastName:  "Sawadogo",
		ClassName: "CM2",
		BirthDate: &birth,
		SchoolID:  school.ID,
	})
	require.NoError(t, err)

	// Name matching is case-insensitive.
	found, err := d.FindByIdentity(ctx, school.ID, nil, "FATOU", "sawadogo", &birth, "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	wrongBirth := birth.AddDate(1, 0, 0)
	_, err = d.FindByIdentity(ctx, school.ID, nil, "Fatou", "Sawadogo", &wrongBirth, "")
	assert.ErrorIs(t, err, ErrStudentZeroMatches)

	_, err = d.FindByIdentity(ctx, school.ID, nil, "Fatou", "Sawadogo", nil, "")
	assert.ErrorIs(t, err, ErrStudentZeroMatches)
}

func TestAttendanceDAODuplicatePair(t *testing.T) {
	skipWithoutDB(t)
	d := NewAttendanceDAO(testDB)
	ctx := context.Background()

	schoolDAO := NewSchoolDAO(testDB)
	school, err := schoolDAO.Insert(ctx, School{Name: "École Cantine"})
	require.NoError(t, err)

	studentDAO := NewStudentDAO(testDB)
	student, err := studentDAO.Insert(ctx, Student{FirstName: "Awa", LastName: "Ouédraogo", SchoolID: school.ID})
	require.NoError(t, err)

	menuDAO := NewMenuDAO(testDB)
	menu, err := menuDAO.Insert(ctx, Menu{
		SchoolID:  school.ID,
		Date:      time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
		MealType:  "LUNCH",
		Status:    "APPROVED",
		CreatedBy: 1,
	})
	require.NoError(t, err)

	first, err := d.Insert(ctx, Attendance{
		StudentID: student.ID,
		MenuID:    menu.ID,
		Date:      menu.Date,
		Present:   true,
		MarkedBy:  1,
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	_, err = d.Insert(ctx, Attendance{
		StudentID: student.ID,
		MenuID:    menu.ID,
		Date:      menu.Date,
		Present:   false,
		MarkedBy:  1,
	})
	assert.ErrorIs(t, err, ErrAttendanceExists)
}

func TestUserDAODeleteDetachesReferences(t *testing.T) {
	skipWithoutDB(t)
	userDAO := NewUserDAO(testDB)
	schoolDAO := NewSchoolDAO(testDB)
	studentDAO := NewStudentDAO(testDB)
	ctx := context.Background()

	parent, err := userDAO.Insert(ctx, User{
		Email:     "detach.parent@example.com",
		Password:  "hash",
		FirstName: "Ali",
		LastName:  "Traoré",
		Role:      "PARENT",
	})
	require.NoError(t, err)

	school, err := schoolDAO.Insert(ctx, School{Name: "École Détachée"})
	require.NoError(t, err)

	parentID := parent.ID
	student, err := studentDAO.Insert(ctx, Student{FirstName: "Awa", LastName: "Traoré", SchoolID: school.ID, ParentID: &parentID})
	require.NoError(t, err)

	require.NoError(t, userDAO.Delete(ctx, parent.ID))

	orphan, err := studentDAO.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.ParentID)

	assert.ErrorIs(t, userDAO.Delete(ctx, parent.ID), ErrUserNotFound)
}
