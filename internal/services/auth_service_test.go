package services

import (
	"testing"

	"github.com/hokuto/taskhub-api/internal/models"
	"github.com/hokuto/taskhub-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// blindUserRepo never sees existing users in the pre-insert duplicate
// check, like a register racing another register for the same email.
type blindUserRepo struct {
	repository.UserRepository
}

func (r blindUserRepo) FindByEmail(email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestAuthService_Register_DuplicateEmailRace(t *testing.T) {
	db := newServiceTestDB(t)
	svc := NewAuthService(blindUserRepo{repository.NewUserRepository(db)}, "test-secret")

	_, err := svc.Register(RegisterInput{
		Name:     "First",
		Email:    "raced@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// The pre-check missed the first insert; the unique index on email
	// still reports the duplicate as a conflict, not an internal error.
	_, err = svc.Register(RegisterInput{
		Name:     "Second",
		Email:    "raced@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}
