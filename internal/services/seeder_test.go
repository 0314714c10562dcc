package services

import (
	"bytes"
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))
	return db
}

func TestSeeder_CreatesUserWhenNoneExists(t *testing.T) {
	db := newSeedDB(t)
	seeder := NewSeeder(repository.NewUserRepository(db), repository.NewTaskRepository(db)).
		WithRand(rand.New(rand.NewPCG(1, 2)))

	var out bytes.Buffer
	user, created, err := seeder.Seed(context.Background(), 2, &out)
	require.NoError(t, err)

	assert.Equal(t, "demo", user.Username)
	assert.Equal(t, 6, created)
	assert.Contains(t, out.String(), "Created 6 tasks (2 for each status) for user ID: 1")

	for _, status := range models.TaskStatuses {
		var count int64
		require.NoError(t, db.Model(&models.Task{}).
			Where("user_id = ? AND status = ?", user.ID, status).
			Count(&count).Error)
		assert.Equal(t, int64(2), count, string(status))
	}
}

func TestSeeder_UsesFirstUser(t *testing.T) {
	db := newSeedDB(t)
	first := &models.User{Username: "first", PasswordHash: "x"}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(&models.User{Username: "second", PasswordHash: "x"}).Error)

	seeder := NewSeeder(repository.NewUserRepository(db), repository.NewTaskRepository(db))
	user, created, err := seeder.Seed(context.Background(), 1, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, user.ID)
	assert.Equal(t, 3, created)

	var tasks []models.Task
	require.NoError(t, db.Find(&tasks).Error)
	for _, task := range tasks {
		assert.NotEmpty(t, task.Title)
		assert.NotEmpty(t, task.Description)
		assert.False(t, task.CreatedAt.After(time.Now()))
	}
}

func TestSeeder_RejectsNonPositiveCount(t *testing.T) {
	db := newSeedDB(t)
	seeder := NewSeeder(repository.NewUserRepository(db), repository.NewTaskRepository(db))

	_, _, err := seeder.Seed(context.Background(), 0, nil)
	assert.Error(t, err)
}
