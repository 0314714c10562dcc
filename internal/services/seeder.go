package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	seedUsername = "demo"
	seedPassword = "password"
	seedBatch    = 100
)

var seedWords = []string{
	"review", "draft", "update", "plan", "fix", "write", "check", "prepare",
	"report", "budget", "meeting", "release", "design", "notes", "invoice", "backlog",
}

// Seeder fills the database with demo tasks
type Seeder struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
	rnd      *rand.Rand
	now      func() time.Time
}

// NewSeeder creates a new Seeder
func NewSeeder(userRepo repository.UserRepository, taskRepo repository.TaskRepository) *Seeder {
	return &Seeder{
		userRepo: userRepo,
		taskRepo: taskRepo,
		rnd:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithRand replaces the random source
func (s *Seeder) WithRand(rnd *rand.Rand) *Seeder {
	s.rnd = rnd
	return s
}

// Seed creates countPerStatus tasks for each status, owned by the first user.
// A demo user is created when none exists.
func (s *Seeder) Seed(ctx context.Context, countPerStatus int, out io.Writer) (*models.User, int, error) {
	if out == nil {
		out = io.Discard
	}
	if countPerStatus <= 0 {
		return nil, 0, fmt.Errorf("count must be positive, got %d", countPerStatus)
	}

	fmt.Fprintln(out, "Seeding tasks...")

	user, err := s.ownerForSeed(ctx)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	tasks := make([]models.Task, 0, countPerStatus*len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		for i := 0; i < countPerStatus; i++ {
			tasks = append(tasks, s.fakeTask(user.ID, status, len(tasks)+1, now))
		}
	}

	if err := s.taskRepo.CreateInBatches(ctx, tasks, seedBatch); err != nil {
		return nil, 0, fmt.Errorf("failed to seed tasks: %w", err)
	}

	fmt.Fprintf(out, "Created %d tasks (%d for each status) for user ID: %d\n", len(tasks), countPerStatus, user.ID)
	fmt.Fprintln(out, "Tasks seeded successfully!")

	return user, len(tasks), nil
}

func (s *Seeder) ownerForSeed(ctx context.Context) (*models.User, error) {
	user, err := s.userRepo.First(ctx)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user = &models.User{Username: seedUsername, PasswordHash: string(hashedPassword)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create seed user: %w", err)
	}
	return user, nil
}

func (s *Seeder) fakeTask(userID uint64, status models.TaskStatus, n int, now time.Time) models.Task {
	// Spread creation over the last three months
	createdAt := now.Add(-time.Duration(s.rnd.Int64N(int64(90 * 24 * time.Hour))))
	updatedAt := createdAt.Add(time.Duration(s.rnd.Int64N(int64(now.Sub(createdAt)) + 1)))

	return models.Task{
		UserID:      userID,
		Title:       fmt.Sprintf("%s #%d", strings.TrimSuffix(s.sentence(3), "."), n),
		Description: s.sentence(12),
		Status:      status,
		IsPublished: s.rnd.IntN(2) == 1,
		Subtasks:    []models.Subtask{},
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

func (s *Seeder) sentence(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = seedWords[s.rnd.IntN(len(seedWords))]
	}
	sentence := strings.Join(parts, " ")
	return strings.ToUpper(sentence[:1]) + sentence[1:] + "."
}
