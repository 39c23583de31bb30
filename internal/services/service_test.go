package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/daniosoriov/todo-manager/internal/config"
	"github.com/daniosoriov/todo-manager/internal/models"
	"github.com/daniosoriov/todo-manager/internal/repository"
)

// --- in-memory fakes ---

type fakeUsers struct {
	mu   sync.Mutex
	seq  int64
	rows map[int64]models.User

	// blindFindByEmail makes FindByEmail miss, simulating two registrations
	// racing past the service-level pre-check.
	blindFindByEmail bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: make(map[int64]models.User)}
}

func (f *fakeUsers) FindByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.rows[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blindFindByEmail {
		return nil, nil
	}
	for _, user := range f.rows {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Insert(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.seq++
	user.ID = f.seq
	user.CreatedAt = time.Now()
	f.rows[user.ID] = *user
	return nil
}

func (f *fakeUsers) delete(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
}

type fakeTokens struct {
	mu   sync.Mutex
	rows map[int64]models.Token
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{rows: make(map[int64]models.Token)}
}

func (f *fakeTokens) Upsert(ctx context.Context, token *models.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[token.UserID] = *token
	return nil
}

func (f *fakeTokens) Find(ctx context.Context, userID int64, refreshToken string) (*models.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.rows[userID]
	if !ok || token.Token != refreshToken {
		return nil, nil
	}
	return &token, nil
}

type fakeTasks struct {
	mu   sync.Mutex
	seq  int64
	rows map[int64]models.Task

	cleared []int64
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{rows: make(map[int64]models.Task)}
}

func (f *fakeTasks) FindAllOfUser(ctx context.Context, userID int64) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tasks []models.Task
	for _, task := range f.rows {
		if task.UserID == userID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (f *fakeTasks) FindUserTaskByID(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.rows[taskID]
	if !ok || task.UserID != userID {
		return nil, nil
	}
	return &task, nil
}

func (f *fakeTasks) Insert(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	task.ID = f.seq
	f.rows[task.ID] = *task
	return nil
}

func (f *fakeTasks) Update(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.rows[task.ID]
	if !ok || current.UserID != task.UserID {
		return nil
	}
	if task.Title != "" {
		current.Title = task.Title
	}
	if task.Status != "" {
		current.Status = task.Status
	}
	if !task.DueDate.IsZero() {
		current.DueDate = task.DueDate
	}
	if task.Description != nil {
		current.Description = task.Description
	}
	current.UpdatedAt = task.UpdatedAt
	f.rows[task.ID] = current
	return nil
}

func (f *fakeTasks) ClearDescription(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.rows[task.ID]
	if ok && current.UserID == task.UserID {
		current.Description = nil
		f.rows[task.ID] = current
	}
	f.cleared = append(f.cleared, task.ID)
	return nil
}

func (f *fakeTasks) Delete(ctx context.Context, userID, taskID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.rows[taskID]
	if ok && task.UserID == userID {
		delete(f.rows, taskID)
	}
	return nil
}

// --- harness ---

type testEnv struct {
	service *Service
	users   *fakeUsers
	tokens  *fakeTokens
	tasks   *fakeTasks
}

func newTestService(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		JwtSecret:        "access-secret",
		JwtRefreshSecret: "refresh-secret",
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  2 * time.Hour,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := newFakeUsers()
	tokens := newFakeTokens()
	tasks := newFakeTasks()

	return &testEnv{
		service: NewService(logger, cfg, users, tokens, tasks),
		users:   users,
		tokens:  tokens,
		tasks:   tasks,
	}
}
