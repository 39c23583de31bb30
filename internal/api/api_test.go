package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/daniosoriov/todo-manager/internal/config"
	"github.com/daniosoriov/todo-manager/internal/models"
	"github.com/daniosoriov/todo-manager/internal/repository"
	"github.com/daniosoriov/todo-manager/internal/services"
)

// In-memory repositories so handler tests run the full pipeline without a
// database.

type memUsers struct {
	mu   sync.Mutex
	seq  int64
	rows map[int64]models.User
}

func (m *memUsers) FindByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.rows[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.rows {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Insert(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.seq++
	user.ID = m.seq
	user.CreatedAt = time.Now()
	m.rows[user.ID] = *user
	return nil
}

type memTokens struct {
	mu   sync.Mutex
	rows map[int64]models.Token
}

func (m *memTokens) Upsert(ctx context.Context, token *models.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[token.UserID] = *token
	return nil
}

func (m *memTokens) Find(ctx context.Context, userID int64, refreshToken string) (*models.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.rows[userID]
	if !ok || token.Token != refreshToken {
		return nil, nil
	}
	return &token, nil
}

type memTasks struct {
	mu   sync.Mutex
	seq  int64
	rows map[int64]models.Task
}

func (m *memTasks) FindAllOfUser(ctx context.Context, userID int64) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var tasks []models.Task
	for _, task := range m.rows {
		if task.UserID == userID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (m *memTasks) FindUserTaskByID(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.rows[taskID]
	if !ok || task.UserID != userID {
		return nil, nil
	}
	return &task, nil
}

func (m *memTasks) Insert(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task.ID = m.seq
	m.rows[task.ID] = *task
	return nil
}

func (m *memTasks) Update(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.rows[task.ID]
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
	m.rows[task.ID] = current
	return nil
}

func (m *memTasks) ClearDescription(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.rows[task.ID]
	if ok && current.UserID == task.UserID {
		current.Description = nil
		m.rows[task.ID] = current
	}
	return nil
}

func (m *memTasks) Delete(ctx context.Context, userID, taskID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.rows[taskID]
	if ok && task.UserID == userID {
		delete(m.rows, taskID)
	}
	return nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		Port:             "0",
		JwtSecret:        "access-secret",
		JwtRefreshSecret: "refresh-secret",
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  2 * time.Hour,
	}
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	cfg := newTestConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := services.NewService(
		logger,
		cfg,
		&memUsers{rows: make(map[int64]models.User)},
		&memTokens{rows: make(map[int64]models.Token)},
		&memTasks{rows: make(map[int64]models.Task)},
	)

	server := NewServer(cfg, logger, service)
	return server, server.Routes()
}

func doJSON(t *testing.T, routes http.Handler, method, target, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
	}
	return out
}
