package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/taskbooking/taskbooking-api/internal/api/shared"
	"github.com/taskbooking/taskbooking-api/internal/domain"
	"github.com/taskbooking/taskbooking-api/internal/mocks"
	"github.com/taskbooking/taskbooking-api/internal/service"
)

// handlerFixture wires real services over mock stores, the way the
// router does in production.
type handlerFixture struct {
	users     *mocks.MockUserStore
	tasks     *mocks.MockTaskStore
	messages  *mocks.MockMessageStore
	publisher *mocks.CapturePublisher

	taskService   *service.TaskServiceImpl
	chatService   *service.ChatServiceImpl
	expertService *service.ExpertServiceImpl

	poster *domain.User
	expert *domain.User
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	messages := mocks.NewMockMessageStore()
	publisher := mocks.NewCapturePublisher()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	poster, err := domain.NewUser("Pat Poster", "pat@example.com", "password123", domain.RolePoster)
	require.NoError(t, err)
	expert, err := domain.NewUser("Eve Expert", "eve@example.com", "password123", domain.RoleExpert)
	require.NoError(t, err)
	expert.Skills = []string{"plumbing"}
	expert.Available = true

	require.NoError(t, users.Create(context.Background(), poster))
	require.NoError(t, users.Create(context.Background(), expert))

	return &handlerFixture{
		users:         users,
		tasks:         tasks,
		messages:      messages,
		publisher:     publisher,
		taskService:   service.NewTaskService(tasks, users, publisher, log),
		chatService:   service.NewChatService(messages, tasks, publisher, log),
		expertService: service.NewExpertService(users, tasks, publisher, log),
		poster:        poster,
		expert:        expert,
	}
}

// asUser injects the authenticated user ID the way the auth middleware
// does.
func asUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// doJSON performs a request with a JSON body against the router.
func doJSON(t *testing.T, router chi.Router, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// seedTask creates a pending task through the service layer.
func (f *handlerFixture) seedTask(t *testing.T) *domain.Task {
	t.Helper()
	task, err := f.taskService.Create(context.Background(), f.poster.ID, service.CreateTaskInput{
		Title:          "Fix the kitchen sink",
		Description:    "Leaking trap under the sink",
		Category:       []string{"plumbing"},
		Budget:         500,
		EstimatedHours: 20,
		Timeline:       time.Now().Add(7 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return task
}

// seedAcceptedTask runs a task to accepted so chat is open.
func (f *handlerFixture) seedAcceptedTask(t *testing.T) *domain.Task {
	t.Helper()
	ctx := context.Background()
	task := f.seedTask(t)
	_, err := f.taskService.Assign(ctx, f.poster.ID, task.ID, f.expert.ID)
	require.NoError(t, err)
	accepted, err := f.taskService.UpdateStatus(ctx, f.expert.ID, task.ID, domain.TaskStatusAccepted)
	require.NoError(t, err)
	return accepted
}
