package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskbooking/taskbooking-api/internal/domain"
)

func newTaskRouter(f *handlerFixture, userID uuid.UUID) chi.Router {
	handler := NewTaskHandler(f.taskService)
	r := chi.NewRouter()
	r.Use(asUser(userID))
	r.Post("/api/tasks", handler.Create)
	r.Get("/api/tasks/mine", handler.ListMine)
	r.Get("/api/tasks/open", handler.ListOpen)
	r.Get("/api/tasks/{id}", handler.Get)
	r.Patch("/api/tasks/{id}/assign", handler.Assign)
	r.Patch("/api/tasks/{id}/status", handler.UpdateStatus)
	r.Post("/api/tasks/{id}/review", handler.Review)
	return r
}

func validCreateTaskRequest() CreateTaskRequest {
	return CreateTaskRequest{
		Title:          "Fix the kitchen sink",
		Description:    "Leaking trap under the sink",
		Category:       []string{"plumbing"},
		Budget:         500,
		EstimatedHours: 20,
		Timeline:       time.Now().Add(7 * 24 * time.Hour),
	}
}

func TestTaskCreate(t *testing.T) {
	f := newHandlerFixture(t)

	t.Run("poster creates task", func(t *testing.T) {
		router := newTaskRouter(f, f.poster.ID)
		rec := doJSON(t, router, http.MethodPost, "/api/tasks", validCreateTaskRequest())

		require.Equal(t, http.StatusCreated, rec.Code)
		task := decodeBody[domain.Task](t, rec)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Equal(t, f.poster.ID, task.PosterID)
	})

	t.Run("expert forbidden", func(t *testing.T) {
		router := newTaskRouter(f, f.expert.ID)
		rec := doJSON(t, router, http.MethodPost, "/api/tasks", validCreateTaskRequest())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("zero budget rejected", func(t *testing.T) {
		router := newTaskRouter(f, f.poster.ID)
		req := validCreateTaskRequest()
		req.Budget = 0
		rec := doJSON(t, router, http.MethodPost, "/api/tasks", req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskAssignEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	task := f.seedTask(t)
	router := newTaskRouter(f, f.poster.ID)

	t.Run("assign", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/api/tasks/"+task.ID.String()+"/assign",
			AssignTaskRequest{ExpertID: f.expert.ID})

		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody[domain.Task](t, rec)
		assert.Equal(t, domain.TaskStatusAssigned, got.Status)
		require.NotNil(t, got.ExpertID)
		assert.Equal(t, f.expert.ID, *got.ExpertID)
	})

	t.Run("re-assign conflicts", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/api/tasks/"+task.ID.String()+"/assign",
			AssignTaskRequest{ExpertID: f.expert.ID})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown task", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/api/tasks/"+uuid.NewString()+"/assign",
			AssignTaskRequest{ExpertID: f.expert.ID})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/api/tasks/not-a-uuid/assign",
			AssignTaskRequest{ExpertID: f.expert.ID})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskStatusEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	task := f.seedTask(t)

	posterRouter := newTaskRouter(f, f.poster.ID)
	expertRouter := newTaskRouter(f, f.expert.ID)

	rec := doJSON(t, posterRouter, http.MethodPatch, "/api/tasks/"+task.ID.String()+"/assign",
		AssignTaskRequest{ExpertID: f.expert.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("poster cannot accept", func(t *testing.T) {
		rec := doJSON(t, posterRouter, http.MethodPatch, "/api/tasks/"+task.ID.String()+"/status",
			UpdateTaskStatusRequest{Status: "accepted"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("expert accepts", func(t *testing.T) {
		rec := doJSON(t, expertRouter, http.MethodPatch, "/api/tasks/"+task.ID.String()+"/status",
			UpdateTaskStatusRequest{Status: "accepted"})
		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody[domain.Task](t, rec)
		assert.Equal(t, domain.TaskStatusAccepted, got.Status)
		assert.NotNil(t, got.AcceptedAt)
	})

	t.Run("skipping start conflicts", func(t *testing.T) {
		rec := doJSON(t, expertRouter, http.MethodPatch, "/api/tasks/"+task.ID.String()+"/status",
			UpdateTaskStatusRequest{Status: "completed"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		rec := doJSON(t, expertRouter, http.MethodPatch, "/api/tasks/"+task.ID.String()+"/status",
			UpdateTaskStatusRequest{Status: "paused"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskReviewEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	task := f.seedAcceptedTask(t)
	posterRouter := newTaskRouter(f, f.poster.ID)
	expertRouter := newTaskRouter(f, f.expert.ID)

	for _, status := range []string{"in-progress", "completed"} {
		rec := doJSON(t, expertRouter, http.MethodPatch, "/api/tasks/"+task.ID.String()+"/status",
			UpdateTaskStatusRequest{Status: status})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	t.Run("expert cannot review", func(t *testing.T) {
		rec := doJSON(t, expertRouter, http.MethodPost, "/api/tasks/"+task.ID.String()+"/review",
			ReviewRequest{Rating: 5})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rating bounds enforced", func(t *testing.T) {
		rec := doJSON(t, posterRouter, http.MethodPost, "/api/tasks/"+task.ID.String()+"/review",
			ReviewRequest{Rating: 6})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("poster reviews once", func(t *testing.T) {
		rec := doJSON(t, posterRouter, http.MethodPost, "/api/tasks/"+task.ID.String()+"/review",
			ReviewRequest{Rating: 5, Comment: "great work"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, posterRouter, http.MethodPost, "/api/tasks/"+task.ID.String()+"/review",
			ReviewRequest{Rating: 4})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestTaskListEndpoints(t *testing.T) {
	f := newHandlerFixture(t)
	task := f.seedTask(t)

	t.Run("mine for poster", func(t *testing.T) {
		router := newTaskRouter(f, f.poster.ID)
		rec := doJSON(t, router, http.MethodGet, "/api/tasks/mine", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		tasks := decodeBody[[]domain.Task](t, rec)
		require.Len(t, tasks, 1)
		assert.Equal(t, task.ID, tasks[0].ID)
	})

	t.Run("open for matching expert", func(t *testing.T) {
		router := newTaskRouter(f, f.expert.ID)
		rec := doJSON(t, router, http.MethodGet, "/api/tasks/open", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		tasks := decodeBody[[]domain.Task](t, rec)
		require.Len(t, tasks, 1)
	})

	t.Run("open forbidden for poster", func(t *testing.T) {
		router := newTaskRouter(f, f.poster.ID)
		rec := doJSON(t, router, http.MethodGet, "/api/tasks/open", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("get pending task visible to expert", func(t *testing.T) {
		router := newTaskRouter(f, f.expert.ID)
		rec := doJSON(t, router, http.MethodGet, "/api/tasks/"+task.ID.String(), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
