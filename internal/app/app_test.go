package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "todoassign/docs"
	"todoassign/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(driver string) config.Config {
	var cfg config.Config
	cfg.App.Env = "test"
	cfg.App.Version = "v0.0.1"
	cfg.HTTP.AllowedOrigins = []string{"*"}
	cfg.Storage.Driver = driver
	cfg.Todo.TransitionAttempts = 3
	return cfg
}

func newTestApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func call(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestInfoRoutes(t *testing.T) {
	h := newTestApp(t, testConfig(config.DriverMemory)).Router()

	w := call(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"env":"test"}`, w.Body.String())

	w = call(t, h, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"version":"v0.0.1"}`, w.Body.String())

	w = call(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"memory"`)

	w = call(t, h, http.MethodGet, "/swagger-doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/todo/assignee"`)
}

func flow(t *testing.T, h http.Handler) {
	t.Helper()
	w := call(t, h, http.MethodPost, "/api/v1/users", `{"name":"Ada"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user struct {
		User struct{ ID string } `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.True(t, strings.HasPrefix(user.User.ID, "user-"))

	w = call(t, h, http.MethodPost, "/api/v1/todos", `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var todo struct {
		Todo struct{ ID string } `json:"todo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &todo))
	assert.True(t, strings.HasPrefix(todo.Todo.ID, "todo-"))

	body := `{"todoId":"` + todo.Todo.ID + `","userId":"` + user.User.ID + `"}`
	w = call(t, h, http.MethodPut, "/api/v1/todo/assignee", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"tag":"TodoAssigned"`)

	w = call(t, h, http.MethodPut, "/api/v1/todo/assignee", body)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = call(t, h, http.MethodPut, "/api/v1/todo/done", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"tag":"TodoDone"`)

	w = call(t, h, http.MethodGet, "/api/v1/todos/"+todo.Todo.ID, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"assignedToName":"Ada"`)
	assert.Contains(t, w.Body.String(), `"isDone":true`)

	w = call(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "todoassign_command_results_total")
}

func TestAPIFlow(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		flow(t, newTestApp(t, testConfig(config.DriverMemory)).Router())
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := testConfig(config.DriverSQLite)
		cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "app.db")
		flow(t, newTestApp(t, cfg).Router())
	})

	t.Run("memory with redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig(config.DriverMemory)
		cfg.Redis.Addr = mr.Addr()
		cfg.Redis.DefaultTTL = config.Duration(time.Minute)
		cfg.Redis.LockTTL = config.Duration(5 * time.Second)
		flow(t, newTestApp(t, cfg).Router())
	})
}

func TestCORSPreflight(t *testing.T) {
	h := newTestApp(t, testConfig(config.DriverMemory)).Router()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/todos", nil)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), testConfig("mongo"), nil)
	assert.Error(t, err)
}
