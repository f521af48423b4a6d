package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"studytrack/internal/handlers"
	"studytrack/internal/models"
	"studytrack/internal/repository"
	"studytrack/internal/repository/db"
	"studytrack/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// newApp wires the real stack over a throwaway SQLite file.
func newApp(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.InitDB(context.Background(), db.Config{
		Driver: db.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "e2e.db"),
	})
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	svc := service.NewService(repository.NewRepository(conn), service.AuthConfig{
		SigningKey: "e2e-signing-key",
		BcryptCost: bcrypt.MinCost,
	})
	return handlers.NewHandler(svc, nil).InitRoutes()
}

type client struct {
	t     *testing.T
	app   http.Handler
	token string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.app.ServeHTTP(w, req)
	return w
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status=%d want %d body=%s", w.Code, want, w.Body.String())
	}
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// signIn registers username and returns a client carrying its token.
func signIn(t *testing.T, app http.Handler, username, password string) *client {
	t.Helper()
	anon := &client{t: t, app: app}
	creds := map[string]string{"username": username, "password": password}

	w := anon.do(http.MethodPost, "/register", creds)
	expectStatus(t, w, http.StatusCreated)

	w = anon.do(http.MethodPost, "/login", creds)
	expectStatus(t, w, http.StatusOK)
	var tok struct {
		Token string `json:"token"`
	}
	decodeInto(t, w, &tok)
	if tok.Token == "" {
		t.Fatal("empty token")
	}
	return &client{t: t, app: app, token: tok.Token}
}

func TestE2E_RegisterLoginAndDuplicates(t *testing.T) {
	app := newApp(t)
	anon := &client{t: t, app: app}
	creds := map[string]string{"username": "alice", "password": "pw1"}

	w := anon.do(http.MethodPost, "/register", creds)
	expectStatus(t, w, http.StatusCreated)
	var u map[string]any
	decodeInto(t, w, &u)
	if u["username"] != "alice" || u["id"] == nil || len(u) != 2 {
		t.Fatalf("unexpected register body: %v", u)
	}

	// second registration with the same name is rejected, password irrelevant
	w = anon.do(http.MethodPost, "/register", map[string]string{"username": "alice", "password": "other"})
	expectStatus(t, w, http.StatusConflict)

	// the first password still works
	w = anon.do(http.MethodPost, "/login", creds)
	expectStatus(t, w, http.StatusOK)

	// unknown user and wrong password are indistinguishable
	unknown := anon.do(http.MethodPost, "/login", map[string]string{"username": "ghost", "password": "pw1"})
	wrong := anon.do(http.MethodPost, "/login", map[string]string{"username": "alice", "password": "nope"})
	expectStatus(t, unknown, http.StatusBadRequest)
	if unknown.Code != wrong.Code || unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("login failures differ: %s vs %s", unknown.Body.String(), wrong.Body.String())
	}

	// empty and whitespace-only fields never reach storage
	for _, body := range []map[string]string{
		{"username": "", "password": "x"},
		{"username": "bob", "password": ""},
		{"username": "   ", "password": "x"},
	} {
		expectStatus(t, anon.do(http.MethodPost, "/register", body), http.StatusBadRequest)
	}
	expectStatus(t, anon.do(http.MethodPost, "/login", map[string]string{"username": "bob", "password": "x"}), http.StatusBadRequest)
}

func TestE2E_TaskLifecycle(t *testing.T) {
	app := newApp(t)
	alice := signIn(t, app, "alice", "pw")

	w := alice.do(http.MethodGet, "/tasks", nil)
	expectStatus(t, w, http.StatusOK)
	if w.Body.String() != "[]" {
		t.Fatalf("expected empty list, got %s", w.Body.String())
	}

	var created []models.Task
	for _, text := range []string{"first", "second", "third"} {
		w = alice.do(http.MethodPost, "/tasks", map[string]string{"text": text})
		expectStatus(t, w, http.StatusCreated)
		var task models.Task
		decodeInto(t, w, &task)
		if task.Text != text || task.Completed || task.ID <= 0 {
			t.Fatalf("unexpected task: %+v", task)
		}
		created = append(created, task)
	}

	w = alice.do(http.MethodGet, "/tasks", nil)
	expectStatus(t, w, http.StatusOK)
	var listed []models.Task
	decodeInto(t, w, &listed)
	if len(listed) != 3 {
		t.Fatalf("expected 3 tasks, got %+v", listed)
	}
	for i := range listed {
		if listed[i].ID != created[i].ID {
			t.Fatalf("list not ordered by id: %+v", listed)
		}
	}

	// completing one task leaves the others alone
	target := created[1]
	w = alice.do(http.MethodPut, fmt.Sprintf("/tasks/%d", target.ID), map[string]bool{"completed": true})
	expectStatus(t, w, http.StatusOK)
	var updated models.Task
	decodeInto(t, w, &updated)
	if !updated.Completed || updated.Text != target.Text || updated.ID != target.ID {
		t.Fatalf("unexpected updated task: %+v", updated)
	}

	decodeInto(t, alice.do(http.MethodGet, "/tasks", nil), &listed)
	for _, task := range listed {
		if task.Completed != (task.ID == target.ID) {
			t.Fatalf("completion leaked across tasks: %+v", listed)
		}
	}

	// delete, then every mutation on that id is 404
	path := fmt.Sprintf("/tasks/%d", created[0].ID)
	expectStatus(t, alice.do(http.MethodDelete, path, nil), http.StatusNoContent)
	expectStatus(t, alice.do(http.MethodDelete, path, nil), http.StatusNotFound)
	expectStatus(t, alice.do(http.MethodPut, path, map[string]bool{"completed": true}), http.StatusNotFound)

	decodeInto(t, alice.do(http.MethodGet, "/tasks", nil), &listed)
	if len(listed) != 2 {
		t.Fatalf("expected 2 tasks after delete, got %+v", listed)
	}

	expectStatus(t, alice.do(http.MethodPost, "/tasks", map[string]string{"text": "  "}), http.StatusBadRequest)
	expectStatus(t, alice.do(http.MethodPut, "/tasks/999999", map[string]bool{"completed": false}), http.StatusNotFound)
}

func TestE2E_TasksAreIsolatedPerUser(t *testing.T) {
	app := newApp(t)
	alice := signIn(t, app, "alice", "pw")
	bob := signIn(t, app, "bob", "pw")

	w := alice.do(http.MethodPost, "/tasks", map[string]string{"text": "alice's"})
	expectStatus(t, w, http.StatusCreated)
	var task models.Task
	decodeInto(t, w, &task)

	w = bob.do(http.MethodGet, "/tasks", nil)
	expectStatus(t, w, http.StatusOK)
	if w.Body.String() != "[]" {
		t.Fatalf("bob sees alice's tasks: %s", w.Body.String())
	}

	// bob cannot tell alice's task from a missing one
	path := fmt.Sprintf("/tasks/%d", task.ID)
	expectStatus(t, bob.do(http.MethodPut, path, map[string]bool{"completed": true}), http.StatusNotFound)
	expectStatus(t, bob.do(http.MethodDelete, path, nil), http.StatusNotFound)

	var listed []models.Task
	decodeInto(t, alice.do(http.MethodGet, "/tasks", nil), &listed)
	if len(listed) != 1 || listed[0].Completed {
		t.Fatalf("alice's task was touched: %+v", listed)
	}
}

func TestE2E_TokenChecks(t *testing.T) {
	app := newApp(t)
	alice := signIn(t, app, "alice", "pw")

	anon := &client{t: t, app: app}
	expectStatus(t, anon.do(http.MethodGet, "/tasks", nil), http.StatusUnauthorized)

	forged := &client{t: t, app: app, token: alice.token + "x"}
	expectStatus(t, forged.do(http.MethodGet, "/tasks", nil), http.StatusForbidden)

	expectStatus(t, anon.do(http.MethodGet, "/health", nil), http.StatusOK)
}
