package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-registry-api/internal/config"
	"user-registry-api/internal/models"
	"user-registry-api/internal/repositories/memory"
	"user-registry-api/internal/services"
	"user-registry-api/pkg/lambda"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 890000000, time.Local)

func newTestHandler() (*UserHandler, *memory.UserRepository) {
	repo := memory.NewUserRepository()
	svc := services.NewUserService(repo, services.WithClock(func() time.Time { return fixedNow }))
	return NewUserHandler(svc), repo
}

// brokenService fails every call with err
type brokenService struct {
	err error
}

func (s *brokenService) CreateUser(context.Context, *services.CreateUserRequest) (*models.User, error) {
	return nil, s.err
}

func (s *brokenService) GetUser(context.Context, string) (*models.User, error) {
	return nil, s.err
}

func (s *brokenService) SearchUsersByName(context.Context, string) ([]*models.User, error) {
	return nil, s.err
}

func decode(t *testing.T, body []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, v))
}

func TestHandleCreate(t *testing.T) {
	h, repo := newTestHandler()
	ctx := context.Background()

	resp, err := h.HandleCreate(ctx, &lambda.Request{Body: []byte(`{"name":"alice","date":"ignored"}`)})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	var created CreateUserResponse
	decode(t, resp.Body, &created)
	assert.Equal(t, "User saved successfully!", created.Message)
	assert.Equal(t, "alice", created.SavedName)
	assert.Equal(t, "2026-03-04T05:06:07.890000", created.CreateDate)
	assert.NotEmpty(t, created.UserID)

	t.Run("created user is found by id", func(t *testing.T) {
		resp, err := h.HandleGet(ctx, &lambda.Request{PathParams: map[string]string{"userId": created.UserID}})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var user UserResponse
		decode(t, resp.Body, &user)
		assert.Equal(t, UserResponse{UserID: created.UserID, Name: "alice", Date: created.CreateDate}, user)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		before := repo.Len()

		resp, err := h.HandleCreate(ctx, &lambda.Request{Body: []byte(`{"name":"alice"}`)})
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Name already exists. Please choose another name."}`, string(resp.Body))
		assert.Equal(t, before, repo.Len())
	})
}

func TestHandleCreate_BadInput(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantPrefix string
	}{
		{"missing name", `{}`, http.StatusBadRequest, "Missing required field: 'name'"},
		{"blank name", `{"name":"   "}`, http.StatusBadRequest, "Missing required field: 'name'"},
		{"malformed json", `{"name":`, http.StatusInternalServerError, "Failed to create user: "},
		{"empty body", ``, http.StatusInternalServerError, "Failed to create user: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo := newTestHandler()

			resp, err := h.HandleCreate(context.Background(), &lambda.Request{Body: []byte(tt.body)})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body ErrorResponse
			decode(t, resp.Body, &body)
			assert.True(t, strings.HasPrefix(body.Error, tt.wantPrefix), body.Error)
			assert.Equal(t, 0, repo.Len())
		})
	}
}

func TestHandleCreate_ConcurrentSameName(t *testing.T) {
	h, repo := newTestHandler()
	const workers = 16

	var wg sync.WaitGroup
	statuses := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := h.HandleCreate(context.Background(), &lambda.Request{Body: []byte(`{"name":"carol"}`)})
			if err == nil {
				statuses[i] = resp.StatusCode
			}
		}(i)
	}
	wg.Wait()

	counts := map[int]int{}
	for _, s := range statuses {
		counts[s]++
	}
	assert.Equal(t, 1, counts[http.StatusOK])
	assert.Equal(t, workers-1, counts[http.StatusConflict])

	users, err := repo.FindByName(context.Background(), "carol")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestHandleGet(t *testing.T) {
	h, _ := newTestHandler()
	ctx := context.Background()

	tests := []struct {
		name       string
		req        *lambda.Request
		wantStatus int
		wantBody   string
	}{
		{"no path params", &lambda.Request{}, http.StatusBadRequest, `{"error":"Missing userId"}`},
		{"empty id", &lambda.Request{PathParams: map[string]string{"userId": ""}}, http.StatusBadRequest, `{"error":"Missing userId"}`},
		{"unknown id", &lambda.Request{PathParams: map[string]string{"userId": "nope"}}, http.StatusNotFound, `{"error":"User not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.HandleGet(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.JSONEq(t, tt.wantBody, string(resp.Body))
		})
	}

	t.Run("marker key is not a user", func(t *testing.T) {
		_, err := h.HandleCreate(ctx, &lambda.Request{Body: []byte(`{"name":"dave"}`)})
		require.NoError(t, err)

		resp, err := h.HandleGet(ctx, &lambda.Request{PathParams: map[string]string{"userId": models.NameMarkerKey("dave")}})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("repeated lookups agree", func(t *testing.T) {
		resp, err := h.HandleCreate(ctx, &lambda.Request{Body: []byte(`{"name":"erin"}`)})
		require.NoError(t, err)
		var created CreateUserResponse
		decode(t, resp.Body, &created)

		req := &lambda.Request{PathParams: map[string]string{"userId": created.UserID}}
		first, err := h.HandleGet(ctx, req)
		require.NoError(t, err)
		second, err := h.HandleGet(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestHandleSearch(t *testing.T) {
	h, _ := newTestHandler()
	ctx := context.Background()

	for _, name := range []string{"frank", "grace"} {
		_, err := h.HandleCreate(ctx, &lambda.Request{Body: []byte(fmt.Sprintf(`{"name":%q}`, name))})
		require.NoError(t, err)
	}

	t.Run("match", func(t *testing.T) {
		resp, err := h.HandleSearch(ctx, &lambda.Request{QueryParams: map[string]string{"name": "frank"}})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var users []UserResponse
		decode(t, resp.Body, &users)
		require.Len(t, users, 1)
		assert.Equal(t, "frank", users[0].Name)
	})

	t.Run("no match is empty list", func(t *testing.T) {
		resp, err := h.HandleSearch(ctx, &lambda.Request{QueryParams: map[string]string{"name": "nobody"}})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "[]", string(resp.Body))
	})

	for _, params := range []map[string]string{nil, {"name": ""}, {"name": "  "}} {
		resp, err := h.HandleSearch(ctx, &lambda.Request{QueryParams: params})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Missing required query parameter: 'name'"}`, string(resp.Body))
	}
}

func TestHandlers_StoreFailure(t *testing.T) {
	h := NewUserHandler(&brokenService{err: errors.New("table unavailable")})
	ctx := context.Background()

	resp, err := h.HandleCreate(ctx, &lambda.Request{Body: []byte(`{"name":"alice"}`)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to create user: table unavailable"}`, string(resp.Body))

	resp, err = h.HandleGet(ctx, &lambda.Request{PathParams: map[string]string{"userId": "u1"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"table unavailable"}`, string(resp.Body))

	resp, err = h.HandleSearch(ctx, &lambda.Request{QueryParams: map[string]string{"name": "alice"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"table unavailable"}`, string(resp.Body))
}

func newTestRouter(svc services.UserService) *gin.Engine {
	router := gin.New()
	SetupMiddleware(router, config.RateLimitConfig{})
	SetupRoutes(router, &RouterConfig{UserService: svc, Backend: config.BackendMemory})
	return router
}

func TestRoutes(t *testing.T) {
	repo := memory.NewUserRepository()
	router := newTestRouter(services.NewUserService(repo))

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := serve(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(http.MethodPost, "/users", `{"name":"heidi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var created CreateUserResponse
	decode(t, w.Body.Bytes(), &created)

	w = serve(http.MethodPost, "/users", `{"name":"heidi"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(http.MethodPost, "/users", `{"date":"2020-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(http.MethodGet, "/users/"+created.UserID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var user UserResponse
	decode(t, w.Body.Bytes(), &user)
	assert.Equal(t, "heidi", user.Name)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(http.MethodGet, "/users/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(http.MethodGet, "/users?name=heidi", "")
	require.Equal(t, http.StatusOK, w.Code)
	var users []UserResponse
	decode(t, w.Body.Bytes(), &users)
	assert.Len(t, users, 1)

	w = serve(http.MethodGet, "/users?name=", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_StoreFailure(t *testing.T) {
	router := newTestRouter(&brokenService{err: errors.New("scan failed")})

	req := httptest.NewRequest(http.MethodGet, "/users?name=x", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"scan failed"}`, w.Body.String())
}
