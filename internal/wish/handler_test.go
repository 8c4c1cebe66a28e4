package wish

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elskow/naviwish/internal/auth"
)

// asUser stands in for the session middleware.
func asUser(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if name != "" {
			c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), auth.UserContextKey, name))
		}
		c.Next()
	}
}

func newTestRouter(t *testing.T, user string) (*gin.Engine, *mockRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, repo := newTestService(t)
	h := NewHandler(svc, zap.NewNop())

	router := gin.New()
	router.POST("/api/add", asUser(user), h.Add)
	router.POST("/api/delete", asUser(user), h.Delete)
	router.GET("/api/wishes", h.List)
	return router, repo
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Add(t *testing.T) {
	router, repo := newTestRouter(t, "NESTOR")

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "valid", body: `{"wish":"bicicleta"}`, wantCode: http.StatusOK},
		{name: "empty", body: `{"wish":"  "}`, wantCode: http.StatusBadRequest},
		{name: "missing", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "malformed", body: `{"wish":`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(router, http.MethodPost, "/api/add", tt.body)
			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusOK {
				assert.Empty(t, rr.Body.String())
			}
		})
	}

	require.Len(t, repo.wishes, 1)
	assert.Equal(t, "NESTOR", repo.wishes[0].Name)
}

func TestHandler_WithoutIdentity(t *testing.T) {
	router, repo := newTestRouter(t, "")

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodPost, "/api/add", `{"wish":"x"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodPost, "/api/delete", `{"id":1}`).Code)
	assert.Empty(t, repo.wishes)
}

func TestHandler_Delete(t *testing.T) {
	router, repo := newTestRouter(t, "KEYKA")
	require.NoError(t, repo.AddWish(context.Background(), &Wish{Name: "NESTOR", Text: "bicicleta"}))

	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/api/delete", `{"id":1}`).Code)
	assert.True(t, repo.contains(1))

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/delete", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/delete", `{"id":"one"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/delete", `not json`).Code)
}

func TestHandler_List(t *testing.T) {
	router, repo := newTestRouter(t, "")
	ctx := context.Background()

	rr := do(router, http.MethodGet, "/api/wishes", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	require.NoError(t, repo.AddWish(ctx, &Wish{Name: "NESTOR", Text: "bicicleta"}))
	require.NoError(t, repo.AddWish(ctx, &Wish{Name: "KEYKA", Text: "perfume"}))
	require.NoError(t, repo.AddWish(ctx, &Wish{Name: "NESTOR", Text: "casco"}))

	rr = do(router, http.MethodGet, "/api/wishes", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var got []Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, []string{"KEYKA", "NESTOR", "NESTOR"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.Equal(t, []string{"perfume", "casco", "bicicleta"}, []string{got[0].Wish, got[1].Wish, got[2].Wish})
	assert.NotEmpty(t, got[0].CreatedAt)
	assert.NotZero(t, got[0].ID)
}

func TestHandler_StoreFailure(t *testing.T) {
	router, repo := newTestRouter(t, "NESTOR")
	repo.err = errStoreDown

	assert.Equal(t, http.StatusInternalServerError, do(router, http.MethodPost, "/api/add", `{"wish":"x"}`).Code)
	assert.Equal(t, http.StatusInternalServerError, do(router, http.MethodPost, "/api/delete", `{"id":1}`).Code)
	assert.Equal(t, http.StatusInternalServerError, do(router, http.MethodGet, "/api/wishes", "").Code)
}
