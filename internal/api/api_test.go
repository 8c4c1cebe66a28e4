package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsProtected(t *testing.T) {
	tests := []struct {
		route Route
		want  bool
	}{
		{Login, false},
		{ListWishes, false},
		{AddWish, true},
		{DeleteWish, true},
		{Route{Method: http.MethodGet, Path: "/api/unknown"}, true},
		{Route{Method: http.MethodGet, Path: Login.Path}, true},
	}

	for _, tt := range tests {
		t.Run(tt.route.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, IsProtected(tt.route))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		body    string
		wantErr bool
		want    string
	}{
		{name: "valid", body: `{"wish":"bicicleta"}`, want: "bicicleta"},
		{name: "empty body", body: ``, wantErr: true},
		{name: "truncated", body: `{"wish":"bici`, wantErr: true},
		{name: "wrong type", body: `{"wish":42}`, wantErr: true},
		{name: "not an object", body: `"bici"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst struct {
				Wish string `json:"wish"`
			}
			err := DecodeJSON(c, &dst)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedBody)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, dst.Wish)
		})
	}
}

func TestDecodeJSON_BodyReadOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"wish":"bici","id":7}`))

	var first struct {
		Wish string `json:"wish"`
	}
	require.NoError(t, DecodeJSON(c, &first))
	assert.Equal(t, "bici", first.Wish)

	// The body is cached on the context, so a second bind sees the same payload.
	var second struct {
		ID int `json:"id"`
	}
	require.NoError(t, DecodeJSON(c, &second))
	assert.Equal(t, 7, second.ID)
}
