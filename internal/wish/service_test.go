package wish

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elskow/naviwish/internal/config"
)

func newTestService(t *testing.T) (*Service, *mockRepository) {
	t.Helper()
	repo := newMockRepository()
	return NewService(&config.WishConfig{MaxLength: 300}, zap.NewNop(), repo), repo
}

func TestService_Add(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		text    string
		want    string
		wantErr error
	}{
		{name: "plain", text: "bicicleta", want: "bicicleta"},
		{name: "trimmed", text: "  patines  ", want: "patines"},
		{name: "markup stripped", text: "<i>libro</i>", want: "libro"},
		{name: "truncated", text: strings.Repeat("x", 400), want: strings.Repeat("x", 300)},
		{name: "empty", text: "", wantErr: ErrEmptyWish},
		{name: "whitespace", text: "   ", wantErr: ErrEmptyWish},
		{name: "markup only", text: "<br/>", wantErr: ErrEmptyWish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := svc.Add(ctx, "NESTOR", tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, w.Text)
			assert.Equal(t, "NESTOR", w.Name)
			assert.NotZero(t, w.ID)
		})
	}
}

func TestService_OwnerScopedDelete(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	w, err := svc.Add(ctx, "NESTOR", "bicicleta")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, w.ID, "KEYKA"))
	assert.True(t, repo.contains(w.ID), "another owner must not delete the wish")

	require.NoError(t, svc.Delete(ctx, w.ID, "NESTOR"))
	assert.False(t, repo.contains(w.ID))

	require.NoError(t, svc.Delete(ctx, w.ID, "NESTOR"), "repeat delete is a no-op")
	require.NoError(t, svc.Delete(ctx, 9999, "NESTOR"))
}

func TestService_StoreFailure(t *testing.T) {
	svc, repo := newTestService(t)
	repo.err = errStoreDown
	ctx := context.Background()

	_, err := svc.Add(ctx, "NESTOR", "bicicleta")
	assert.ErrorIs(t, err, errStoreDown)
	assert.ErrorIs(t, svc.Delete(ctx, 1, "NESTOR"), errStoreDown)
	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, errStoreDown)
}
