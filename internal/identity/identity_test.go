package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/giftstream/internal/storage/memory"
	"github.com/iudanet/giftstream/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*Service, *store.Store, *memory.Storage) {
	t.Helper()

	mem := memory.New()
	st := store.New(context.Background(), mem, nil, store.Options{Logger: discardLogger()})
	svc := NewService(mem, st, discardLogger())
	return svc, st, mem
}

func TestService_Bootstrap_NoIdentity(t *testing.T) {
	svc, _, _ := newTestService(t)

	giver, err := svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Nil(t, giver, "fresh context has no identity")
}

func TestService_Register(t *testing.T) {
	svc, st, mem := newTestService(t)
	ctx := context.Background()

	giver, err := svc.Register(ctx, store.GiverInput{
		Nickname:   "nick",
		Phone:      "0900000000",
		Department: "IT",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, giver.ID)

	// запись попала и в общую коллекцию, и в локальный identity-слот
	shared, ok := st.GiverByID(giver.ID)
	require.True(t, ok)
	assert.Equal(t, "nick", shared.Nickname)

	saved, err := mem.GetIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, giver, *saved)
}

func TestService_Register_InvalidInput(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input store.GiverInput
	}{
		{name: "empty nickname", input: store.GiverInput{Nickname: "", Phone: "0900000000"}},
		{name: "nickname too long", input: store.GiverInput{Nickname: "aaaaaaaaaaaaaaaaaaaaa", Phone: "0900000000"}},
		{name: "phone too short", input: store.GiverInput{Nickname: "nick", Phone: "123"}},
		{name: "phone with letters", input: store.GiverInput{Nickname: "nick", Phone: "09000000ab"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			assert.Error(t, err)
		})
	}

	assert.Empty(t, st.Givers(), "invalid input must not register anything")
}

func TestService_Register_SamePhoneKeepsCanonicalRecord(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, store.GiverInput{Nickname: "A", Phone: "0900000000"})
	require.NoError(t, err)

	// повторная регистрация того же номера возвращает каноническую запись
	second, err := svc.Register(ctx, store.GiverInput{Nickname: "B", Phone: "0900000000"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, st.Givers(), 1)
}

func TestService_Bootstrap_ReturnsSavedIdentity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, store.GiverInput{Nickname: "nick", Phone: "0900000000"})
	require.NoError(t, err)

	giver, err := svc.Bootstrap(ctx)
	require.NoError(t, err)
	require.NotNil(t, giver)
	assert.Equal(t, registered, *giver)
}

func TestService_Bootstrap_RecreatesAfterWipedCollection(t *testing.T) {
	mem := memory.New()
	ctx := context.Background()

	first := store.New(ctx, mem, nil, store.Options{Logger: discardLogger()})
	svc := NewService(mem, first, discardLogger())

	registered, err := svc.Register(ctx, store.GiverInput{Nickname: "nick", Phone: "0900000000"})
	require.NoError(t, err)

	// коллекцию дарителей очистили; identity-слот остался
	require.NoError(t, mem.SaveGivers(ctx, nil))

	second := store.New(ctx, mem, nil, store.Options{Logger: discardLogger()})
	recreatedSvc := NewService(mem, second, discardLogger())

	giver, err := recreatedSvc.Bootstrap(ctx)
	require.NoError(t, err)
	require.NotNil(t, giver)
	assert.Equal(t, "nick", giver.Nickname)
	assert.Equal(t, registered.Phone, giver.Phone)
	assert.NotEqual(t, registered.ID, giver.ID, "recreated record gets a fresh id")

	// локальная запись обновлена на канонический id
	saved, err := mem.GetIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, giver.ID, saved.ID)
}

func TestService_Reset(t *testing.T) {
	svc, st, mem := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, store.GiverInput{Nickname: "nick", Phone: "0900000000"})
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))

	giver, err := svc.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Nil(t, giver)

	// общая коллекция append-only, запись остается
	assert.Len(t, st.Givers(), 1)

	_, err = mem.GetIdentity(ctx)
	assert.Error(t, err)

	// повторный reset безопасен
	assert.NoError(t, svc.Reset(ctx))
}
