package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/giftstream/internal/auth"
	"github.com/iudanet/giftstream/internal/identity"
	"github.com/iudanet/giftstream/internal/storage/memory"
	"github.com/iudanet/giftstream/internal/store"
)

// fakeIO скармливает командам заранее заданные ответы на промпты
// и копит весь вывод в буфер.
type fakeIO struct {
	inputs    []string
	passwords []string
	out       strings.Builder
}

func (f *fakeIO) Println(a ...any) {
	fmt.Fprintln(&f.out, a...)
}

func (f *fakeIO) Printf(format string, a ...any) {
	fmt.Fprintf(&f.out, format, a...)
}

func (f *fakeIO) ReadInput(prompt string) (string, error) {
	if len(f.inputs) == 0 {
		return "", io.EOF
	}
	next := f.inputs[0]
	f.inputs = f.inputs[1:]
	return next, nil
}

func (f *fakeIO) ReadPassword(prompt string) (string, error) {
	if len(f.passwords) == 0 {
		return "", io.EOF
	}
	next := f.passwords[0]
	f.passwords = f.passwords[1:]
	return next, nil
}

func newTestCli(t *testing.T, fio *fakeIO) (*Cli, *store.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := memory.New()
	st := store.New(context.Background(), mem, nil, store.Options{Logger: logger})
	id := identity.NewService(mem, st, logger)
	gate, err := auth.NewGate(mem, auth.Options{Logger: logger})
	require.NoError(t, err)

	return New(st, id, gate, fio), st
}

func TestCli_RegisterThenWhoami(t *testing.T) {
	fio := &fakeIO{inputs: []string{"nick", "Real Name", "0900000000", "IT"}}
	c, st := newTestCli(t, fio)
	ctx := context.Background()

	require.NoError(t, c.RunRegister(ctx))
	require.Len(t, st.Givers(), 1)
	assert.Contains(t, fio.out.String(), "Registered as nick")

	require.NoError(t, c.RunWhoami(ctx))
	assert.Contains(t, fio.out.String(), "Nickname:   nick")
	assert.Contains(t, fio.out.String(), "Department: IT")
}

func TestCli_Register_InvalidPhone(t *testing.T) {
	fio := &fakeIO{inputs: []string{"nick", "Real Name", "not-a-phone", "IT"}}
	c, st := newTestCli(t, fio)

	assert.Error(t, c.RunRegister(context.Background()))
	assert.Empty(t, st.Givers())
}

func TestCli_Whoami_NotRegistered(t *testing.T) {
	fio := &fakeIO{}
	c, _ := newTestCli(t, fio)

	require.NoError(t, c.RunWhoami(context.Background()))
	assert.Contains(t, fio.out.String(), "Not registered")
}

func TestCli_Send(t *testing.T) {
	fio := &fakeIO{inputs: []string{"nick", "Real Name", "0900000000", "IT"}}
	c, st := newTestCli(t, fio)
	ctx := context.Background()

	require.NoError(t, c.RunRegister(ctx))
	// команда на сцене по умолчанию — 1; -team не нужен
	require.NoError(t, c.RunSend(ctx, []string{"-gift", "4", "-message", "加油"}))

	events := st.GiftEvents()
	require.Len(t, events, 1)
	assert.Equal(t, int64(4), events[0].GiftID)
	assert.Equal(t, int64(1), events[0].TeamID)
	assert.Equal(t, "加油", events[0].Message)
}

func TestCli_Send_NotRegistered(t *testing.T) {
	fio := &fakeIO{}
	c, _ := newTestCli(t, fio)

	err := c.RunSend(context.Background(), []string{"-gift", "4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestCli_Send_HiddenGift(t *testing.T) {
	fio := &fakeIO{inputs: []string{"nick", "Real Name", "0900000000", "IT"}}
	c, st := newTestCli(t, fio)
	ctx := context.Background()

	require.NoError(t, c.RunRegister(ctx))

	gift, ok := st.GiftByID(4)
	require.True(t, ok)
	gift.IsVisible = false
	require.True(t, st.UpdateGift(ctx, gift))

	err := c.RunSend(ctx, []string{"-gift", "4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestCli_Send_EmptyStage(t *testing.T) {
	fio := &fakeIO{inputs: []string{"nick", "Real Name", "0900000000", "IT"}, passwords: []string{auth.DefaultPassword}}
	c, st := newTestCli(t, fio)
	ctx := context.Background()

	require.NoError(t, c.RunRegister(ctx))
	require.NoError(t, c.RunSetTeam(ctx, []string{"-none"}))

	err := c.RunSend(ctx, []string{"-gift", "4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no team is on stage")

	// с явным -team отправка проходит
	require.NoError(t, c.RunSend(ctx, []string{"-gift", "4", "-team", "2"}))
	require.Len(t, st.GiftEvents(), 1)
	assert.Equal(t, int64(2), st.GiftEvents()[0].TeamID)
}

func TestCli_Send_MessageTooLong(t *testing.T) {
	fio := &fakeIO{inputs: []string{"nick", "Real Name", "0900000000", "IT"}}
	c, st := newTestCli(t, fio)
	ctx := context.Background()

	require.NoError(t, c.RunRegister(ctx))

	err := c.RunSend(ctx, []string{"-gift", "4", "-message", strings.Repeat("a", 51)})
	assert.Error(t, err)
	assert.Empty(t, st.GiftEvents())
}

func TestCli_AddTeam_RequiresPassword(t *testing.T) {
	fio := &fakeIO{passwords: []string{"wrong-password"}}
	c, st := newTestCli(t, fio)

	err := c.RunAddTeam(context.Background(), []string{"-name", "Night Shift"})
	assert.ErrorIs(t, err, auth.ErrInvalidPassword)
	assert.Len(t, st.Teams(), 3, "team must not be added without a valid password")
}

func TestCli_AddTeam(t *testing.T) {
	fio := &fakeIO{passwords: []string{auth.DefaultPassword}}
	c, st := newTestCli(t, fio)

	require.NoError(t, c.RunAddTeam(context.Background(), []string{"-name", "Night Shift"}))

	teams := st.Teams()
	require.Len(t, teams, 4)
	assert.Equal(t, "Night Shift", teams[3].Name)
}

func TestCli_SetTeam(t *testing.T) {
	fio := &fakeIO{passwords: []string{auth.DefaultPassword, auth.DefaultPassword}}
	c, st := newTestCli(t, fio)
	ctx := context.Background()

	require.NoError(t, c.RunSetTeam(ctx, []string{"-team", "2"}))
	require.NotNil(t, st.CurrentTeamID())
	assert.Equal(t, int64(2), *st.CurrentTeamID())

	err := c.RunSetTeam(ctx, []string{"-team", "999"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown team")
}

func TestCli_AddGift(t *testing.T) {
	fio := &fakeIO{passwords: []string{auth.DefaultPassword}}
	c, st := newTestCli(t, fio)

	require.NoError(t, c.RunAddGift(context.Background(), []string{
		"-name", "彩帶", "-price", "300", "-animation", "confetti",
	}))

	gifts := st.Gifts()
	require.Len(t, gifts, 9)
	added := gifts[8]
	assert.Equal(t, "彩帶", added.Name)
	assert.Equal(t, int64(300), added.Price)
	assert.True(t, added.IsVisible)
}

func TestCli_ToggleGift(t *testing.T) {
	fio := &fakeIO{passwords: []string{auth.DefaultPassword, auth.DefaultPassword}}
	c, st := newTestCli(t, fio)
	ctx := context.Background()

	require.NoError(t, c.RunToggleGift(ctx, []string{"-gift", "4"}))
	gift, ok := st.GiftByID(4)
	require.True(t, ok)
	assert.False(t, gift.IsVisible)

	require.NoError(t, c.RunToggleGift(ctx, []string{"-gift", "4"}))
	gift, _ = st.GiftByID(4)
	assert.True(t, gift.IsVisible)
}

func TestCli_Passwd(t *testing.T) {
	fio := &fakeIO{passwords: []string{auth.DefaultPassword, "hunter22", "hunter22"}}
	c, _ := newTestCli(t, fio)

	require.NoError(t, c.RunPasswd(context.Background()))
	assert.Contains(t, fio.out.String(), "password changed")
}

func TestCli_Passwd_Mismatch(t *testing.T) {
	fio := &fakeIO{passwords: []string{auth.DefaultPassword, "hunter22", "hunter33"}}
	c, _ := newTestCli(t, fio)

	err := c.RunPasswd(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match")
}
