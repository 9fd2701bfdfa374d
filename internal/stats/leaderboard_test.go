package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/giftstream/internal/models"
	"github.com/iudanet/giftstream/internal/store"
)

// testState собирает состояние с двумя дарителями и журналом событий
// поверх seed-каталога подарков.
func testState() *store.State {
	s := store.NewSeededState()
	s.Givers = []models.Giver{
		{ID: "giver-a", Nickname: "Alice", Phone: "0900000001"},
		{ID: "giver-b", Nickname: "Bob", Phone: "0900000002"},
	}
	return s
}

func event(id, giverID string, teamID, giftID, ts int64) models.GiftEvent {
	return models.GiftEvent{ID: id, GiverID: giverID, TeamID: teamID, GiftID: giftID, Timestamp: ts}
}

func giftPrice(t *testing.T, s *store.State, giftID int64) int64 {
	t.Helper()
	gift, ok := s.GiftByID(giftID)
	require.True(t, ok)
	return gift.Price
}

func TestLeaderboard_SortedByTotalDesc(t *testing.T) {
	s := testState()
	s.Events = []models.GiftEvent{
		event("e1", "giver-a", 1, 1, 1),
		event("e2", "giver-b", 1, 4, 2),
		event("e3", "giver-b", 2, 4, 3),
	}

	entries := Leaderboard(s)
	require.Len(t, entries, 2)

	p1 := giftPrice(t, s, 1)
	p4 := giftPrice(t, s, 4)

	assert.Equal(t, "giver-b", entries[0].GiverID)
	assert.Equal(t, "Bob", entries[0].Nickname)
	assert.Equal(t, 2*p4, entries[0].Total)

	assert.Equal(t, "giver-a", entries[1].GiverID)
	assert.Equal(t, p1, entries[1].Total)
}

func TestLeaderboard_TieBreakByNickname(t *testing.T) {
	s := testState()
	// одинаковые суммы — порядок по псевдониму
	s.Events = []models.GiftEvent{
		event("e1", "giver-b", 1, 1, 1),
		event("e2", "giver-a", 1, 1, 2),
	}

	entries := Leaderboard(s)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alice", entries[0].Nickname)
	assert.Equal(t, "Bob", entries[1].Nickname)
}

func TestLeaderboard_SkipsUnresolvableEvents(t *testing.T) {
	s := testState()
	s.Events = []models.GiftEvent{
		event("e1", "giver-a", 1, 1, 1),
		event("e2", "giver-a", 1, 9999, 2),   // неизвестный подарок
		event("e3", "giver-ghost", 1, 1, 3), // неизвестный даритель
	}

	entries := Leaderboard(s)
	require.Len(t, entries, 1)
	assert.Equal(t, giftPrice(t, s, 1), entries[0].Total)
}

func TestLeaderboard_Empty(t *testing.T) {
	assert.Empty(t, Leaderboard(testState()))
}

func TestGiverTotals(t *testing.T) {
	s := testState()
	s.Events = []models.GiftEvent{
		event("e1", "giver-a", 1, 1, 1),
		event("e2", "giver-a", 2, 4, 2),
		event("e3", "giver-b", 1, 1, 3),
	}

	totals := GiverTotals(s)
	assert.Equal(t, giftPrice(t, s, 1)+giftPrice(t, s, 4), totals["giver-a"])
	assert.Equal(t, giftPrice(t, s, 1), totals["giver-b"])
}

func TestTeamStats(t *testing.T) {
	s := testState()
	s.Events = []models.GiftEvent{
		event("e1", "giver-a", 1, 1, 1),
		event("e2", "giver-b", 1, 4, 2),
		event("e3", "giver-b", 2, 4, 3),
		event("e4", "giver-b", 2, 9999, 4), // неизвестный подарок не считается
	}

	stats := TeamStats(s)
	require.Len(t, stats, 2)

	assert.Equal(t, 2, stats[1].GiftCount)
	assert.Equal(t, giftPrice(t, s, 1)+giftPrice(t, s, 4), stats[1].TotalValue)

	assert.Equal(t, 1, stats[2].GiftCount)
	assert.Equal(t, giftPrice(t, s, 4), stats[2].TotalValue)
}

func TestResolveEvent(t *testing.T) {
	s := testState()
	ev := event("e1", "giver-a", 1, 4, 1)

	resolved := ResolveEvent(s, ev)

	gift, _ := s.GiftByID(4)
	team, _ := s.TeamByID(1)

	assert.Equal(t, "Alice", resolved.GiverNickname)
	assert.Equal(t, gift.Name, resolved.GiftName)
	assert.Equal(t, gift.Image, resolved.GiftImage)
	assert.Equal(t, gift.Price, resolved.GiftPrice)
	assert.Equal(t, gift.Animation, resolved.Animation)
	assert.Equal(t, team.Name, resolved.TeamName)
}

func TestResolveEvent_Placeholders(t *testing.T) {
	s := testState()
	ev := event("e1", "giver-ghost", 999, 9999, 1)

	resolved := ResolveEvent(s, ev)

	assert.Equal(t, PlaceholderNickname, resolved.GiverNickname)
	assert.Equal(t, PlaceholderGiftName, resolved.GiftName)
	assert.Equal(t, PlaceholderTeamName, resolved.TeamName)
	assert.Equal(t, models.AnimationNone, resolved.Animation)
	assert.Zero(t, resolved.GiftPrice)
	assert.Empty(t, resolved.GiftImage)
}

func TestResolveFeed_NewestFirst(t *testing.T) {
	s := testState()
	s.Events = []models.GiftEvent{
		event("e1", "giver-a", 1, 1, 100),
		event("e2", "giver-b", 1, 1, 300),
		event("e3", "giver-a", 1, 1, 200),
	}

	feed := ResolveFeed(s, 0)
	require.Len(t, feed, 3)
	assert.Equal(t, "e2", feed[0].Event.ID)
	assert.Equal(t, "e3", feed[1].Event.ID)
	assert.Equal(t, "e1", feed[2].Event.ID)

	// исходный журнал не переупорядочен
	assert.Equal(t, "e1", s.Events[0].ID)
}

func TestResolveFeed_Limit(t *testing.T) {
	s := testState()
	s.Events = []models.GiftEvent{
		event("e1", "giver-a", 1, 1, 100),
		event("e2", "giver-b", 1, 1, 300),
		event("e3", "giver-a", 1, 1, 200),
	}

	feed := ResolveFeed(s, 2)
	require.Len(t, feed, 2)
	assert.Equal(t, "e2", feed[0].Event.ID)
	assert.Equal(t, "e3", feed[1].Event.ID)
}
