// Package stats вычисляет агрегаты для display и admin view поверх
// снимка состояния: лидерборд дарителей, итоги по командам и разрешение
// ссылок событий с placeholder-значениями вместо падения.
package stats

import (
	"sort"

	"github.com/iudanet/giftstream/internal/models"
	"github.com/iudanet/giftstream/internal/store"
)

// Placeholder display values для ссылок, которые еще не разрешаются
// локально (например, из-за лага репликации).
const (
	PlaceholderNickname = "Anonymous"
	PlaceholderGiftName = "Unknown Gift"
	PlaceholderTeamName = "Unknown Team"
)

// LeaderboardEntry is one row of the giver leaderboard.
type LeaderboardEntry struct {
	GiverID  string
	Nickname string
	Total    int64
}

// TeamStat aggregates gifts sent to one team.
type TeamStat struct {
	TotalValue int64
	GiftCount  int
}

// ResolvedEvent is a gift event joined with its giver, gift and team.
// Неразрешимые ссылки замещаются placeholder-значениями — событие
// всегда можно отобразить.
type ResolvedEvent struct {
	Event         models.GiftEvent
	GiverNickname string
	GiftName      string
	GiftImage     string
	TeamName      string
	Animation     models.AnimationType
	GiftPrice     int64
}

// Leaderboard возвращает дарителей, отсортированных по суммарной
// стоимости подаренного (по убыванию; при равенстве — по псевдониму,
// чтобы порядок был детерминированным). События с неразрешимым
// подарком или дарителем пропускаются.
func Leaderboard(s *store.State) []LeaderboardEntry {
	totals := make(map[string]int64)
	for _, ev := range s.Events {
		gift, ok := s.GiftByID(ev.GiftID)
		if !ok {
			continue
		}
		if _, ok := s.GiverByID(ev.GiverID); !ok {
			continue
		}
		totals[ev.GiverID] += gift.Price
	}

	entries := make([]LeaderboardEntry, 0, len(totals))
	for giverID, total := range totals {
		giver, _ := s.GiverByID(giverID)
		entries = append(entries, LeaderboardEntry{
			GiverID:  giverID,
			Nickname: giver.Nickname,
			Total:    total,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].Nickname < entries[j].Nickname
	})

	return entries
}

// GiverTotals возвращает суммарные траты каждого дарителя.
// Используется admin view для таблицы расходов.
func GiverTotals(s *store.State) map[string]int64 {
	totals := make(map[string]int64)
	for _, ev := range s.Events {
		gift, ok := s.GiftByID(ev.GiftID)
		if !ok {
			continue
		}
		totals[ev.GiverID] += gift.Price
	}
	return totals
}

// TeamStats возвращает итоги по каждой команде: суммарную стоимость
// и количество подарков.
func TeamStats(s *store.State) map[int64]TeamStat {
	stats := make(map[int64]TeamStat)
	for _, ev := range s.Events {
		gift, ok := s.GiftByID(ev.GiftID)
		if !ok {
			continue
		}
		st := stats[ev.TeamID]
		st.TotalValue += gift.Price
		st.GiftCount++
		stats[ev.TeamID] = st
	}
	return stats
}

// ResolveEvent joins one event with its references, degrading to
// placeholders when a reference cannot be resolved.
func ResolveEvent(s *store.State, ev models.GiftEvent) ResolvedEvent {
	resolved := ResolvedEvent{
		Event:         ev,
		GiverNickname: PlaceholderNickname,
		GiftName:      PlaceholderGiftName,
		TeamName:      PlaceholderTeamName,
		Animation:     models.AnimationNone,
	}

	if giver, ok := s.GiverByID(ev.GiverID); ok {
		resolved.GiverNickname = giver.Nickname
	}
	if gift, ok := s.GiftByID(ev.GiftID); ok {
		resolved.GiftName = gift.Name
		resolved.GiftImage = gift.Image
		resolved.GiftPrice = gift.Price
		resolved.Animation = gift.Animation
	}
	if team, ok := s.TeamByID(ev.TeamID); ok {
		resolved.TeamName = team.Name
	}

	return resolved
}

// ResolveFeed возвращает последние limit событий, новые первыми.
// limit <= 0 означает "все".
func ResolveFeed(s *store.State, limit int) []ResolvedEvent {
	events := models.CloneEvents(s.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp > events[j].Timestamp
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}

	resolved := make([]ResolvedEvent, 0, len(events))
	for _, ev := range events {
		resolved = append(resolved, ResolveEvent(s, ev))
	}
	return resolved
}
