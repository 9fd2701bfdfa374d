package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/iudanet/giftstream/internal/replication/watcher"
	"github.com/iudanet/giftstream/internal/stats"
)

// RunLeaderboard печатает топ дарителей.
func (c *Cli) RunLeaderboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("leaderboard", flag.ContinueOnError)
	top := fs.Int("top", 5, "Number of rows to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entries := stats.Leaderboard(c.store.Snapshot())
	if len(entries) > *top {
		entries = entries[:*top]
	}

	if len(entries) == 0 {
		c.io.Println("No gifts sent yet.")
		return nil
	}

	for i, e := range entries {
		c.io.Printf("%2d. %-20s %10d\n", i+1, e.Nickname, e.Total)
	}
	return nil
}

// RunFeed печатает последние события с разрешенными ссылками.
func (c *Cli) RunFeed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	last := fs.Int("last", 10, "Number of events to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	feed := stats.ResolveFeed(c.store.Snapshot(), *last)
	if len(feed) == 0 {
		c.io.Println("No gifts sent yet.")
		return nil
	}

	for _, ev := range feed {
		ts := time.UnixMilli(ev.Event.Timestamp).Format("15:04:05")
		line := fmt.Sprintf("%s  %s → %s: %s (%d)", ts, ev.GiverNickname, ev.TeamName, ev.GiftName, ev.GiftPrice)
		if ev.Event.Message != "" {
			line += fmt.Sprintf("  %q", ev.Event.Message)
		}
		c.io.Println(line)
	}
	return nil
}

// RunDisplay следит за хранилищем и перерисовывает сводку при каждом
// изменении состояния — живой display-контекст.
func (c *Cli) RunDisplay(ctx context.Context, w *watcher.Watcher) error {
	render := func() {
		snapshot := c.store.Snapshot()

		c.io.Println()
		c.io.Println("=== Gift Stream ===")
		if snapshot.CurrentTeam != nil {
			if team, ok := snapshot.TeamByID(*snapshot.CurrentTeam); ok {
				c.io.Printf("On stage: %s\n", team.Name)
			} else {
				c.io.Printf("On stage: %s\n", stats.PlaceholderTeamName)
			}
		} else {
			c.io.Println("On stage: -")
		}

		c.io.Println()
		for i, e := range stats.Leaderboard(snapshot) {
			if i == 5 {
				break
			}
			c.io.Printf("%2d. %-20s %10d\n", i+1, e.Nickname, e.Total)
		}

		c.io.Println()
		for _, ev := range stats.ResolveFeed(snapshot, 5) {
			c.io.Printf("%s sent %s (%d)\n", ev.GiverNickname, ev.GiftName, ev.GiftPrice)
		}
	}

	c.store.OnChange(render)
	render()

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
