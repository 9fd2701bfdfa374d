package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/iudanet/giftstream/internal/models"
	"github.com/iudanet/giftstream/internal/stats"
	"github.com/iudanet/giftstream/internal/store"
)

// RunTeams печатает команды с итогами и отметкой "на сцене".
func (c *Cli) RunTeams(ctx context.Context) error {
	snapshot := c.store.Snapshot()
	teamStats := stats.TeamStats(snapshot)
	current := snapshot.CurrentTeam

	c.io.Printf("%-6s %-30s %10s %8s  %s\n", "ID", "NAME", "TOTAL", "GIFTS", "ON STAGE")
	for _, t := range snapshot.Teams {
		onStage := ""
		if current != nil && *current == t.ID {
			onStage = "*"
		}
		st := teamStats[t.ID]
		c.io.Printf("%-6d %-30s %10d %8d  %s\n", t.ID, t.Name, st.TotalValue, st.GiftCount, onStage)
	}
	return nil
}

// RunAddTeam добавляет команду (админская операция).
func (c *Cli) RunAddTeam(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-team", flag.ContinueOnError)
	name := fs.String("name", "", "Team display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("team name is required")
	}

	if err := c.requireAdmin(ctx); err != nil {
		return err
	}

	team := c.store.AddTeam(ctx, *name)
	c.io.Printf("✓ Added team %d: %s\n", team.ID, team.Name)
	return nil
}

// RunSetTeam переключает селектор текущей команды.
func (c *Cli) RunSetTeam(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-team", flag.ContinueOnError)
	teamID := fs.Int64("team", 0, "Team id to put on stage")
	none := fs.Bool("none", false, "Clear the stage")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := c.requireAdmin(ctx); err != nil {
		return err
	}

	if *none {
		c.store.SetCurrentTeam(ctx, nil)
		c.io.Println("✓ Stage cleared")
		return nil
	}

	if _, ok := c.store.TeamByID(*teamID); !ok {
		return fmt.Errorf("unknown team: %d", *teamID)
	}
	c.store.SetCurrentTeam(ctx, teamID)
	c.io.Printf("✓ Team %d is on stage\n", *teamID)
	return nil
}

// RunAddGift добавляет запись в каталог подарков.
func (c *Cli) RunAddGift(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-gift", flag.ContinueOnError)
	name := fs.String("name", "", "Gift name")
	price := fs.Int64("price", 0, "Gift price (non-negative)")
	image := fs.String("image", "", "Image reference")
	animation := fs.String("animation", string(models.AnimationNone), "Animation tag")
	hidden := fs.Bool("hidden", false, "Create the gift hidden from the catalog")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("gift name is required")
	}
	if *price < 0 {
		return fmt.Errorf("gift price must be non-negative")
	}

	if err := c.requireAdmin(ctx); err != nil {
		return err
	}

	gift := c.store.AddGift(ctx, store.GiftInput{
		Name:      *name,
		Price:     *price,
		Image:     *image,
		IsVisible: !*hidden,
		Animation: models.AnimationType(*animation),
	})

	c.io.Printf("✓ Added gift %d: %s (%d)\n", gift.ID, gift.Name, gift.Price)
	return nil
}

// RunToggleGift переключает видимость записи каталога,
// не меняя цену, имя и картинку.
func (c *Cli) RunToggleGift(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("toggle-gift", flag.ContinueOnError)
	giftID := fs.Int64("gift", 0, "Gift id to toggle")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gift, ok := c.store.GiftByID(*giftID)
	if !ok {
		return fmt.Errorf("unknown gift: %d", *giftID)
	}

	if err := c.requireAdmin(ctx); err != nil {
		return err
	}

	gift.IsVisible = !gift.IsVisible
	if !c.store.UpdateGift(ctx, gift) {
		return fmt.Errorf("unknown gift: %d", *giftID)
	}

	state := "hidden"
	if gift.IsVisible {
		state = "visible"
	}
	c.io.Printf("✓ Gift %d is now %s\n", gift.ID, state)
	return nil
}

// RunPasswd меняет пароль администратора.
func (c *Cli) RunPasswd(ctx context.Context) error {
	if err := c.gate.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to bootstrap admin gate: %w", err)
	}

	current, err := c.io.ReadPassword("Current password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	next, err := c.io.ReadPassword("New password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := c.io.ReadPassword("Repeat new password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if next != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := c.gate.SetPassword(ctx, current, next); err != nil {
		return err
	}

	c.io.Println("✓ Admin password changed")
	return nil
}
