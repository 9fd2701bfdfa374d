package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/iudanet/giftstream/internal/store"
	"github.com/iudanet/giftstream/internal/validation"
)

// RunRegister регистрирует дарителя и сохраняет локальную запись "кто я".
func (c *Cli) RunRegister(ctx context.Context) error {
	c.io.Println("=== Register ===")
	c.io.Println()

	nickname, err := c.io.ReadInput("Nickname: ")
	if err != nil {
		return fmt.Errorf("failed to read nickname: %w", err)
	}
	realName, err := c.io.ReadInput("Real name: ")
	if err != nil {
		return fmt.Errorf("failed to read real name: %w", err)
	}
	phone, err := c.io.ReadInput("Phone: ")
	if err != nil {
		return fmt.Errorf("failed to read phone: %w", err)
	}
	department, err := c.io.ReadInput("Department: ")
	if err != nil {
		return fmt.Errorf("failed to read department: %w", err)
	}

	giver, err := c.identity.Register(ctx, store.GiverInput{
		Nickname:   nickname,
		RealName:   realName,
		Phone:      phone,
		Department: department,
	})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("✓ Registered as %s (%s)\n", giver.Nickname, giver.ID)
	return nil
}

// RunWhoami показывает локальную запись дарителя, сверенную со store.
func (c *Cli) RunWhoami(ctx context.Context) error {
	giver, err := c.identity.Bootstrap(ctx)
	if err != nil {
		return err
	}
	if giver == nil {
		c.io.Println("Not registered. Run 'giftstream register' first.")
		return nil
	}

	c.io.Printf("ID:         %s\n", giver.ID)
	c.io.Printf("Nickname:   %s\n", giver.Nickname)
	c.io.Printf("Real name:  %s\n", giver.RealName)
	c.io.Printf("Phone:      %s\n", giver.Phone)
	c.io.Printf("Department: %s\n", giver.Department)
	return nil
}

// RunGifts печатает каталог подарков.
func (c *Cli) RunGifts(ctx context.Context) error {
	gifts := c.store.Gifts()
	if len(gifts) == 0 {
		c.io.Println("The catalog is empty.")
		return nil
	}

	c.io.Printf("%-6s %-14s %8s  %-16s %s\n", "ID", "NAME", "PRICE", "ANIMATION", "VISIBLE")
	for _, g := range gifts {
		visible := "yes"
		if !g.IsVisible {
			visible = "no"
		}
		c.io.Printf("%-6d %-14s %8d  %-16s %s\n", g.ID, g.Name, g.Price, g.Animation, visible)
	}
	return nil
}

// RunSend отправляет подарок команде на сцене (или явно указанной).
func (c *Cli) RunSend(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	giftID := fs.Int64("gift", 0, "Gift id from the catalog")
	teamID := fs.Int64("team", 0, "Team id (defaults to the team on stage)")
	message := fs.String("message", "", "Optional message (max 50 characters)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	giver, err := c.identity.Bootstrap(ctx)
	if err != nil {
		return err
	}
	if giver == nil {
		return fmt.Errorf("not registered. Run 'giftstream register' first")
	}

	gift, ok := c.store.GiftByID(*giftID)
	if !ok || !gift.IsVisible {
		return fmt.Errorf("gift %d is not available", *giftID)
	}

	target := *teamID
	if target == 0 {
		current := c.store.CurrentTeamID()
		if current == nil {
			return fmt.Errorf("no team is on stage, pass -team explicitly")
		}
		target = *current
	}
	if _, ok := c.store.TeamByID(target); !ok {
		return fmt.Errorf("unknown team: %d", target)
	}

	if err := validation.ValidateMessage(*message); err != nil {
		return err
	}

	event := c.store.SendGift(ctx, store.SendGiftInput{
		GiverID: giver.ID,
		TeamID:  target,
		GiftID:  gift.ID,
		Message: *message,
	})

	c.io.Printf("✓ Sent %s (%d) to team %d [%s]\n", gift.Name, gift.Price, target, event.ID)
	return nil
}
