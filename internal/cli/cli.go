// Package cli реализует команды терминального интерфейса. Это "view layer"
// системы: команды только читают состояние store и вызывают его мутации.
package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/giftstream/internal/auth"
	"github.com/iudanet/giftstream/internal/identity"
	"github.com/iudanet/giftstream/internal/iocli"
	"github.com/iudanet/giftstream/internal/store"
)

type Cli struct {
	store    *store.Store
	identity *identity.Service
	gate     *auth.Gate
	io       iocli.IO
}

func New(st *store.Store, id *identity.Service, gate *auth.Gate, io iocli.IO) *Cli {
	return &Cli{
		store:    st,
		identity: id,
		gate:     gate,
		io:       io,
	}
}

// requireAdmin запрашивает общий пароль и открывает админскую сессию.
// Сессия живет в памяти одного запуска команды — как sessionStorage-флаг
// оригинального admin view жил в одной вкладке.
func (c *Cli) requireAdmin(ctx context.Context) error {
	if err := c.gate.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to bootstrap admin gate: %w", err)
	}

	password, err := c.io.ReadPassword("Admin password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	token, err := c.gate.Login(ctx, password)
	if err != nil {
		return err
	}

	// admin view проверяет сессию при каждой загрузке
	if err := c.gate.Verify(token); err != nil {
		return err
	}

	return nil
}

// PrintUsage prints the command overview.
func PrintUsage() {
	fmt.Println("Usage: giftstream [flags] <command> [command flags]")
	fmt.Println()
	fmt.Println("Giver commands:")
	fmt.Println("  register            Register as a giver")
	fmt.Println("  whoami              Show the locally saved giver identity")
	fmt.Println("  gifts               List the gift catalog")
	fmt.Println("  send                Send a gift to the team on stage")
	fmt.Println()
	fmt.Println("Display commands:")
	fmt.Println("  teams               List teams with totals")
	fmt.Println("  leaderboard         Show top givers")
	fmt.Println("  feed                Show recent gift events")
	fmt.Println("  display             Follow live state and re-render on change")
	fmt.Println()
	fmt.Println("Admin commands (password protected):")
	fmt.Println("  add-team            Add a team")
	fmt.Println("  set-team            Put a team on stage")
	fmt.Println("  add-gift            Add a catalog entry")
	fmt.Println("  toggle-gift         Toggle a catalog entry's visibility")
	fmt.Println("  passwd              Change the admin password")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -db <path>          Database file (default giftstream.db)")
	fmt.Println("  -driver <name>      Storage driver: sqlite or bolt (default sqlite)")
	fmt.Println("  -version            Show version information")
}
