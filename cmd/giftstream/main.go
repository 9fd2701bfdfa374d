package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/iudanet/giftstream/internal/auth"
	"github.com/iudanet/giftstream/internal/cli"
	"github.com/iudanet/giftstream/internal/identity"
	"github.com/iudanet/giftstream/internal/iocli"
	"github.com/iudanet/giftstream/internal/models"
	"github.com/iudanet/giftstream/internal/replication/membus"
	"github.com/iudanet/giftstream/internal/replication/watcher"
	"github.com/iudanet/giftstream/internal/storage"
	"github.com/iudanet/giftstream/internal/storage/boltdb"
	"github.com/iudanet/giftstream/internal/storage/sqlite"
	"github.com/iudanet/giftstream/internal/store"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	dbPath := flag.String("db", "giftstream.db", "Path to local database")
	driver := flag.String("driver", "sqlite", "Storage driver: sqlite or bolt")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	command := args[0]

	// Контекст завершается по Ctrl+C: команда display работает до сигнала
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Открываем durable storage
	st, watchPath, err := openStorage(ctx, *driver, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	// Живой канал репликации: один контекст на процесс, но шина подключена
	// так же, как в многоконтекстной конфигурации
	bus := membus.New(logger)
	defer bus.Close()

	appStore := store.New(ctx, st, bus, store.Options{Logger: logger})
	cancelSub := bus.Subscribe(func(msg models.Message) {
		appStore.HandleMessage(ctx, msg)
	})
	defer cancelSub()

	gate, err := auth.NewGate(st, auth.Options{Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize admin gate: %v\n", err)
		os.Exit(1)
	}

	identitySvc := identity.NewService(st, appStore, logger)

	c := cli.New(appStore, identitySvc, gate, iocli.NewStdio())

	// Выполняем команду
	switch command {
	case "register":
		err = c.RunRegister(ctx)
	case "whoami":
		err = c.RunWhoami(ctx)
	case "gifts":
		err = c.RunGifts(ctx)
	case "send":
		err = c.RunSend(ctx, args[1:])
	case "teams":
		err = c.RunTeams(ctx)
	case "add-team":
		err = c.RunAddTeam(ctx, args[1:])
	case "set-team":
		err = c.RunSetTeam(ctx, args[1:])
	case "add-gift":
		err = c.RunAddGift(ctx, args[1:])
	case "toggle-gift":
		err = c.RunToggleGift(ctx, args[1:])
	case "leaderboard":
		err = c.RunLeaderboard(ctx, args[1:])
	case "feed":
		err = c.RunFeed(ctx, args[1:])
	case "display":
		w := watcher.New(st, appStore, watcher.Options{Path: watchPath, Logger: logger})
		err = c.RunDisplay(ctx, w)
	case "passwd":
		err = c.RunPasswd(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		cli.PrintUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStorage открывает выбранный бэкенд и возвращает путь для fsnotify
// (пустой, если наблюдать нечего).
func openStorage(ctx context.Context, driver, dbPath string) (storage.Storage, string, error) {
	switch driver {
	case "sqlite":
		s, err := sqlite.New(ctx, dbPath)
		if err != nil {
			return nil, "", err
		}
		watchPath := dbPath
		if dbPath == ":memory:" {
			watchPath = ""
		}
		return s, watchPath, nil
	case "bolt":
		s, err := boltdb.New(ctx, dbPath)
		if err != nil {
			return nil, "", err
		}
		// bolt-файл эксклюзивен для процесса: чужих записей не бывает,
		// наблюдаем только для симметрии конфигурации
		return s, s.Path(), nil
	default:
		return nil, "", fmt.Errorf("unknown storage driver: %q", driver)
	}
}

func printVersion() {
	fmt.Printf("Gift Stream\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
