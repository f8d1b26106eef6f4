package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"example.com/dukatech/client/internal/event"
	"example.com/dukatech/client/internal/infra/rest"
	"example.com/dukatech/client/internal/infra/token"
	"example.com/dukatech/client/internal/interface/cli"
	"example.com/dukatech/client/internal/usecase/authn"
	cartuc "example.com/dukatech/client/internal/usecase/cart"
	cataloguc "example.com/dukatech/client/internal/usecase/catalog"
	"example.com/dukatech/client/internal/usecase/checkout"
	"example.com/dukatech/client/internal/usecase/search"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	baseURL := getenv("DUKATECH_API_URL", "")
	if baseURL == "" {
		log.Fatal("DUKATECH_API_URL is required")
	}
	statePath := getenv("DUKATECH_STATE_FILE", defaultStatePath())

	bus := event.NewBus()
	tokens := token.NewStore(statePath, bus)

	rc, err := rest.NewClient(baseURL, tokens, &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		log.Fatal(err)
	}

	catalogClient := cataloguc.New(rc)
	cartClient := cartuc.NewClient(rc)

	app := &cli.App{
		Auth:     authn.NewService(rc, tokens),
		Catalog:  catalogClient,
		Cart:     cartuc.NewViewModel(cartClient, bus),
		Search:   search.NewService(catalogClient),
		Checkout: checkout.NewService(rc),
		Bus:      bus,
		Out:      os.Stdout,
	}

	// Keep the cart badge in sync with every mutation, like the header UI
	// listening for cart-updated events.
	bus.SubscribeCart(func(count int64) {
		fmt.Fprintf(os.Stdout, "cart: %d item(s)\n", count)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dukatech/session.json"
	}
	return filepath.Join(home, ".dukatech", "session.json")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
