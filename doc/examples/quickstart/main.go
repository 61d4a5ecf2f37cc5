// Package quickstart provides simple example code for documentation.
package quickstart

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/broady/ejabberd"
	"github.com/broady/ejabberd/middleware"
	"github.com/broady/ejabberd/muc"
	"github.com/broady/ejabberd/transport"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
)

func exampleClient() *ejabberd.Client {
	// [snippet:client]
	x, err := transport.NewXMLRPC(transport.Config{
		URL: "http://127.0.0.1:4560",
		Auth: &transport.Auth{
			User:     "admin",
			Server:   "example.com",
			Password: "secret",
			Admin:    true,
		},
		Timeout: 5 * time.Second,
	})
	if err != nil {
		log.Fatal(err)
	}

	client := ejabberd.NewClient(transport.Retry(x, transport.RetryPolicy{MaxRetries: 3}))
	// [/snippet:client]
	return client
}

func exampleRegister(ctx context.Context, client *ejabberd.Client) {
	// [snippet:register]
	if _, err := client.Register(ctx, "alice", "example.com", "secret"); err != nil {
		if errors.Is(err, ejabberd.ErrUserAlreadyRegistered) {
			log.Printf("alice already exists")
			return
		}
		log.Fatal(err)
	}
	// [/snippet:register]
}

func exampleRooms(ctx context.Context, client *ejabberd.Client) {
	// [snippet:rooms]
	if _, err := client.CreateRoom(ctx, "lobby", "conference.example.com", "example.com"); err != nil {
		log.Fatal(err)
	}
	if _, err := client.ChangeRoomOption(ctx, "lobby", "conference.example.com", muc.MaxUsers, 50); err != nil {
		log.Fatal(err)
	}
	if _, err := client.ChangeRoomOption(ctx, "lobby", "conference.example.com",
		muc.AllowPrivateMessagesFromVisitors, muc.Moderators); err != nil {
		log.Fatal(err)
	}
	if _, err := client.SetRoomAffiliation(ctx, "lobby", "conference.example.com",
		"alice@example.com", muc.Owner); err != nil {
		log.Fatal(err)
	}
	// [/snippet:rooms]
}

func exampleMiddleware() {
	// [snippet:middleware]
	metrics, err := middleware.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	client := exampleClient().
		WithLogger(logger).
		WithInterceptor(middleware.Tracing(otel.GetTracerProvider())).
		WithInterceptor(metrics.Interceptor()).
		WithInterceptor(middleware.Logging(logger))
	// [/snippet:middleware]
	_ = client
}

// Keep imports used.
var (
	_ = exampleRegister
	_ = exampleRooms
	_ = exampleMiddleware
)
