// Command notifytail prints a user's live notifications as they arrive.
//
//	go run ./cmd/notifytail -email me@example.com -password secret
//	NASHR_TOKEN=... go run ./cmd/notifytail
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nashr/internal/models"

	"github.com/gorilla/websocket"
	"resty.dev/v3"
)

func main() {
	base := flag.String("api", "http://localhost:8080", "API base URL")
	token := flag.String("token", os.Getenv("NASHR_TOKEN"), "Access token (or log in with -email/-password)")
	email := flag.String("email", "", "Login email")
	password := flag.String("password", "", "Login password")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *token == "" {
		if *email == "" || *password == "" {
			log.Fatal("either -token or -email and -password are required")
		}
		t, err := login(ctx, *base, *email, *password)
		if err != nil {
			log.Fatalf("login: %v", err)
		}
		*token = t
	}

	if err := tail(ctx, *base, *token); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func login(ctx context.Context, base, email, password string) (string, error) {
	client := resty.New().SetBaseURL(base).SetTimeout(10 * time.Second)
	defer func() { _ = client.Close() }()

	var ok struct {
		Token string `json:"token"`
	}
	res, err := client.R().
		WithContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&ok).
		Post("/api/auth/login")
	if err != nil {
		return "", err
	}
	if res.IsError() {
		var failed models.ErrorResponse
		_ = json.Unmarshal([]byte(res.String()), &failed)
		return "", fmt.Errorf("status %d: %s", res.StatusCode(), failed.Error)
	}
	return ok.Token, nil
}

func wsURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/ws/notifications"
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return u.String(), nil
}

func tail(ctx context.Context, base, token string) error {
	target, err := wsURL(base, token)
	if err != nil {
		return err
	}

	conn, res, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		if res != nil {
			return fmt.Errorf("dial: %w (status %d)", err, res.StatusCode)
		}
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()
	log.Println("connected, waiting for notifications (Ctrl+C to stop)")

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		var n models.NotificationView
		if err := json.Unmarshal(payload, &n); err != nil {
			fmt.Println(string(payload))
			continue
		}
		fmt.Printf("%s  [%s] %s\n", n.CreatedAt.Local().Format(time.DateTime), n.Type, n.Message)
	}
}
