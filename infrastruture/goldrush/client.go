// Package goldrush talks to the goldrush backend: it creates a game over REST
// and drives it over the game websocket.
package goldrush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-maze-agent/game"
	"github.com/beka-birhanu/vinom-maze-agent/service/i"
	"github.com/gorilla/websocket"
)

var ErrCreateGame = errors.New("could not create game")

// GameInstance is the backend's answer to a create request.
type GameInstance struct {
	EntityID string `json:"entityId"`
}

// Config holds the client's endpoints and pacing.
type Config struct {
	BackendURL   string // e.g. https://goldrush.monad.fi/backend
	FrontendURL  string // e.g. https://goldrush.monad.fi
	Token        string
	HTTPClient   *http.Client
	Dialer       *websocket.Dialer
	CommandDelay time.Duration
	PingPeriod   time.Duration
	Logger       i.Logger
}

// Client creates and dials games for one player token.
type Client struct {
	backend      *url.URL
	frontend     string
	token        string
	http         *http.Client
	dialer       *websocket.Dialer
	commandDelay time.Duration
	pingPeriod   time.Duration
	logger       i.Logger
}

// NewClient validates the configuration and returns a Client.
func NewClient(c *Config) (*Client, error) {
	if c.Token == "" {
		return nil, errors.New("player token is empty")
	}
	if c.Logger == nil {
		return nil, errors.New("goldrush client needs a logger")
	}
	backend, err := url.Parse(strings.TrimSuffix(c.BackendURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}
	if backend.Scheme != "http" && backend.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q must be http or https", c.BackendURL)
	}
	if c.PingPeriod <= 0 {
		return nil, errors.New("ping period must be positive")
	}

	client := &Client{
		backend:      backend,
		frontend:     strings.TrimSuffix(c.FrontendURL, "/"),
		token:        c.Token,
		http:         c.HTTPClient,
		dialer:       c.Dialer,
		commandDelay: c.CommandDelay,
		pingPeriod:   c.PingPeriod,
		logger:       c.Logger,
	}
	if client.http == nil {
		client.http = &http.Client{Timeout: 10 * time.Second}
	}
	if client.dialer == nil {
		client.dialer = websocket.DefaultDialer
	}
	return client, nil
}

// CreateGame starts a new game instance of a level.
func (c *Client) CreateGame(ctx context.Context, levelID string) (*GameInstance, error) {
	endpoint := c.backend.JoinPath("api", "levels", levelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.token)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateGame, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("%w: %s - %s", ErrCreateGame, res.Status, strings.TrimSpace(string(body)))
	}

	var instance GameInstance
	if err := json.NewDecoder(res.Body).Decode(&instance); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrCreateGame, err)
	}
	if instance.EntityID == "" {
		return nil, fmt.Errorf("%w: response has no entityId", ErrCreateGame)
	}
	return &instance, nil
}

// GameURL returns the spectator page of a game.
func (c *Client) GameURL(entityID string) string {
	return fmt.Sprintf("%s/?id=%s", c.frontend, url.QueryEscape(entityID))
}

// Dial opens the game socket and subscribes to the game.
func (c *Client) Dial(ctx context.Context, gameID string) (*Session, error) {
	socketURL := *c.backend
	socketURL.Scheme = "wss"
	if c.backend.Scheme == "http" {
		socketURL.Scheme = "ws"
	}
	socketURL.Path = strings.TrimSuffix(socketURL.Path, "/") + "/" + url.PathEscape(c.token) + "/"

	conn, res, err := c.dialer.DialContext(ctx, socketURL.String(), nil)
	if err != nil {
		if res != nil {
			return nil, fmt.Errorf("dialing game socket: %s: %w", res.Status, err)
		}
		return nil, fmt.Errorf("dialing game socket: %w", err)
	}

	session := &Session{
		sock:         newWebSock(conn),
		gameID:       gameID,
		commandDelay: c.commandDelay,
		pingPeriod:   c.pingPeriod,
		logger:       c.logger,
	}
	if err := session.send(ctx, game.KindSubGame, game.SubGame{ID: gameID}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("subscribing to game %s: %w", gameID, err)
	}

	c.logger.Info(fmt.Sprintf("Subscribed to game %s", gameID))
	return session, nil
}
