package goldrush

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-maze-agent/game"
	"github.com/beka-birhanu/vinom-maze-agent/service/i"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
)

var ErrPongDeadlineExceeded = errors.New("game server stopped answering pings")

// errSessionOver ends the read loop without an error.
var errSessionOver = errors.New("session over")

// Session is one subscribed game socket.
type Session struct {
	sock         *websock
	gameID       string
	commandDelay time.Duration
	pingPeriod   time.Duration
	logger       i.Logger
}

// Run feeds every tick of the game to handler and sends back its action,
// until the handler is finished or the server closes the socket. A failing
// handler or a done ctx ends the session with that error. The socket is
// closed on return.
func (s *Session) Run(ctx context.Context, handler i.TickHandler) error {
	pong := make(chan struct{}, 1)
	s.sock.conn().SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.readTicks(groupCtx, handler)
	})
	group.Go(func() error {
		return s.pingPong(groupCtx, pong)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		// Unblocks a pending read.
		_ = s.sock.conn().SetReadDeadline(time.Now())
		return nil
	})

	err := group.Wait()
	if closeErr := s.sock.close(); closeErr != nil {
		s.logger.Debug(fmt.Sprintf("closing game socket: %v", closeErr))
	}
	if errors.Is(err, errSessionOver) {
		return nil
	}
	if err == nil {
		err = ctx.Err()
	}
	return err
}

func (s *Session) readTicks(ctx context.Context, handler i.TickHandler) error {
	for {
		var data []byte
		err := s.sock.read(ctx, func(ws *websocket.Conn) (readErr error) {
			_, data, readErr = ws.ReadMessage()
			return
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if isUnexpectedClose(err) {
				return fmt.Errorf("game socket closed: %w", err)
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Info("Game socket closed by server")
				return errSessionOver
			}
			return err
		}

		msg, err := game.DecodeMessage(data)
		if err != nil {
			s.logger.Warning(fmt.Sprintf("Skipping frame: %v", err))
			continue
		}
		if msg.Kind != game.KindGameInstance {
			s.logger.Info(fmt.Sprintf("Ignoring %s message: %s", msg.Kind, msg.Payload))
			continue
		}

		tick, err := msg.Tick()
		if err != nil {
			return err
		}
		action, err := handler.HandleTick(ctx, tick)
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.commandDelay):
		}

		if err := s.send(ctx, game.KindRunCommand, game.RunCommand{GameID: s.gameID, Payload: action}); err != nil {
			return err
		}
		if handler.Finished() {
			return errSessionOver
		}
	}
}

// pingPong checks the server is alive. It relies on readTicks running, which
// is where pong frames are handled.
func (s *Session) pingPong(ctx context.Context, pong <-chan struct{}) error {
	pongWait := 4 * s.pingPeriod
	pinger := channerics.NewTicker(ctx.Done(), s.pingPeriod)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			err := s.sock.write(ctx, func(ws *websocket.Conn) error {
				return ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			})
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("ping failed: %w", err)
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (s *Session) send(ctx context.Context, kind string, payload any) error {
	data, err := game.EncodeMessage(kind, payload)
	if err != nil {
		return err
	}
	return s.sock.write(ctx, func(ws *websocket.Conn) error {
		return ws.WriteMessage(websocket.TextMessage, data)
	})
}
