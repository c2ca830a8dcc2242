package goldrush

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

// ErrSockCongestion indicates there are too many waiters on the socket for a given op.
var ErrSockCongestion = errors.New("sock op failed due to congestion")

const (
	writeWait      = time.Second
	semaphoreWait  = 5 * time.Second
	maxMessageSize = 64 * 1024
)

// websock serializes access to the connection, which allows one concurrent
// reader and one concurrent writer.
type websock struct {
	readSem  chan struct{}
	writeSem chan struct{}
	ws       *websocket.Conn
}

func newWebSock(ws *websocket.Conn) *websock {
	ws.SetReadLimit(maxMessageSize)
	return &websock{
		readSem:  make(chan struct{}, 1),
		writeSem: make(chan struct{}, 1),
		ws:       ws,
	}
}

// conn returns the underlying websocket for setup, e.g. adding handlers.
func (sock *websock) conn() *websocket.Conn {
	return sock.ws
}

func (sock *websock) read(ctx context.Context, readFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case sock.readSem <- struct{}{}:
		defer func() { <-sock.readSem }()
		return readFn(sock.ws)
	case <-time.After(semaphoreWait):
		return ErrSockCongestion
	}
}

func (sock *websock) write(ctx context.Context, writeFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case sock.writeSem <- struct{}{}:
		defer func() { <-sock.writeSem }()
		if err := sock.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		return writeFn(sock.ws)
	case <-time.After(semaphoreWait):
		return ErrSockCongestion
	}
}

// close sends a normal closure frame and drops the connection. It must only
// be called once no reader or writer is left.
func (sock *websock) close() error {
	sock.writeSem <- struct{}{}
	defer func() { <-sock.writeSem }()

	_ = sock.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = sock.ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return sock.ws.Close()
}

func isUnexpectedClose(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}
