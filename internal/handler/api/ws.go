package api

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/notifier"
	"golang.org/x/net/websocket"
)

const (
	wsOutboxSize   = 16
	wsWriteTimeout = 5 * time.Second
)

var errSlowSubscriber = errors.New("real-time client is not keeping up")

// wsSubscriber adapts a websocket connection to notifier.Subscriber. Send only
// queues the message; a dedicated writer drains the outbox so a client that
// stops reading never holds up the hub.
type wsSubscriber struct {
	conn         *websocket.Conn
	outbox       chan []byte
	done         chan struct{}
	writeTimeout time.Duration
	closeOnce    sync.Once
	closed       atomic.Bool
}

func newWSSubscriber(conn *websocket.Conn, outboxSize int, writeTimeout time.Duration) *wsSubscriber {
	return &wsSubscriber{
		conn:         conn,
		outbox:       make(chan []byte, outboxSize),
		done:         make(chan struct{}),
		writeTimeout: writeTimeout,
	}
}

func (s *wsSubscriber) Send(msg []byte) error {
	if s.closed.Load() {
		return errSlowSubscriber
	}
	select {
	case s.outbox <- msg:
		return nil
	default:
		s.close()
		return errSlowSubscriber
	}
}

func (s *wsSubscriber) Ready() bool {
	return !s.closed.Load()
}

func (s *wsSubscriber) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.outbox:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := websocket.Message.Send(s.conn, string(msg)); err != nil {
				s.close()
				return
			}
		}
	}
}

// close stops the writer and closes the connection, which also ends the read loop.
func (s *wsSubscriber) close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		_ = s.conn.Close()
	})
}

// EventsHandler upgrades the request to a websocket and streams hub events
// until the client goes away. Anything the client sends is ignored.
func EventsHandler(hub *notifier.Hub) http.Handler {
	return eventsHandler(hub, wsOutboxSize, wsWriteTimeout)
}

func eventsHandler(hub *notifier.Hub, outboxSize int, writeTimeout time.Duration) http.Handler {
	return websocket.Server{
		Handler: func(conn *websocket.Conn) {
			ctx := conn.Request().Context()
			sub := newWSSubscriber(conn, outboxSize, writeTimeout)
			go sub.writeLoop()
			handle := hub.Subscribe(sub)
			logger.Infof(ctx, "real-time client %d connected from %s", handle, conn.Request().RemoteAddr)

			defer func() {
				sub.close()
				hub.Unsubscribe(handle)
				logger.Infof(ctx, "real-time client %d disconnected", handle)
			}()

			var discard string
			for {
				if err := websocket.Message.Receive(conn, &discard); err != nil {
					return
				}
			}
		},
	}
}
