package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"drive-canvas.klederson.com/internal/config"
	"drive-canvas.klederson.com/internal/monitoring"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

// Sender accepts messages for the Bubble Tea program. *tea.Program satisfies
// it.
type Sender interface {
	Send(msg tea.Msg)
}

// Source feeds frames into a program until stopped.
type Source interface {
	Start(s Sender) error
	Stop()
}

const handshakeTimeout = 10 * time.Second

// WebSocketSource reads telemetry frames from a websocket server. After an
// unclean close it reconnects every ReconnectDelay; a normal closure ends it.
type WebSocketSource struct {
	url    string
	delay  time.Duration
	dialer websocket.Dialer

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWebSocketSource creates a source for the given ws:// or wss:// URL.
func NewWebSocketSource(url string) *WebSocketSource {
	return &WebSocketSource{
		url:    url,
		delay:  config.ReconnectDelay,
		dialer: websocket.Dialer{HandshakeTimeout: handshakeTimeout},
	}
}

// Start connects in the background and sends a FrameMsg for every valid
// message. Malformed messages are logged and dropped.
func (s *WebSocketSource) Start(sender Sender) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errors.New("websocket source already started")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.run(ctx, sender)
	}()
	return nil
}

// Stop closes the connection and waits for the reader to exit.
func (s *WebSocketSource) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *WebSocketSource) run(ctx context.Context, sender Sender) {
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := s.dialer.DialContext(ctx, s.url, http.Header{})
		if err == nil {
			monitoring.Logf("connected to %s", s.url)
			err = s.read(ctx, conn, sender)
			_ = conn.Close()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				monitoring.Logf("telemetry source closed the connection")
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		sender.Send(SourceErrorMsg{Err: fmt.Errorf("telemetry source %s: %w", s.url, err)})
		monitoring.Logf("telemetry source lost (%v), reconnecting in %s", err, s.delay)

		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (s *WebSocketSource) read(ctx context.Context, conn *websocket.Conn, sender Sender) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutdown"),
				time.Now().Add(2*time.Second))
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		frame, err := Decode(data)
		if err != nil {
			monitoring.Logf("dropping message: %v", err)
			continue
		}
		sender.Send(FrameMsg{Frame: frame})
	}
}
