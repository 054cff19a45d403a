package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const DefaultReplyTimeout = 2 * time.Second

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Server accepts websocket clients and forwards their JSON commands to a Queue, writing
// back one Reply per command in order.
type Server struct {
	Queue        *Queue
	Log          Logger
	ReplyTimeout time.Duration

	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	srv   *http.Server
}

func NewServer(q *Queue, log Logger) *Server {
	return &Server{
		Queue:        q,
		Log:          log,
		ReplyTimeout: DefaultReplyTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.warnf("control: upgrade: %v", err)
		return
	}
	s.track(conn, true)
	defer func() {
		s.track(conn, false)
		conn.Close()
	}()
	s.debugf("control: client %s connected, %d open", conn.RemoteAddr(), s.Clients())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.warnf("control: read: %v", err)
			}
			return
		}
		reply := s.handle(r.Context(), data)
		if err := conn.WriteJSON(reply); err != nil {
			s.warnf("control: write: %v", err)
			return
		}
	}
}

func (s *Server) handle(ctx context.Context, data []byte) Reply {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Fail(fmt.Errorf("malformed command: %w", err))
	}
	if cmd.Cmd == "" {
		return Fail(errors.New("missing cmd"))
	}
	ctx, cancel := context.WithTimeout(ctx, s.ReplyTimeout)
	defer cancel()
	reply, err := s.Queue.Submit(ctx, cmd)
	if err != nil {
		return Fail(err)
	}
	return reply
}

// ListenAndServe serves on addr until ctx is done or Close is called.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("control listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/ws", s)

	s.mu.Lock()
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	srv := s.srv
	s.mu.Unlock()

	s.infof("control: listening on ws://%s/ws", ln.Addr())
	go func() {
		<-ctx.Done()
		s.Close()
	}()
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the listener and drops every client.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()
	if srv != nil {
		return srv.Close()
	}
	return nil
}

// Clients is the number of open websocket connections.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) track(c *websocket.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[c] = struct{}{}
	} else {
		delete(s.conns, c)
	}
}

func (s *Server) infof(format string, args ...any) {
	if s.Log != nil {
		s.Log.Infof(format, args...)
	}
}

func (s *Server) warnf(format string, args ...any) {
	if s.Log != nil {
		s.Log.Warnf(format, args...)
	}
}

func (s *Server) debugf(format string, args ...any) {
	if s.Log != nil {
		s.Log.Debugf(format, args...)
	}
}
