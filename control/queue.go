// Package control exposes the viewer's UI operations over a websocket. Commands are
// queued and executed on the tick thread, which answers each one with a Reply.
package control

import (
	"context"
	"errors"
)

var ErrQueueFull = errors.New("control: command queue full")

type Command struct {
	Cmd     string  `json:"cmd"`
	Name    string  `json:"name,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
	Key     string  `json:"key,omitempty"`
	Value   float64 `json:"value,omitempty"`
}

type Reply struct {
	OK    bool     `json:"ok"`
	Error string   `json:"error,omitempty"`
	Clips []string `json:"clips,omitempty"`
	State string   `json:"state,omitempty"`
}

func Fail(err error) Reply {
	return Reply{Error: err.Error()}
}

type request struct {
	cmd   Command
	reply chan Reply
}

// Queue hands commands from any goroutine to the single goroutine that calls Drain.
type Queue struct {
	ch chan request
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{ch: make(chan request, size)}
}

// Submit enqueues cmd and waits for its reply. It fails fast when the queue is full and
// gives up when ctx is done; a command abandoned that way may still run later.
func (q *Queue) Submit(ctx context.Context, cmd Command) (Reply, error) {
	req := request{cmd: cmd, reply: make(chan Reply, 1)}
	select {
	case q.ch <- req:
	default:
		return Reply{}, ErrQueueFull
	}
	select {
	case r := <-req.reply:
		return r, nil
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}

// Drain runs handle for every queued command without blocking and returns how many ran.
func (q *Queue) Drain(handle func(Command) Reply) int {
	n := 0
	for {
		select {
		case req := <-q.ch:
			req.reply <- handle(req.cmd)
			n++
		default:
			return n
		}
	}
}

func (q *Queue) Len() int { return len(q.ch) }
