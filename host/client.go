package host

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jonwraymond/gridrun/code"

	"github.com/jonwraymond/gridrun/level"
	"github.com/jonwraymond/gridrun/trace"
)

// Client is the host side of the boundary.
type Client struct {
	conn   Connection
	logger code.Logger

	requestID atomic.Uint64
	pending   sync.Map // map[string]chan Message

	readyOnce sync.Once
	ready     chan struct{}
	failOnce  sync.Once
	failed    chan struct{}
	bootMu    sync.Mutex
	bootErr   error

	done    chan struct{}
	readErr error
}

// NewClient starts reading from conn. logger may be nil.
func NewClient(conn Connection, logger code.Logger) *Client {
	if logger == nil {
		logger = nopLogger{}
	}
	c := &Client{
		conn:   conn,
		logger: logger,
		ready:  make(chan struct{}),
		failed: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// WaitReady blocks until the execution context reports READY. It returns
// the boot error if the context reported ERROR instead.
func (c *Client) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	default:
	}
	select {
	case <-c.ready:
		return nil
	case <-c.failed:
		return c.failure()
	case <-c.done:
		return c.failure()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) failure() error {
	c.bootMu.Lock()
	defer c.bootMu.Unlock()
	if c.bootErr != nil {
		return c.bootErr
	}
	if c.readErr != nil {
		return c.readErr
	}
	return ErrConnectionClosed
}

// Run sends RUN_CODE and waits for its reply. Script failures come back as
// a trace ending in an error frame, not as an error.
func (c *Client) Run(ctx context.Context, src string, lvl level.Config, objects []level.GameObject) (trace.Trace, error) {
	id := fmt.Sprintf("%d", c.requestID.Add(1))

	respCh := make(chan Message, 1)
	c.pending.Store(id, respCh)
	defer c.pending.Delete(id)

	err := c.conn.Send(ctx, Message{
		Type:    MsgRunCode,
		ID:      id,
		Code:    src,
		Context: &RunContext{Level: lvl, InitialObjects: objects},
	})
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, c.failure()
	case resp := <-respCh:
		if resp.Type == MsgError {
			errMsg := resp.Error
			if errMsg == "" {
				errMsg = "unknown error"
			}
			return nil, &RemoteError{Message: errMsg}
		}
		if resp.Type != MsgSuccess {
			return nil, fmt.Errorf("%w: unexpected reply %q", ErrProtocol, resp.Type)
		}
		return resp.Trace, nil
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		msg, err := c.conn.Receive(context.Background())
		if err != nil {
			if isFinal(err) {
				c.bootMu.Lock()
				c.readErr = err
				c.bootMu.Unlock()
				return
			}
			c.logger.Warn("malformed reply", "err", err)
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg Message) {
	if msg.ID == "" {
		switch msg.Type {
		case MsgReady:
			c.readyOnce.Do(func() { close(c.ready) })
		case MsgError:
			if c.isReady() || strings.HasPrefix(msg.Error, ErrProtocol.Error()) {
				c.logger.Warn("worker error", "error", msg.Error)
				return
			}
			c.bootMu.Lock()
			c.bootErr = fmt.Errorf("%w: %s", ErrNotReady, msg.Error)
			c.bootMu.Unlock()
			c.failOnce.Do(func() { close(c.failed) })
		default:
			c.logger.Warn("unexpected message", "type", msg.Type)
		}
		return
	}
	if err := c.deliver(msg); err != nil {
		c.logger.Warn("undeliverable reply", "err", err)
	}
}

func (c *Client) isReady() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

// deliver hands a reply to its pending request.
func (c *Client) deliver(msg Message) error {
	ch, ok := c.pending.Load(msg.ID)
	if !ok {
		return fmt.Errorf("%w: no pending request for ID %s", ErrProtocol, msg.ID)
	}
	select {
	case ch.(chan Message) <- msg:
		return nil
	default:
		return fmt.Errorf("%w: response channel full for ID %s", ErrProtocol, msg.ID)
	}
}
