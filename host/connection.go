package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Connection carries messages in both directions.
//
// Contract:
// - Concurrency: Send and Receive may be called from different goroutines;
// Send is safe for concurrent use.
// - Context: Send and Receive honor cancellation.
// - Errors: a Receive error matching ErrProtocol concerns one malformed
// message and the connection stays usable; any other error is final.
type Connection interface {
	Send(ctx context.Context, msg Message) error
	Receive(ctx context.Context) (Message, error)
	Close() error
}

// frame is one encoded message or a read error.
type frame struct {
	data []byte
	err  error
}

// framedConnection adapts a frame reader and writer to Connection.
type framedConnection struct {
	codec Codec
	write func(data []byte) error
	close func() error

	frames chan frame
	done   chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// newFramedConnection starts a goroutine that calls read until it fails.
func newFramedConnection(codec Codec, read func() ([]byte, error), write func([]byte) error, closeFn func() error) *framedConnection {
	if codec == nil {
		codec = JSONCodec()
	}
	c := &framedConnection{
		codec:  codec,
		write:  write,
		close:  closeFn,
		frames: make(chan frame),
		done:   make(chan struct{}),
	}
	go c.readLoop(read)
	return c
}

func (c *framedConnection) readLoop(read func() ([]byte, error)) {
	for {
		data, err := read()
		if err != nil {
			select {
			case c.frames <- frame{err: fmt.Errorf("%w: %w", ErrConnectionClosed, err)}:
			case <-c.done:
			}
			close(c.frames)
			return
		}
		select {
		case c.frames <- frame{data: data}:
		case <-c.done:
			return
		}
	}
}

func (c *framedConnection) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}
	data, err := c.codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrProtocol, err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.write(data)
}

func (c *framedConnection) Receive(ctx context.Context) (Message, error) {
	select {
	case <-ctx.Done():
		return Message{}, ctx.Err()
	case <-c.done:
		return Message{}, ErrConnectionClosed
	case f, ok := <-c.frames:
		if !ok {
			return Message{}, ErrConnectionClosed
		}
		if f.err != nil {
			return Message{}, f.err
		}
		return c.codec.Decode(f.data)
	}
}

func (c *framedConnection) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.close != nil {
			c.closeErr = c.close()
		}
	})
	return c.closeErr
}

// isFinal reports whether a Receive error ends the connection.
func isFinal(err error) bool {
	return !errors.Is(err, ErrProtocol)
}
