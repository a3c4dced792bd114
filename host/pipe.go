package host

import (
	"io"
	"sync"
)

// Pipe returns two connected in-process Connections. Messages are encoded
// on send and decoded on receive, so the peers never share memory.
func Pipe() (Connection, Connection) {
	a, b := make(chan []byte, 16), make(chan []byte, 16)
	done := make(chan struct{})
	var once sync.Once
	closeBoth := func() error {
		once.Do(func() { close(done) })
		return nil
	}
	return pipeEnd(b, a, done, closeBoth), pipeEnd(a, b, done, closeBoth)
}

func pipeEnd(in <-chan []byte, out chan<- []byte, done <-chan struct{}, closeFn func() error) Connection {
	read := func() ([]byte, error) {
		select {
		case data := <-in:
			return data, nil
		case <-done:
			return nil, io.EOF
		}
	}
	write := func(data []byte) error {
		select {
		case out <- data:
			return nil
		case <-done:
			return ErrConnectionClosed
		}
	}
	return newFramedConnection(nil, read, write, closeFn)
}
