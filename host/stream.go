package host

import (
	"bufio"
	"bytes"
	"io"
)

// maxLineSize bounds one newline-delimited message.
const maxLineSize = 16 << 20

// NewStreamConnection speaks newline-delimited JSON over r and w, as used
// over a subprocess's stdio. closer, if non-nil, is called on Close.
func NewStreamConnection(r io.Reader, w io.Writer, closer io.Closer) Connection {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	read := func() ([]byte, error) {
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			return append([]byte(nil), line...), nil
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	write := func(data []byte) error {
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
		if f, ok := w.(interface{ Flush() error }); ok {
			return f.Flush()
		}
		return nil
	}
	var closeFn func() error
	if closer != nil {
		closeFn = closer.Close
	}
	return newFramedConnection(nil, read, write, closeFn)
}
