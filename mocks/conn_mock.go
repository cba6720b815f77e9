/*
Package mocks provides a scriptable net.Conn for driving the connection
engine in tests without a real socket.
*/
package mocks

import (
	"io"
	"net"
	"sync"
	"time"
)

const (
	panicMsg = "This function is not properly mocked."
)

type ioReturn struct {
	n   int
	err error
}

// Conn is a mock net.Conn. Reads and writes block until the test drives
// them with Send and Receive. Close unblocks any pending Read with io.EOF,
// the way closing a real socket unblocks a blocked read.
type Conn struct {
	writechan   chan []byte
	writereturn chan ioReturn
	readchan    chan []byte
	readreturn  chan ioReturn

	closing     chan struct{}
	closeOnce   sync.Once
	deathWaiter sync.WaitGroup
}

// NewConn creates an open mock connection.
func NewConn() *Conn {
	conn := &Conn{
		writechan:   make(chan []byte),
		writereturn: make(chan ioReturn),
		readchan:    make(chan []byte),
		readreturn:  make(chan ioReturn),
		closing:     make(chan struct{}),
	}

	conn.deathWaiter.Add(1)
	return conn
}

// Receive blocks until the client writes, scripts the write's return values,
// and hands back what was written. A negative n means "report the full
// length written". Returns nil once the connection is closed.
func (m *Conn) Receive(n int, err error) []byte {
	select {
	case read := <-m.writechan:
		if n < 0 {
			n = len(read)
		}
		// Copy before unblocking the writer: the slice may alias a
		// bufio.Writer's internal buffer, which the client reuses for
		// its next write as soon as Write returns.
		buf := make([]byte, len(read))
		copy(buf, read)
		m.writereturn <- ioReturn{n, err}
		return buf
	case <-m.closing:
		return nil
	}
}

func (m *Conn) Write(buffer []byte) (int, error) {
	select {
	case m.writechan <- buffer:
		ret := <-m.writereturn
		return ret.n, ret.err
	case <-m.closing:
		return 0, io.ErrClosedPipe
	}
}

// Send blocks until the client reads, handing it buffer and scripting the
// read's return values.
func (m *Conn) Send(buffer []byte, n int, err error) {
	select {
	case m.readchan <- buffer:
		m.readreturn <- ioReturn{n, err}
	case <-m.closing:
	}
}

// SendLine feeds one CRLF-terminated line to the client.
func (m *Conn) SendLine(line string) {
	buf := []byte(line + "\r\n")
	m.Send(buf, len(buf), nil)
}

func (m *Conn) Read(buffer []byte) (int, error) {
	select {
	case read := <-m.readchan:
		copy(buffer, read)
		ret := <-m.readreturn
		return ret.n, ret.err
	case <-m.closing:
		return 0, io.EOF
	}
}

// WaitForDeath blocks until the connection has been closed.
func (m *Conn) WaitForDeath() {
	m.deathWaiter.Wait()
}

func (m *Conn) Close() error {
	m.closeOnce.Do(func() {
		close(m.closing)
		m.deathWaiter.Done()
	})
	return nil
}

func (m *Conn) LocalAddr() net.Addr {
	panic(panicMsg)
}

func (m *Conn) RemoteAddr() net.Addr {
	panic(panicMsg)
}

func (m *Conn) SetDeadline(_ time.Time) error {
	panic(panicMsg)
}

func (m *Conn) SetReadDeadline(_ time.Time) error {
	panic(panicMsg)
}

func (m *Conn) SetWriteDeadline(_ time.Time) error {
	panic(panicMsg)
}
