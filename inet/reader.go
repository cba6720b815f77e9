package inet

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"gopkg.in/inconshreveable/log15.v2"
)

// LineHandler receives each line read off the wire, in arrival order,
// stripped of its CR/LF terminator. It is invoked synchronously from the
// read loop, so a slow handler applies backpressure to the stream.
type LineHandler func(line string)

// Reader owns the read side of a connection. It runs a blocking read loop
// on its own goroutine and hands every line to a single handler, FIFO with
// respect to arrival on the wire.
//
// Cancellation is cooperative: Stop prevents the next blocking read from
// starting, but an in-flight read is only unblocked by the owner closing
// the underlying transport. Termination is reported exactly once through
// the done callback, and no line is delivered after it fires.
type Reader struct {
	in      *bufio.Reader
	handler LineHandler
	onDone  func(err error)
	logger  log15.Logger

	stopped int32
	done    sync.Once
}

// NewReader wraps the transport's read side. Neither handler nor onDone may
// be nil.
func NewReader(r io.Reader, handler LineHandler, onDone func(error), logger log15.Logger) *Reader {
	return &Reader{
		in:      bufio.NewReader(r),
		handler: handler,
		onDone:  onDone,
		logger:  logger,
	}
}

// Start launches the read loop goroutine.
func (r *Reader) Start() {
	go r.loop()
}

// Stop requests cooperative termination. The current blocking read, if any,
// keeps blocking until the transport is closed.
func (r *Reader) Stop() {
	atomic.StoreInt32(&r.stopped, 1)
}

func (r *Reader) loop() {
	for atomic.LoadInt32(&r.stopped) == 0 {
		line, err := r.in.ReadString('\n')
		if err != nil {
			r.finish(err)
			return
		}
		line = strings.TrimRight(line, "\r\n")
		r.logger.Debug("<-", "line", line)
		r.handler(line)
	}
	r.finish(nil)
}

func (r *Reader) finish(err error) {
	r.done.Do(func() {
		if err != nil && err != io.EOF {
			r.logger.Debug("read loop ended", "err", err)
		}
		r.onDone(err)
	})
}
