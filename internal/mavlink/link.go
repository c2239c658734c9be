package mavlink

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/aerolith-io/groundwatch/internal/lib/logger/sl"
)

// receiveQueueSize bounds the decoded-message queue between the socket
// reader and the dispatch loop. When the dispatcher falls behind, the
// newest datagrams are dropped rather than blocking the socket.
const receiveQueueSize = 256

const reopenBackoff = time.Second

type result struct {
	msg Message
	err error
}

// Link owns the UDP socket and the reader goroutine that turns
// datagrams into decoded messages. Socket errors are handled inside the
// link: the listener is reopened with backoff, and the consumer simply
// observes "no data" in the meantime.
type Link struct {
	log     *slog.Logger
	address string

	mu   sync.Mutex
	conn *net.UDPConn

	results chan result
	done    chan struct{}
	closed  sync.Once
	wg      sync.WaitGroup
}

// Listen opens the UDP listener and starts receiving.
func Listen(log *slog.Logger, address string) (*Link, error) {
	conn, err := listenUDP(address)
	if err != nil {
		return nil, err
	}

	l := &Link{
		log:     log,
		address: address,
		conn:    conn,
		results: make(chan result, receiveQueueSize),
		done:    make(chan struct{}),
	}

	l.wg.Add(1)
	go l.readLoop()

	return l, nil
}

func listenUDP(address string) (*net.UDPConn, error) {
	addr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve link address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	return conn, nil
}

// LocalAddr reports the bound socket address.
func (l *Link) LocalAddr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.LocalAddr()
}

// TryReceive returns the next decoded message without blocking.
// (nil, nil) means no data is pending; a non-nil error is a decode
// failure for one received frame.
func (l *Link) TryReceive() (Message, error) {
	select {
	case r := <-l.results:
		return r.msg, r.err
	default:
		return nil, nil
	}
}

// WaitForHeartbeat blocks until the first heartbeat arrives. Other
// messages and decode failures received in the meantime are discarded.
// Cancellation (or a deadline) on ctx aborts the wait.
func (l *Link) WaitForHeartbeat(ctx context.Context) (*Heartbeat, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for heartbeat: %w", ctx.Err())
		case <-l.done:
			return nil, fmt.Errorf("waiting for heartbeat: link closed")
		case r := <-l.results:
			if r.err != nil {
				continue
			}
			if hb, ok := r.msg.(*Heartbeat); ok {
				return hb, nil
			}
		}
	}
}

// Close stops the reader goroutine and releases the socket.
func (l *Link) Close() error {
	l.closed.Do(func() {
		close(l.done)
		l.mu.Lock()
		l.conn.Close()
		l.mu.Unlock()
	})
	l.wg.Wait()
	return nil
}

func (l *Link) readLoop() {
	defer l.wg.Done()

	buf := make([]byte, maxDatagramSize)
	for {
		l.mu.Lock()
		conn := l.conn
		l.mu.Unlock()

		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-l.done:
				return
			default:
			}

			l.log.Warn("link read failed, reopening socket", sl.Err(err))
			if !l.reopen() {
				return
			}
			continue
		}

		l.deliver(buf[:n])
	}
}

// deliver parses every frame in one datagram. A parse failure abandons
// the rest of the datagram since frame boundaries are lost.
func (l *Link) deliver(data []byte) {
	for len(data) > 0 {
		frame, n, err := parseFrame(data)
		if err != nil {
			l.push(result{err: err})
			return
		}
		data = data[n:]
		l.push(result{msg: frame.Message()})
	}
}

func (l *Link) push(r result) {
	select {
	case l.results <- r:
	default:
		l.log.Debug("receive queue full, dropping message")
	}
}

// reopen replaces the socket after a read error. Returns false when the
// link was closed while retrying.
func (l *Link) reopen() bool {
	l.mu.Lock()
	l.conn.Close()
	l.mu.Unlock()

	for {
		select {
		case <-l.done:
			return false
		default:
		}

		conn, err := listenUDP(l.address)
		if err == nil {
			l.mu.Lock()
			l.conn = conn
			l.mu.Unlock()
			l.log.Info("link socket reopened", slog.String("address", l.address))
			return true
		}

		l.log.Error("failed to reopen link socket", sl.Err(err))

		select {
		case <-l.done:
			return false
		case <-time.After(reopenBackoff):
		}
	}
}
