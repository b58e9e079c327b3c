// Package transport sends command datagrams to Broadlink-family devices and
// collects their replies. Each exchange owns its socket exclusively for its
// lifetime: the socket is bound, the message sent, replies gathered under a
// timeout, and the socket released on every exit path. No state is shared
// between concurrent exchanges.
//
// Exchanges take a context. Blocking callers pass context.Background() and
// rely on the Options timeout; cooperative callers pass their own context,
// whose cancellation unblocks a pending receive. Both paths run the same
// code, so the two execution modes cannot drift apart.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/pion/logging"
)

// DefaultTimeout is the per-receive timeout used when Options does not set
// one.
const DefaultTimeout = 10 * time.Second

// receiveBufferSize is sized well above the largest envelope a device sends.
const receiveBufferSize = 8192

// Interpreter converts one received datagram into the caller's result type.
// It is expected to apply the codec's unpack contract; each datagram is
// judged independently.
type Interpreter[T any] func(data []byte, from net.Addr) (T, error)

// Builder produces the outbound datagram once the local socket is bound. Use
// it when the message must advertise the bound address, as broadcast
// discovery does.
type Builder func(local net.Addr) ([]byte, error)

// Options configures a single exchange. The zero value selects an ephemeral
// local port, DefaultTimeout and real UDP sockets.
type Options struct {
	// LocalPort is the local port to bind; zero selects an ephemeral port.
	LocalPort uint16

	// Timeout bounds each receive wait. Zero selects DefaultTimeout.
	Timeout time.Duration

	// Factory creates the packet socket. Nil selects NetFactory.
	Factory Factory

	// LoggerFactory is the factory for creating loggers. If nil, logging is
	// disabled.
	LoggerFactory logging.LoggerFactory
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

func (o Options) factoryOrDefault() Factory {
	if o.Factory != nil {
		return o.Factory
	}
	return NetFactory{}
}

func (o Options) logger() logging.LeveledLogger {
	if o.LoggerFactory == nil {
		return nil
	}
	return o.LoggerFactory.NewLogger("transport-udp")
}

// ExchangeOne sends msg to dst and hands the first reply to interpret,
// returning its result. It fails with ErrNoResponse if the timeout elapses
// with no reply; an interpreter failure is the exchange's result.
func ExchangeOne[T any](ctx context.Context, opts Options, msg []byte, dst net.Addr, interpret Interpreter[T]) (T, error) {
	return ExchangeOneFunc(ctx, opts, staticMessage(msg), dst, interpret)
}

// ExchangeOneFunc is ExchangeOne with the outbound datagram built after the
// socket is bound.
func ExchangeOneFunc[T any](ctx context.Context, opts Options, build Builder, dst net.Addr, interpret Interpreter[T]) (T, error) {
	var zero T

	conn, log, err := open(opts)
	if err != nil {
		return zero, err
	}
	defer conn.Close()

	stop := watchContext(ctx, conn)
	defer stop()

	if err := send(conn, build, dst, log); err != nil {
		return zero, err
	}

	buf := make([]byte, receiveBufferSize)
	conn.SetReadDeadline(time.Now().Add(opts.timeout()))

	n, from, err := conn.ReadFrom(buf)
	if err != nil {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if isTimeout(err) {
			return zero, ErrNoResponse
		}
		return zero, err
	}

	if log != nil {
		log.Debugf("received %d bytes from %v", n, from)
	}

	data := make([]byte, n)
	copy(data, buf[:n])
	return interpret(data, from)
}

// ExchangeAll sends msg to dst and hands every reply received before the
// timeout to interpret, accumulating the results in receipt order.
//
// A receive timeout ends collection normally: a partial or empty result set
// is a success, since broadcast discovery expects however many devices are
// present. A reply the interpreter rejects is logged and skipped. A genuine
// socket error is returned together with the results gathered so far.
func ExchangeAll[T any](ctx context.Context, opts Options, msg []byte, dst net.Addr, interpret Interpreter[T]) ([]T, error) {
	return ExchangeAllFunc(ctx, opts, staticMessage(msg), dst, interpret)
}

// ExchangeAllFunc is ExchangeAll with the outbound datagram built after the
// socket is bound.
func ExchangeAllFunc[T any](ctx context.Context, opts Options, build Builder, dst net.Addr, interpret Interpreter[T]) ([]T, error) {
	conn, log, err := open(opts)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	stop := watchContext(ctx, conn)
	defer stop()

	if err := send(conn, build, dst, log); err != nil {
		return nil, err
	}

	var results []T
	buf := make([]byte, receiveBufferSize)

	for {
		conn.SetReadDeadline(time.Now().Add(opts.timeout()))

		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			if isTimeout(err) {
				return results, nil
			}
			if log != nil {
				log.Warnf("receive failed after %d replies: %v", len(results), err)
			}
			return results, err
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		result, err := interpret(data, from)
		if err != nil {
			if log != nil {
				log.Debugf("discarding reply from %v: %v", from, err)
			}
			continue
		}
		results = append(results, result)
	}
}

func staticMessage(msg []byte) Builder {
	return func(net.Addr) ([]byte, error) {
		return msg, nil
	}
}

func open(opts Options) (net.PacketConn, logging.LeveledLogger, error) {
	log := opts.logger()

	conn, err := opts.factoryOrDefault().PacketConn(opts.LocalPort)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}

	if log != nil {
		log.Debugf("bound %v", conn.LocalAddr())
	}
	return conn, log, nil
}

func send(conn net.PacketConn, build Builder, dst net.Addr, log logging.LeveledLogger) error {
	if dst == nil {
		return ErrInvalidAddress
	}

	msg, err := build(conn.LocalAddr())
	if err != nil {
		return err
	}

	if log != nil {
		log.Debugf("sending %d bytes to %v", len(msg), dst)
	}

	if _, err := conn.WriteTo(msg, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	return nil
}

// watchContext unblocks a pending read when ctx is cancelled by moving the
// read deadline into the past. The returned stop func releases the watcher.
func watchContext(ctx context.Context, conn net.PacketConn) func() {
	if ctx.Done() == nil {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()
	return func() { close(done) }
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
