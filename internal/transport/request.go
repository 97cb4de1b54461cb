// Package transport wires session.Server onto the wire: a request
// listener speaking newline-delimited JSON request/reply (each TCP
// connection is its own identity, the Go-idiomatic analogue of the
// dealer/router identity-framing pattern named in §9 design notes),
// and a publish listener broadcasting state snapshots to every
// subscriber. Both are plain net.Listener loops, grounded on the
// teacher's goroutine-per-connection and rate-limiting habits
// (globals.go, utils.go) rather than on net/http, since the spec
// calls for two raw TCP endpoints rather than a REST surface.
package transport

import (
	"bufio"
	"encoding/json"
	"log"
	"net"
	"sync"

	"golang.org/x/time/rate"

	"koth/internal/protocol"
	"koth/internal/session"
)

// RequestServer accepts one connection per client and answers each
// newline-delimited JSON request with a newline-delimited JSON reply,
// serializing all requests through the wrapped session.Server.
type RequestServer struct {
	Addr   string
	Server *session.Server

	InfoLog  *log.Logger
	ErrorLog *log.Logger

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
}

// NewRequestServer constructs a RequestServer bound to addr.
func NewRequestServer(addr string, srv *session.Server, infoLog, errorLog *log.Logger) *RequestServer {
	return &RequestServer{
		Addr:     addr,
		Server:   srv,
		InfoLog:  infoLog,
		ErrorLog: errorLog,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (r *RequestServer) limiterFor(ip string) *rate.Limiter {
	r.limiterMu.Lock()
	defer r.limiterMu.Unlock()
	l, ok := r.limiters[ip]
	if !ok {
		l = rate.NewLimiter(20, 40)
		r.limiters[ip] = l
	}
	return l
}

// ListenAndServe blocks accepting connections until the listener
// errors (typically on process shutdown). Each connection is handled
// by its own goroutine and holds its own request/reply loop.
func (r *RequestServer) ListenAndServe() error {
	ln, err := net.Listen("tcp", r.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()
	r.InfoLog.Printf("request port listening on %s", r.Addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go r.handleConn(conn)
	}
}

func (r *RequestServer) handleConn(conn net.Conn) {
	defer conn.Close()

	host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
	limiter := r.limiterFor(host)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	enc := json.NewEncoder(conn)

	for scanner.Scan() {
		if !limiter.Allow() {
			enc.Encode(protocol.Envelope{
				APIVersion: protocol.APIVersion,
				Error:      protocol.NewError(protocol.UnknownContext, "rate limit exceeded"),
			})
			continue
		}

		var req protocol.Envelope
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			enc.Encode(protocol.Envelope{
				APIVersion: protocol.APIVersion,
				Error:      protocol.NewError(protocol.UnknownContext, "malformed envelope: %s", err),
			})
			continue
		}

		resp := r.Server.HandleRequest(req)
		if err := enc.Encode(resp); err != nil {
			r.ErrorLog.Printf("write reply to %s: %s", conn.RemoteAddr(), err)
			return
		}
	}
}
