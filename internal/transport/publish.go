package transport

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"log"
	"net"
	"sync"

	"github.com/pierrec/lz4/v4"

	"koth/internal/protocol"
)

// compressionThreshold is the encoded-envelope size above which a
// publish frame is LZ4-compressed before being sent, mirroring the
// teacher's federation wire-compression habit (utils.go
// compressLZ4/decompressLZ4) applied here to state snapshots (§B, §D.5).
const compressionThreshold = 4096

const (
	frameRaw byte = 0
	frameLZ4 byte = 1
)

// Publisher fans one published envelope out to every currently
// connected subscriber. Frames are written to subscribers one after
// another while holding the publisher's lock, with no write deadline:
// a subscriber whose write fails (e.g. it disconnected) is dropped, but
// a subscriber that stops reading blocks the publish to the others.
type Publisher struct {
	Addr string

	InfoLog  *log.Logger
	ErrorLog *log.Logger

	mu          sync.Mutex
	subscribers map[net.Conn]bool
}

// NewPublisher constructs a Publisher bound to addr.
func NewPublisher(addr string, infoLog, errorLog *log.Logger) *Publisher {
	return &Publisher{
		Addr:        addr,
		InfoLog:     infoLog,
		ErrorLog:    errorLog,
		subscribers: make(map[net.Conn]bool),
	}
}

// ListenAndServe accepts subscriber connections until the listener
// errors. Subscribers never send anything; the connection is kept
// open only to receive broadcast frames.
func (p *Publisher) ListenAndServe() error {
	ln, err := net.Listen("tcp", p.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()
	p.InfoLog.Printf("publish port listening on %s", p.Addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		p.mu.Lock()
		p.subscribers[conn] = true
		p.mu.Unlock()
	}
}

// Publish encodes env and fans it out to every connected subscriber,
// compressing the payload above compressionThreshold.
func (p *Publisher) Publish(env protocol.Envelope) {
	raw, err := json.Marshal(env)
	if err != nil {
		p.ErrorLog.Printf("marshal publish envelope: %s", err)
		return
	}

	frame, flag := raw, frameRaw
	if len(raw) > compressionThreshold {
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(raw); err == nil && w.Close() == nil {
			frame, flag = buf.Bytes(), frameLZ4
		}
	}

	header := make([]byte, 5)
	header[0] = flag
	binary.BigEndian.PutUint32(header[1:], uint32(len(frame)))

	p.mu.Lock()
	defer p.mu.Unlock()
	for conn := range p.subscribers {
		if _, err := conn.Write(header); err != nil {
			delete(p.subscribers, conn)
			conn.Close()
			continue
		}
		if _, err := conn.Write(frame); err != nil {
			delete(p.subscribers, conn)
			conn.Close()
		}
	}
}
