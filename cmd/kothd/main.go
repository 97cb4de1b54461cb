// Command kothd runs one King of the Hill two-player session server:
// a request port and a publish port over one engine instance.
package main

import (
	"log"
	"os"
	"strconv"

	"koth/internal/koth"
	"koth/internal/session"
	"koth/internal/transport"
)

var (
	InfoLog  = log.New(os.Stdout, "INFO  ", log.LstdFlags)
	ErrorLog = log.New(os.Stderr, "ERROR ", log.LstdFlags)
)

// config mirrors the teacher's initConfig()/Config global pattern:
// defaults overridable by environment variables, read once at startup.
type config struct {
	requestAddr string
	publishAddr string
	maxTurns    int
	seed        int64
}

func loadConfig() config {
	c := config{
		requestAddr: "0.0.0.0:5555",
		publishAddr: "0.0.0.0:5556",
		maxTurns:    100,
	}
	if v := os.Getenv("KOTH_REQUEST_ADDR"); v != "" {
		c.requestAddr = v
	}
	if v := os.Getenv("KOTH_PUBLISH_ADDR"); v != "" {
		c.publishAddr = v
	}
	if v := os.Getenv("KOTH_MAX_TURNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.maxTurns = n
		}
	}
	if v := os.Getenv("KOTH_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.seed = n
		}
	}
	return c
}

func main() {
	cfg := loadConfig()

	gameCfg := koth.DefaultConfig()
	gameCfg.MaxTurns = cfg.maxTurns

	srv, err := session.NewServer(gameCfg, cfg.seed, InfoLog, ErrorLog)
	if err != nil {
		ErrorLog.Fatalf("failed to construct session server: %s", err)
	}

	publisher := transport.NewPublisher(cfg.publishAddr, InfoLog, ErrorLog)
	srv.Publish = publisher.Publish

	requestServer := transport.NewRequestServer(cfg.requestAddr, srv, InfoLog, ErrorLog)

	go func() {
		if err := publisher.ListenAndServe(); err != nil {
			ErrorLog.Fatalf("publish listener: %s", err)
		}
	}()

	InfoLog.Printf("koth session server starting: request=%s publish=%s gameID=%s", cfg.requestAddr, cfg.publishAddr, srv.GameID)
	if err := requestServer.ListenAndServe(); err != nil {
		ErrorLog.Fatalf("request listener: %s", err)
	}
}
