// Command armgen-serve runs armgen's HTTP+WebSocket build service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nervapy-go/armgen/buildsvc"
	"github.com/nervapy-go/armgen/config"
)

// Version information, set at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		port        = flag.Int("port", 0, "listen port (default: from config, or 8088)")
		maxSessions = flag.Int("max-sessions", 0, "maximum concurrent build sessions (default: from config)")
		configPath  = flag.String("config", "", "config file path (default: platform config dir)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("armgen-serve %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("built: %s\n", Date)
		}
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "armgen-serve: %v\n", err)
		os.Exit(1)
	}

	listenPort := *port
	if listenPort == 0 {
		listenPort = parsePort(cfg.Service.ListenAddr, 8088)
	}
	sessions := *maxSessions
	if sessions == 0 {
		sessions = cfg.Service.MaxSessions
	}

	server := buildsvc.NewServer(listenPort, sessions)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	shutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("shutting down armgen-serve...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "error during shutdown: %v\n", err)
			}
		})
	}

	go func() {
		<-sigChan
		shutdown()
		os.Exit(0)
	}()

	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "armgen-serve: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// parsePort extracts the numeric port from a ":8088"-style listen address,
// falling back to def on any parse failure.
func parsePort(addr string, def int) int {
	n := 0
	start := -1
	for i, c := range addr {
		if c == ':' {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(addr) {
		return def
	}
	for _, c := range addr[start:] {
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return def
	}
	return n
}
