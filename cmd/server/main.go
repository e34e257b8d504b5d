// server serves the ability arena over SSH. Every connection gets its own
// world and runs independently. Build:
//
//	go build -o abilities-server ./cmd/server
//
// Usage:
//
//	./abilities-server [--port 2222] [--key server_host_key]
//
// Connect with:
//
//	ssh -t -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"

	"gameplay-abilities/internal/config"
	"gameplay-abilities/internal/game"
	"gameplay-abilities/internal/logging"
	internalssh "gameplay-abilities/internal/ssh"
)

func main() {
	port := flag.Int("port", 2222, "SSH server port")
	keyFile := flag.String("key", "server_host_key", "Path to the PEM-encoded host key (generated if absent)")
	flag.Parse()

	if err := run(*port, *keyFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(port int, keyFile string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	signer, err := loadOrCreateHostKey(keyFile, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &gossh.Server{
		Addr: fmt.Sprintf(":%d", port),
		Handler: func(s gossh.Session) {
			serveSession(s, cfg, logger)
		},
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// No authentication: anyone who can reach the port may play.
		HostSigners: []gossh.Signer{signer},
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("ssh shutdown", "error", err)
		}
	}()

	logger.Info("ssh server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		return fmt.Errorf("serve ssh: %w", err)
	}
	return nil
}

// serveSession runs one arena for the connection. It blocks until the player
// quits or the connection drops.
func serveSession(s gossh.Session, cfg config.Config, logger *slog.Logger) {
	log := logger.With("remote", s.RemoteAddr().String(), "user", s.User())

	screen, err := internalssh.NewScreen(s)
	if errors.Is(err, internalssh.ErrNoPTY) {
		fmt.Fprintln(s, "The arena needs a terminal. Connect with: ssh -t -p <port> <host>")
		return
	}
	if err != nil {
		log.Warn("open session screen", "error", err)
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}

	g, err := game.NewOnScreen(screen, cfg, log)
	if err != nil {
		screen.Fini()
		log.Error("start arena", "error", err)
		return
	}
	log.Info("session started")
	g.Run(s.Context())
}

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string, logger *slog.Logger) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			logger.Info("loaded host key", "path", path)
			return signer, nil
		}
	}

	logger.Info("generating ed25519 host key", "path", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	// Persisting is best effort; the server still runs with an ephemeral key.
	if block, err := xssh.MarshalPrivateKey(key, "gameplay-abilities server"); err == nil {
		if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
			logger.Warn("save host key", "path", path, "error", err)
		}
	}
	return signer, nil
}
