package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"musicbot/internal/bot"
	"musicbot/internal/config"
	"musicbot/internal/storage"
	"musicbot/internal/version"
	"musicbot/internal/web"
)

func main() {
	log.Printf("[INFO] Starting %v v%v...", version.AppName, version.AppVersion)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal("[ERR] Configuration error: ", err)
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal("[ERR] Storage error: ", err)
	}
	defer store.Close()

	b, err := bot.New(cfg, store, cancel)
	if err != nil {
		log.Fatal("[ERR] Bot setup error: ", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := b.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	if cfg.StatusAddr != "" {
		srv := web.New(cfg.StatusAddr, b.Sessions())
		go func() {
			log.Printf("[INFO] Status server listening on %s", cfg.StatusAddr)
			if err := srv.Run(ctx); err != nil {
				log.Println("[ERR] Status server error:", err)
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
