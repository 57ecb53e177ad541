package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sami992010/ProBTC/internal/admin"
	"github.com/sami992010/ProBTC/internal/auth"
	"github.com/sami992010/ProBTC/internal/config"
	"github.com/sami992010/ProBTC/internal/httpserver"
	"github.com/sami992010/ProBTC/internal/journal"
	"github.com/sami992010/ProBTC/internal/ledger"
	"github.com/sami992010/ProBTC/internal/marketdata"
	"github.com/sami992010/ProBTC/internal/pricefeed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var jnl journal.Journal = journal.NewDisabled()
	if cfg.DBDSN != "" {
		pg, err := journal.NewPGJournal(ctx, cfg.DBDSN)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		jnl = pg
		log.Printf("trade journal enabled")
	}

	feed := pricefeed.New(cfg.StartPrice, cfg.TickInterval)
	bus := marketdata.NewBus()
	book := ledger.New(feed, jnl, ledger.Config{
		ContractSize:    cfg.ContractSize,
		MarginRate:      cfg.MarginRate,
		StartingBalance: cfg.StartingBalance,
	})
	if cfg.AdminUsername != "" && cfg.AdminPasswordHash != "" {
		if _, err := book.CreateUser(cfg.AdminUsername, cfg.AdminPasswordHash, true); err != nil {
			log.Fatal(err)
		}
		log.Printf("seeded admin user %q", cfg.AdminUsername)
	}

	authSvc := auth.NewService(book, cfg.JWTIssuer, []byte(cfg.JWTSecret), cfg.JWTTTL)
	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandler:   auth.NewHandler(authSvc),
		LedgerHandler: ledger.NewHandler(book),
		AdminHandler:  admin.NewHandler(book),
		AuthService:   authSvc,
		WSHandler:     httpserver.NewPriceWSHandler(bus, cfg.WebSocketOrigin),
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go feed.Run(ctx, bus)

	log.Printf("server listening on %s", cfg.HTTPAddr)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
