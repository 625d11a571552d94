package commands

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"worldtour/internal/api"
	"worldtour/internal/metrics"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve candidates and trips over HTTP; SIGHUP reloads the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			raw, err := loadCities(ctx, cfg)
			if err != nil {
				return err
			}
			origin, err := resolveOrigin(raw, cfg)
			if err != nil {
				return err
			}

			// metrics share the API listener
			mcol := metrics.NewCollector(cfg.BudgetHours(), len(raw))
			pub, closePub, err := connectPublisher(cfg, mcol)
			if err != nil {
				return err
			}
			defer closePub()

			s := api.New(raw, origin, cfg.BudgetHours(), mcol, pub)
			srv := &http.Server{Addr: cfg.HTTPAddr, Handler: s.Router}

			hup := make(chan os.Signal, 1)
			signal.Notify(hup, syscall.SIGHUP)
			defer signal.Stop(hup)
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case <-hup:
					}
					fresh, err := loadCities(ctx, cfg)
					if err != nil {
						log.Printf("reload error: %v", err)
						continue
					}
					o, err := resolveOrigin(fresh, cfg)
					if err != nil {
						log.Printf("reload error: %v", err)
						continue
					}
					s.Reload(fresh, o)
				}
			}()

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Printf("worldtour listening on %s", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			log.Println("shutdown complete")
			return nil
		},
	}
}
