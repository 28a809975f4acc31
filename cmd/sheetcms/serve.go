package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/swezzy/sheetcms/api"
)

func newServeCmd(s *settings) *cobra.Command {
	var noRefresh bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the posts over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := s.config
			log := initLog(cfg.Log)

			c, err := initCache(cfg, log)
			if err != nil {
				return err
			}
			defer c.Close()

			pipeline := initPipeline(cfg, c, log)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !noRefresh {
				go pipeline.StartRefresh(ctx, cfg.Refresh.Converted.Interval)
			}

			server := makeHTTPServer(api.Mux(pipeline, cfg.Server, log))
			server.Addr = fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)

			errc := make(chan error, 1)
			go func() {
				log.Infof("Starting server on address %s", server.Addr)
				errc <- server.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return errors.Wrap(err, "starting server")
			case <-ctx.Done():
			}

			log.Infof("Shutting down server")

			shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			return errors.Wrap(server.Shutdown(shutdown), "shutting down server")
		},
	}

	cmd.Flags().BoolVar(&noRefresh, "no-refresh", false, "do not refresh the posts in the background")

	return cmd
}

func makeHTTPServer(mux http.Handler) *http.Server {
	return &http.Server{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		Handler:      mux,
	}
}
