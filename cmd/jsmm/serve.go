package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/funvibe/jsmm/internal/server"
	"github.com/funvibe/jsmm/internal/store"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr      string
		timeout   time.Duration
		noHistory bool
		allowRaw  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the jsmm.Runner gRPC service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := root.log()

			var st *store.Store
			if !noHistory {
				var err error
				if st, err = root.openStore(); err != nil {
					return err
				}
				defer st.Close()
			}

			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(st, logger)
			srv.Timeout = timeout
			srv.AllowRaw = allowRaw
			if err := srv.Serve(ctx, lis); err != nil {
				logger.Error("server stopped", "error", err)
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:7433", "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "wall-clock limit per run")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record runs")
	cmd.Flags().BoolVar(&allowRaw, "allow-raw", false, "accept the unchecked raw strategy from clients")
	return cmd
}
