package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kmmelissat/analisis-al-instante/internal/api"
	"github.com/kmmelissat/analisis-al-instante/internal/engine"
	"github.com/kmmelissat/analisis-al-instante/internal/store"
)

var (
	srvAddr     string
	srvUploadMB int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the profiling and chart API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := current()
		addr := c.ServerAddr
		if srvAddr != "" {
			addr = srvAddr
		}
		uploadMB := c.UploadMaxMB
		if srvUploadMB > 0 {
			uploadMB = srvUploadMB
		}
		opt, err := loadFlags{}.options()
		if err != nil {
			return err
		}

		log := newLogger(os.Stderr)
		eng := engine.New(log)
		if c.MaxSuggestions > 0 {
			eng.MaxSuggestions = c.MaxSuggestions
		}
		srv := api.New(api.Options{
			Logger:         log,
			Engine:         eng,
			Store:          store.New(),
			MaxUploadBytes: int64(uploadMB) << 20,
			Load:           opt,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().IntVar(&srvUploadMB, "upload-max-mb", 0, "maximum upload size in MB (default from config)")
}
