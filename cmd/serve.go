package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lushplayer/catalogue/internal/api"
	"github.com/lushplayer/catalogue/internal/catalogue"
	"github.com/lushplayer/catalogue/internal/config"
	"github.com/lushplayer/catalogue/internal/logger"
	"github.com/lushplayer/catalogue/internal/models"
	"github.com/lushplayer/catalogue/internal/playback"
	"github.com/lushplayer/catalogue/internal/retry"
	"github.com/lushplayer/catalogue/internal/shutdown"
	"github.com/lushplayer/catalogue/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalogue REST server",
	Long: `Start the REST server exposing the content catalogue: programme
listings, details, search, channels, events, and the live schedule.

The server keeps an in-memory cache of the latest programme lists and,
when a database driver is configured, archives each successful fetch so a
restarted process can serve a stale catalogue immediately.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()

		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.API.Port = port
		}

		logger.Initialize(cfg.AppLogLevel(), cfg.APILogLevel())
		log := logger.AppLogger()

		snapshots, err := store.Open(cfg.Database)
		if err != nil {
			log.Error("failed to open snapshot store", err)
			os.Exit(1)
		}

		retryCfg := retry.DefaultConfig()
		if cfg.Content.RetryAttempts > 0 {
			retryCfg.MaxAttempts = cfg.Content.RetryAttempts
		}

		clientCfg := catalogue.Config{
			BaseURL:   cfg.Content.BaseURL,
			PolicyKey: cfg.Content.PolicyKey,
			Timeout:   time.Duration(cfg.Content.TimeoutSeconds) * time.Second,
			Retry:     retryCfg,
		}
		if snapshots != nil {
			clientCfg.Store = snapshots
		}
		client := catalogue.NewClient(clientCfg)

		if snapshots != nil {
			warmCache(context.Background(), log, snapshots, client.Cache())
		}

		var resolver api.PlaybackCatalogue
		if cfg.Playback.BaseURL != "" {
			resolver = playback.NewClient(playback.Config{
				BaseURL:   cfg.Playback.BaseURL,
				PolicyKey: cfg.Content.PolicyKey,
				Timeout:   time.Duration(cfg.Playback.TimeoutSeconds) * time.Second,
			})
		}

		server := api.NewServer(client, resolver)

		httpServer := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.API.Port),
			Handler: server.Router(),
		}

		coordinator := shutdown.New(30 * time.Second)
		if snapshots != nil {
			coordinator.Register("snapshot store", func(ctx context.Context) error {
				return snapshots.Close()
			})
		}
		coordinator.Register("http server", func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		})

		go func() {
			log.WithFields(map[string]interface{}{
				"port": cfg.API.Port,
			}).Info("catalogue server listening")

			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("server stopped unexpectedly", err)
				coordinator.Trigger()
			}
		}()

		if err := coordinator.Wait(); err != nil {
			log.Error("shutdown finished with errors", err)
			os.Exit(1)
		}
		log.Info("shutdown complete")
	},
}

// warmCache preloads the in-memory cache from the snapshot store, so the
// first requests after a restart see the last known catalogue instead of
// waiting on upstream. Warm-up failures are logged and skipped.
func warmCache(ctx context.Context, log *logger.Logger, snapshots *store.Store, cache *catalogue.Cache) {
	for _, media := range []models.Media{models.MediaTV, models.MediaRadio} {
		programmes, err := snapshots.LatestByMedia(ctx, media)
		if err != nil {
			log.WithFields(map[string]interface{}{"media": media.String()}).Error("failed to load media snapshot", err)
			continue
		}
		if len(programmes) > 0 {
			cache.SetProgrammesByMedia(media, programmes)
			log.WithFields(map[string]interface{}{
				"media":      media.String(),
				"programmes": len(programmes),
			}).Info("cache warmed from snapshot")
		}
	}

	tags, err := snapshots.ChannelSlots(ctx)
	if err != nil {
		log.Error("failed to list channel snapshots", err)
		return
	}
	for _, tag := range tags {
		programmes, err := snapshots.LatestByChannel(ctx, tag)
		if err != nil {
			log.WithFields(map[string]interface{}{"channel": tag}).Error("failed to load channel snapshot", err)
			continue
		}
		if len(programmes) > 0 {
			cache.SetProgrammesByChannel(tag, programmes)
		}
	}
}

func init() {
	serveCmd.Flags().Int("port", 0, "override the configured API port")
}
