package commands

import (
	"context"
	"imovelhub/internal/handler"
	"imovelhub/internal/middlewares"
	"imovelhub/internal/service"
	"imovelhub/pkg/cache"
	"imovelhub/pkg/cleaner"
	"imovelhub/pkg/config"
	"imovelhub/pkg/mailer"
	"imovelhub/pkg/media"
	"imovelhub/pkg/metrics"
	"log"
	"time"

	"github.com/spf13/cobra"
)

const feedCacheTTL = 5 * time.Minute

func serveCmd() *cobra.Command {
	var mediaDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.NewConfig(envPath)
			if err != nil {
				return err
			}
			ctx := context.Background()
			s, err := openStores(ctx, appConfig)
			if err != nil {
				return err
			}
			defer s.close()
			if appConfig.Storage == config.StoragePostgres {
				if err := s.createTables(ctx); err != nil {
					return err
				}
				if appConfig.Seed {
					if err := s.seedIfEmpty(ctx); err != nil {
						return err
					}
				}
			}

			var feedCache cache.FeedCache = cache.NopCache{}
			if appConfig.RedisAddr != "" {
				client := cache.NewRedisClient(appConfig.RedisAddr, appConfig.RedisPassword)
				defer client.Close()
				if err := client.Ping(ctx).Err(); err != nil {
					return err
				}
				feedCache = cache.NewRedisCache(client, "imovelhub:feed", feedCacheTTL)
			}

			var storage media.Storage
			servedDir := ""
			if appConfig.MediaBackend == config.MediaS3 {
				storage, err = media.NewS3Storage(ctx, appConfig.S3Bucket, appConfig.AwsRegion)
				if err != nil {
					return err
				}
			} else {
				storage = media.NewLocalStorage(mediaDir, "http://"+appConfig.Endpoint())
				servedDir = mediaDir
			}

			var mail mailer.Mailer = mailer.LogMailer{}
			if appConfig.MailEnabled() {
				mail = mailer.NewSMTPMailer(appConfig.SmtpHost, appConfig.SmtpPort, appConfig.From, appConfig.MailToken)
			}

			appMetrics := metrics.New()
			host, port := appConfig.WebHost, appConfig.WebPort
			jwtService := service.NewJWTService(appConfig, s.users)
			services := handler.Services{
				Auth:         service.NewAuthService(s.users, mail, host, port, appConfig.MainUrl, time.Now),
				JWT:          jwtService,
				Property:     service.NewPropertyService(s.properties, s.users, s.types, s.settings, feedCache, storage, appMetrics, host, port, time.Now),
				User:         service.NewUserService(s.users, s.properties),
				Settings:     service.NewSettingsService(s.settings),
				PropertyType: service.NewPropertyTypeService(s.types),
				Inquiry:      service.NewInquiryService(s.inquiries, s.properties, s.users, s.settings, host, port, time.Now),
				Favourites:   service.NewFavouritesService(s.favourites, s.properties, time.Now),
			}

			sweep := cleaner.NewSweep(s.properties, feedCache, appMetrics.ExpiredListings, time.Now)
			sweep.Run()
			scheduler, err := cleaner.Schedule(sweep)
			if err != nil {
				return err
			}
			defer scheduler.Stop()

			stop := make(chan struct{})
			defer close(stop)
			go services.Inquiry.KeepAlive(stop)

			router := handler.NewRouter(services, middlewares.NewMiddlewares(jwtService, s.properties), appMetrics, servedDir)
			log.Printf("listening on %s (storage=%s, media=%s)", appConfig.Endpoint(), appConfig.Storage, appConfig.MediaBackend)
			return router.Run(appConfig.Endpoint())
		},
	}
	cmd.Flags().StringVar(&mediaDir, "media-dir", "media", "directory for locally stored images")
	return cmd
}
