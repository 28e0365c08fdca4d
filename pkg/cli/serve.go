package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/m-mizutani/scanstream/pkg/cli/config"
	"github.com/m-mizutani/scanstream/pkg/controller/server"
	"github.com/m-mizutani/scanstream/pkg/infra"
	"github.com/m-mizutani/scanstream/pkg/infra/broadcast"
	"github.com/m-mizutani/scanstream/pkg/infra/metrics"
	"github.com/m-mizutani/scanstream/pkg/infra/queue"
	"github.com/m-mizutani/scanstream/pkg/repository/memory"
	"github.com/m-mizutani/scanstream/pkg/repository/sqlrepo"
	"github.com/m-mizutani/scanstream/pkg/usecase"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
	"github.com/m-mizutani/scanstream/pkg/utils/safe"

	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		addr string

		database config.Database
		queueCfg config.Queue
		srvCfg   config.Server
		sentry   config.Sentry
	)
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Binding address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("SCANSTREAM_ADDR"),
			Destination: &addr,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Server mode",
		Flags: slice.Flatten(
			serveFlags,
			database.Flags(),
			queueCfg.Flags(),
			srvCfg.Flags(),
			sentry.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting serve",
				slog.Any("Addr", addr),
				slog.Any("Database", &database),
				slog.Any("Queue", &queueCfg),
				slog.Any("Server", &srvCfg),
				slog.Any("Sentry", &sentry),
			)

			if err := sentry.Configure(ctx); err != nil {
				return err
			}
			defer sentry.Flush(2 * time.Second)

			m := metrics.New()
			hub := broadcast.New(append(srvCfg.HubOptions(), broadcast.WithMetrics(m))...)
			defer hub.Close()

			infraOptions := []infra.Option{
				infra.WithBroadcaster(hub),
				infra.WithMetrics(m),
			}

			var monitored queue.StatsReader
			db, err := database.Open(ctx)
			if err != nil {
				return err
			}
			if db != nil {
				defer safe.Close(db)
				if err := db.Migrate(ctx); err != nil {
					return err
				}
				infraOptions = append(infraOptions, infra.WithScanRepository(sqlrepo.New(db)))
				if queueCfg.Enabled() {
					q := queue.NewSQL(db, queueCfg.Options()...)
					infraOptions = append(infraOptions, infra.WithWorkQueue(q))
					monitored = q
				}
			} else {
				logging.Default().Warn("using in-memory storage, data is lost on restart")
				infraOptions = append(infraOptions, infra.WithScanRepository(memory.New()))
				if queueCfg.Enabled() {
					q := queue.NewMemory(queueCfg.Options()...)
					infraOptions = append(infraOptions, infra.WithWorkQueue(q))
					monitored = q
				}
			}

			clients := infra.New(infraOptions...)
			uc := usecase.New(clients, queueCfg.UseCaseOptions()...)

			s := server.New(uc, append(srvCfg.Options(),
				server.WithHub(hub),
				server.WithMetrics(m),
			)...)

			dispatchCtx, stopDispatchers := context.WithCancel(ctx)
			defer stopDispatchers()
			dispatching := clients.WorkQueue() != nil
			dispatchDone := make(chan error, 1)
			if dispatching {
				go func() {
					dispatchDone <- uc.RunDispatchers(dispatchCtx)
				}()
				go queue.Monitor(dispatchCtx, monitored, m, queue.DefaultMonitorInterval)
			}

			serverErr := make(chan error, 1)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: s.Mux(),

				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				// WebSocket connections are long lived; writes are bounded per message.
				WriteTimeout: 0,
			}

			go func() {
				logging.Default().Info("starting http server", "addr", addr)
				if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
					serverErr <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			var runErr error
			select {
			case runErr = <-serverErr:
			case runErr = <-dispatchDone:
				dispatching = false
				if runErr == nil {
					runErr = goerr.New("dispatchers stopped unexpectedly")
				}
			case sig := <-quit:
				logging.Default().Info("shutting down server", "signal", sig)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			// Subscribers hold their connections open until the hub closes.
			hub.Close()
			if err := httpServer.Shutdown(shutdownCtx); err != nil && runErr == nil {
				runErr = goerr.Wrap(err, "failed to shutdown server")
			}

			stopDispatchers()
			if dispatching {
				select {
				case err := <-dispatchDone:
					if err != nil && runErr == nil {
						runErr = err
					}
				case <-shutdownCtx.Done():
					logging.Default().Warn("dispatchers did not stop before shutdown timeout")
				}
			}

			return runErr
		},
	}
}
