package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/recera/vantage/cmd/vantage/internal/config"
	"github.com/recera/vantage/pkg/live"
	"github.com/recera/vantage/pkg/observe"
	"github.com/recera/vantage/pkg/viewport"
)

func newServeCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the live viewport bridge server",
		Long: `Serve runs a WebSocket endpoint where each connection gets its own
server-side viewport controller. Clients stream raw input events up and
receive transform frames back.

Configuration is read from vantage.yaml and hot-reloaded on change; new
sessions pick up the reloaded controller settings, running sessions keep
the configuration they were constructed with.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, configPath, verbose)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&configPath, "config", "c", config.FileName, "path to vantage.yaml")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func runServe(addr, configPath string, verbose bool) error {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	current := observe.NewValue(cfg)

	if addr == "" {
		addr = cfg.Addr()
	}

	server := live.NewServer(live.Options{
		Logger: log,
		Config: func() viewport.Config {
			return current.Get().Viewport.Controller()
		},
	})
	server.Start()
	defer server.Shutdown()

	watcher, err := watchConfig(log, configPath, current)
	if err != nil {
		log.WithError(err).Warn("config watch unavailable, hot reload disabled")
	} else {
		defer watcher.Close()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/vantage/live", server.HandleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("live bridge listening")
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	}
}

// watchConfig reloads the config file on write events. Invalid reloads
// are logged and skipped; the previous configuration stays active.
func watchConfig(log *logrus.Logger, path string, current *observe.Value[*config.Config]) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors often replace the file, which drops a
	// watch taken on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := config.LoadFile(path)
				if err != nil {
					log.WithError(err).Warn("config reload failed, keeping previous")
					continue
				}
				current.Set(cfg)
				log.Info("config reloaded, applies to new sessions")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("config watcher error")
			}
		}
	}()
	return watcher, nil
}
