// filepath: internal/cli/server.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"lanupload/internal/announce"
	"lanupload/internal/api/handlers"
	"lanupload/internal/audit"
	"lanupload/internal/config"
	"lanupload/internal/formdata"
	"lanupload/internal/housekeeping"
	"lanupload/internal/httpserver"
	"lanupload/internal/logging"
	"lanupload/internal/metrics"
	"lanupload/internal/models"
	"lanupload/internal/services"
	"lanupload/internal/shared"
	"lanupload/internal/storage"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long in-flight uploads may finish after a signal.
const shutdownTimeout = 30 * time.Second

// runServer binds the listener and serves until SIGINT or SIGTERM.
func runServer(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddr(), err)
	}
	return serve(ctx, cfg, ln, cmd.OutOrStdout())
}

// serve wires the services for c and serves HTTP on ln until ctx is done.
func serve(ctx context.Context, c *config.Config, ln net.Listener, out io.Writer) error {
	store, targets, err := buildStore(ctx, c)
	if err != nil {
		ln.Close()
		return err
	}
	targets = append(targets, spillTarget(c.Limits.TempDir))

	m := metrics.New()

	uploadURL := ""
	if c.Announce.Enabled {
		uploadURL = announce.Announce(out, announce.Options{
			BindHost:   c.Server.Host,
			Port:       ln.Addr().(*net.TCPAddr).Port,
			PublicHost: c.Announce.PublicHost,
			QRCode:     true,
		})
	}

	// Service Initialization
	infoService := services.NewInfoService(Version, StartTime, store.Location(), c.Limits, uploadURL)
	uploadService := services.NewUploadService(c.Limits, store)
	housekeepingService := services.NewHousekeepingService(targets, c.SweepInterval, c.SweepMaxAge, func(r *models.SweepReport) {
		m.ObserveSweep(r.FilesDeleted)
	})

	// Auditor Initialization
	loggerAuditor := audit.NewLoggerAuditor(c.Logging.AuditEnabled)

	housekeepingService.Start()
	// No defer stop here, we stop explicitly during graceful shutdown

	h := handlers.NewHandlers(infoService, uploadService, housekeepingService, loggerAuditor, m)
	r := httpserver.SetupRouter(h, m, httpserver.RawBodyLimit(c.Limits.MaxTotalBytes))

	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: c.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Log.Infof("Server starting on %s (storage: %s, max file: %s, max request: %s)",
			ln.Addr(), store.Location(),
			shared.FormatBytes(c.Limits.MaxFileBytes), shared.FormatBytes(c.Limits.MaxTotalBytes))
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		housekeepingService.Stop()
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logging.Log.Info("Shutting down server...")

	// Create a deadline for existing requests to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Stop background services
	housekeepingService.Stop()

	// Shutdown the HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}

// buildStore opens the configured backend and returns the temp-file
// locations it leaves behind on crashes.
func buildStore(ctx context.Context, c *config.Config) (storage.Store, []housekeeping.Target, error) {
	switch c.Storage.Backend {
	case config.BackendS3:
		client, err := storage.NewS3Client(ctx, storage.S3ClientOptions{
			Region:    c.Storage.S3.Region,
			Endpoint:  c.Storage.S3.Endpoint,
			AccessKey: c.Storage.S3.AccessKey,
			SecretKey: c.Storage.S3.SecretKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return storage.NewS3Store(client, c.Storage.S3.Bucket, c.Storage.S3.Prefix), nil, nil
	default:
		disk, err := storage.NewDiskStore(c.Storage.Root)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage root: %w", err)
		}
		return disk, []housekeeping.Target{disk.TempFiles()}, nil
	}
}

// spillTarget matches the files the decoder spills large fields into.
func spillTarget(dir string) storage.TempDir {
	if dir == "" {
		dir = os.TempDir()
	}
	prefix, suffix, _ := strings.Cut(formdata.SpillPattern, "*")
	return storage.TempDir{Dir: dir, Prefix: prefix, Suffix: suffix}
}
