package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlenaMolokova/passgen/internal/app"
	"github.com/AlenaMolokova/passgen/internal/app/config"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "passgen:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.NewConfig(args)
	if err != nil {
		return err
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("не удалось инициализировать приложение: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close application")
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.ServerAddress != "" {
		server := &http.Server{
			Addr:              cfg.ServerAddress,
			Handler:           application.Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		logrus.WithFields(logrus.Fields{
			"address": cfg.ServerAddress,
			"storage": application.StorageKind(),
		}).Info("Starting admin server")

		g.Go(func() error {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		start := time.Now()
		passwords, err := application.Service.GenerateBatch(gctx, cfg.Options, cfg.Timeout, cfg.Count)
		for _, p := range passwords {
			fmt.Fprintln(out, p)
		}
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"passwords": humanize.Comma(int64(len(passwords))),
			"length":    cfg.Options.PasswordLength,
			"workers":   application.Workers(),
			"elapsed":   time.Since(start).String(),
		}).Info("Passwords generated")

		if cfg.Serve {
			<-gctx.Done()
			return nil
		}
		cancel()
		return nil
	})

	return g.Wait()
}
