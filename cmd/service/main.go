package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/yaswanth-m/simply-backend/internal"
	"github.com/yaswanth-m/simply-backend/internal/config"
	"github.com/yaswanth-m/simply-backend/internal/logging"
	"github.com/yaswanth-m/simply-backend/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: false,
		Environment:   cfg.Environment,
		SentryEnabled: cfg.SentryEnabled,
		SentryDSN:     sentryDSN,
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	signingSecret := os.Getenv("SIMPLY_SIGNING_SECRET")
	if signingSecret == "" {
		log.Fatalf("signing secret not set, use SIMPLY_SIGNING_SECRET env var to set it")
	}

	adminUsername := os.Getenv("SIMPLY_ADMIN_USERNAME")
	adminPassword := os.Getenv("SIMPLY_ADMIN_PASSWORD")
	if adminUsername == "" || adminPassword == "" {
		log.Fatalf("admin credentials not set, use SIMPLY_ADMIN_USERNAME and SIMPLY_ADMIN_PASSWORD")
	}

	// the password is configured in plain text, only its hash is kept around
	adminPasswordHash, err := pkg.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("hash admin password: %s", err)
	}

	// extra allowed origins for the frontend, comma separated
	if frontendOrigins := os.Getenv("SIMPLY_FRONTEND_ORIGINS"); frontendOrigins != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.Split(frontendOrigins, ",")...)
	}

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:            cfg,
			DSN:               os.Getenv("SIMPLY_POSTGRES_DSN"),
			VersionInfo:       versionInfo,
			AdminUsername:     adminUsername,
			AdminPasswordHash: adminPasswordHash,
			SigningSecret:     signingSecret,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
