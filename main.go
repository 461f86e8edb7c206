package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Amund211/suspense/internal/adapters/userprovider"
	"github.com/Amund211/suspense/internal/app"
	"github.com/Amund211/suspense/internal/cache"
	"github.com/Amund211/suspense/internal/config"
	"github.com/Amund211/suspense/internal/domain"
	"github.com/Amund211/suspense/internal/logging"
	"github.com/Amund211/suspense/internal/ratelimiting"
	"github.com/Amund211/suspense/internal/reporting"
	"github.com/Amund211/suspense/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "golang.org/x/crypto/x509roots/fallback"
)

const serviceName = "suspense-demo"

const boardInterval = 500 * time.Millisecond

func main() {
	if err := run(os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(out io.Writer, logOut io.Writer) error {
	instanceID := uuid.New().String()
	logger := logging.NewLogger(logOut, slog.LevelInfo, "", instanceID)

	conf, err := config.ConfigFromEnv()
	if err != nil {
		logger.Error("Failed to load config", "error", err.Error())
		return err
	}

	level := slog.LevelInfo
	if conf.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger = logging.NewLogger(logOut, level, conf.GoogleCloudProject(), instanceID)
	slog.SetDefault(logger)
	logger.Info("Loaded config", "config", conf.NonSensitiveString())

	ctx := logging.AddToContext(context.Background(), logger)

	flush, err := reporting.NewSentryOrMock(conf)
	if err != nil {
		logger.Error("Failed to initialize Sentry", "error", err.Error())
		return err
	}
	defer flush()
	ctx = reporting.AddHubToContext(ctx)
	ctx = reporting.SetStartedAtInContext(ctx, time.Now())
	ctx = reporting.AddTagsToContext(ctx, map[string]string{"instanceID": instanceID})
	logger.Info("Initialized Sentry")

	if conf.OTelEnabled() {
		shutdown, err := telemetry.SetupOTelSDK(ctx, serviceName)
		if err != nil {
			logger.Error("Failed to set up OpenTelemetry", "error", err.Error())
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
			}
		}()
		logger.Info("Initialized OpenTelemetry")
	}

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   10 * time.Second,
	}

	limiter, stopLimiter := ratelimiting.NewTokenBucketRateLimiter(2, 4)
	defer stopLimiter()

	provider, err := userprovider.NewJSONPlaceholder(httpClient, conf.UsersAPIURL(), limiter)
	if err != nil {
		logger.Error("Failed to initialize users provider", "error", err.Error())
		return err
	}

	usersCache := cache.New(app.BuildGetUsers(provider, 5), cache.WithName[app.UsersQuery]("users"))
	defer usersCache.Close()

	profilesCache := cache.New(
		app.BuildGetUserProfile(usersCache, app.RandomDelay(conf.ProfileMinDelay(), conf.ProfileMaxDelay())),
		cache.WithName[int]("profiles"),
	)
	defer profilesCache.Close()

	logger.Info("Init complete")

	// Suspend until the users have loaded, then render them
	usersCtx := logging.WithComponent(ctx, "users")
	users, err := cache.Render(usersCtx, func() cache.Result[[]domain.User] {
		return usersCache.Read(usersCtx, app.UsersQuery{})
	})
	if err != nil {
		// NOTE: The users provider reports its own errors
		logger.ErrorContext(ctx, "Failed to load users", "error", err.Error())
		return err
	}

	ids := make([]int, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
		fmt.Fprintf(out, "user %d: %s (%s)\n", user.ID, user.Name, user.Address.City)
	}

	board := app.NewStatusBoard(profilesCache, ids)
	defer board.Close()
	fmt.Fprintf(out, "initial   %s\n", board.Summary())

	prewarm := app.BuildPrewarmProfiles(profilesCache)
	reset := app.BuildResetProfiles(profilesCache)

	prewarmDone := make(chan error, 1)
	go func() {
		prewarmDone <- prewarm(logging.WithComponent(ctx, "prewarm"), ids)
	}()

	ticker := time.NewTicker(boardInterval)
	defer ticker.Stop()

	var prewarmErr error
waitForPrewarm:
	for {
		select {
		case <-ticker.C:
			fmt.Fprintf(out, "loading   %s\n", board.Summary())
		case prewarmErr = <-prewarmDone:
			break waitForPrewarm
		}
	}
	if prewarmErr != nil {
		reporting.Report(ctx, prewarmErr)
		return prewarmErr
	}
	fmt.Fprintf(out, "prewarmed %s\n", board.Summary())

	if len(ids) > 0 {
		// Already resolved, so this renders without suspending
		profile, err := cache.Render(ctx, func() cache.Result[domain.User] {
			return profilesCache.Read(ctx, ids[0])
		})
		if err != nil {
			reporting.Report(ctx, err)
			return err
		}
		fmt.Fprintf(out, "profile %d: %s <%s>\n", profile.ID, profile.Username, profile.Email)
	}

	evicted := reset(logging.WithComponent(ctx, "reset"), ids)
	fmt.Fprintf(out, "reset     %s (%d evicted)\n", board.Summary(), evicted)

	return nil
}
