// Package main is the entry point of the CeyAcc API server.
//
// The binary wires together the full backend: PostgreSQL storage,
// the optional Redis ranking cache, the interaction scoring engine,
// the yearly grade promotion scheduler and the REST API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/config"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/application/command"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/application/query"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/infrastructure/auth"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/infrastructure/persistence/postgres"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/infrastructure/persistence/redis"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/infrastructure/scheduler"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/infrastructure/scheduler/jobs"
	httpx "github.com/Chathuranga-Niroshana/ceyacc-backend/internal/interface/http"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/interface/http/handlers"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// The scheduler logs through slog; everything else through pkg/logger.
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	slogger := setupSlog(cfg)

	log.Info("starting ceyacc-backend",
		logger.String("version", cfg.App.Version),
		logger.String("environment", string(cfg.App.Environment)),
		logger.String("timezone", cfg.App.Timezone),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. POSTGRESQL
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to PostgreSQL...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer dbConn.Close()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS AND SEEDING
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("checking database migrations...")
	if err := postgres.NewMigrator(dbConn).Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if err := postgres.NewSeeder(dbConn).Seed(ctx); err != nil {
		return fmt.Errorf("seed reference data: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (optional ranking and profile cache)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		cache            *redis.Cache
		leaderboardCache *redis.LeaderboardCache
	)
	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		cache, err = redis.NewCache(redisConfig(cfg))
		if err != nil {
			log.Warn("Redis unavailable, ranking cache disabled", logger.Err(err))
			cache = nil
		} else {
			defer cache.Close()
			leaderboardCache = redis.NewLeaderboardCache(cache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	userRepo := postgres.NewUserRepository(dbConn)
	recordRepo := postgres.NewStudentRecordRepository(dbConn)
	profileRepo := postgres.NewTeacherProfileRepository(dbConn)
	contentRepo := postgres.NewContentRepository(dbConn)
	eventRepo := postgres.NewEventRepository(dbConn)
	assessmentRepo := postgres.NewAssessmentRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. DOMAIN SERVICES AND AUTH
	// ─────────────────────────────────────────────────────────────────────────
	points := scoring.NewPointsTable(map[scoring.Action]int{
		scoring.ActionCommentPosted: cfg.Scoring.CommentPosted,
		scoring.ActionPostCreated:   cfg.Scoring.PostCreated,
		scoring.ActionEventCreated:  cfg.Scoring.EventCreated,
		scoring.ActionEventInterest: cfg.Scoring.EventInterest,
		scoring.ActionPostReacted:   cfg.Scoring.PostReacted,
		scoring.ActionQuizCreated:   cfg.Scoring.QuizCreated,
		scoring.ActionCourseCreated: cfg.Scoring.CourseCreated,
	})
	// The ladder comes back from the seeded table so tiers carry their
	// database IDs.
	tiers, err := postgres.NewTierRepository(dbConn).List(ctx)
	if err != nil {
		return fmt.Errorf("load level ladder: %w", err)
	}
	catalogue := scoring.NewCatalogue(tiers)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.Issuer)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. APPLICATION HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	var scoreBoard command.ScoreLeaderboard
	var boardReader query.LeaderboardReader
	var rankReader query.RankReader
	if leaderboardCache != nil {
		scoreBoard = leaderboardCache
		boardReader = leaderboardCache
		rankReader = leaderboardCache
	}

	scores := command.NewApplyScoreDeltaHandler(userRepo, points, catalogue, scoreBoard, log)
	profileQuery := query.NewGetUserProfileHandler(userRepo, recordRepo, profileRepo, catalogue)
	profileUpdate := command.NewUpdateProfileHandler(userRepo, profileRepo, log)
	if cache != nil {
		profiles := redis.NewProfileCache(cache)
		profileQuery = profileQuery.WithCache(profiles)
		scores = scores.WithProfileInvalidator(profiles)
		profileUpdate = profileUpdate.WithProfileInvalidator(profiles)
	}

	deps := httpx.Dependencies{
		RegisterHandler:       command.NewRegisterUserHandler(userRepo, recordRepo, profileRepo, hasher, log),
		AuthenticateHandler:   command.NewAuthenticateUserHandler(userRepo, hasher, log),
		UpdateProfileHandler:  profileUpdate,
		CreatePostHandler:     command.NewCreatePostHandler(contentRepo, scores),
		EngagePostHandler:     command.NewEngagePostHandler(contentRepo, scores),
		ManageFeedHandler:     command.NewManageFeedHandler(contentRepo),
		EventHandler:          command.NewEventHandler(eventRepo, scores),
		AssessmentHandler:     command.NewAssessmentHandler(assessmentRepo, scores),
		PromotionHandler:      command.NewPromoteGradesHandler(recordRepo, log),
		GetProfileHandler:     profileQuery,
		GetRankHandler:        query.NewGetUserRankHandler(userRepo, rankReader, catalogue, log),
		GetLeaderboardHandler: query.NewGetLeaderboardHandler(userRepo, boardReader, catalogue, log),
		SearchUsersHandler:    query.NewSearchUsersHandler(userRepo, catalogue),
		ListFeedHandler:       query.NewListFeedHandler(contentRepo),
		ListEventsHandler:     query.NewListEventsHandler(eventRepo),
		ListAssessmentsH:      query.NewListAssessmentsHandler(assessmentRepo),
		Tokens:                tokens,
		Issuer:                tokens,
		Levels:                catalogue,
		Logger:                log,
		HealthChecker:         buildHealthChecker(cfg, dbConn, cache),
	}
	if cache != nil && cfg.HTTP.RateLimitPerMinute > 0 {
		deps.RateLimiter = redis.NewRateLimiter(cache, cfg.HTTP.RateLimitPerMinute, time.Minute)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. SCHEDULER (yearly grade promotion, leaderboard rebuild)
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(scheduler.SchedulerConfig{
			Logger:     slogger,
			Timezone:   cfg.App.Location,
			JobTimeout: cfg.Scheduler.JobTimeout,
		})

		cron, err := scheduler.ParseCronExpression(cfg.Scheduler.PromotionCron)
		if err != nil {
			return fmt.Errorf("parse promotion cron %q: %w", cfg.Scheduler.PromotionCron, err)
		}
		promoteJob := jobs.NewPromoteGradesJob(command.NewPromoteGradesHandler(recordRepo, log), slogger)
		if err := sched.Register(promoteJob, cron); err != nil {
			return fmt.Errorf("register promotion job: %w", err)
		}

		if leaderboardCache != nil {
			rebuildJob := jobs.NewRebuildLeaderboardJob(userRepo, leaderboardCache, slogger)
			interval := scheduler.NewIntervalSchedule(cfg.Scheduler.LeaderboardRebuildInterval)
			if err := sched.Register(rebuildJob, interval); err != nil {
				return fmt.Errorf("register leaderboard job: %w", err)
			}
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				log.Warn("scheduler stop", logger.Err(err))
			}
		}()
		log.Info("scheduler started",
			logger.String("promotion_cron", cfg.Scheduler.PromotionCron),
			logger.Duration("leaderboard_interval", cfg.Scheduler.LeaderboardRebuildInterval),
		)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpx.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	serverCfg.EnableCORS = cfg.HTTP.EnableCORS
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverCfg.APIKeys = cfg.HTTP.AdminAPIKeys

	server := httpx.NewServer(serverCfg, deps)
	errCh := server.StartAsync()
	log.Info("HTTP server listening", logger.String("address", serverCfg.Address()))

	// ─────────────────────────────────────────────────────────────────────────
	// 11. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutdown signal received", logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	log.Info("shutdown completed")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func setupSlog(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}

func redisConfig(cfg *config.Config) redis.Config {
	rc := redis.DefaultConfig()
	rc.URL = cfg.Redis.URL
	rc.Host = cfg.Redis.Host
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	rc.PoolSize = cfg.Redis.PoolSize
	rc.MinIdleConns = cfg.Redis.MinIdleConns
	rc.DialTimeout = cfg.Redis.DialTimeout
	rc.ReadTimeout = cfg.Redis.ReadTimeout
	rc.WriteTimeout = cfg.Redis.WriteTimeout
	return rc
}

func buildHealthChecker(cfg *config.Config, db *postgres.Connection, cache *redis.Cache) handlers.HealthChecker {
	hc := handlers.NewCompositeHealthChecker(cfg.App.Version)
	hc.SetTimeout(5 * time.Second)
	hc.AddCheck("database", handlers.NewDatabaseCheck(db))
	if cache != nil {
		hc.AddCheck("cache", handlers.NewCacheCheck(cache))
	}
	return hc
}
