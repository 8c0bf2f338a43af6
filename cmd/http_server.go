package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/civic-issue-tracker/api"
	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/auth"
	"github.com/frahmantamala/civic-issue-tracker/internal/comment"
	commentPostgres "github.com/frahmantamala/civic-issue-tracker/internal/comment/postgres"
	"github.com/frahmantamala/civic-issue-tracker/internal/issue"
	issuePostgres "github.com/frahmantamala/civic-issue-tracker/internal/issue/postgres"
	"github.com/frahmantamala/civic-issue-tracker/internal/payment"
	paymentPostgres "github.com/frahmantamala/civic-issue-tracker/internal/payment/postgres"
	"github.com/frahmantamala/civic-issue-tracker/internal/paymentgateway"
	"github.com/frahmantamala/civic-issue-tracker/internal/stats"
	statsPostgres "github.com/frahmantamala/civic-issue-tracker/internal/stats/postgres"
	"github.com/frahmantamala/civic-issue-tracker/internal/timeline"
	timelinePostgres "github.com/frahmantamala/civic-issue-tracker/internal/timeline/postgres"
	"github.com/frahmantamala/civic-issue-tracker/internal/transport/rest"
	"github.com/frahmantamala/civic-issue-tracker/internal/transport/swagger"
	"github.com/frahmantamala/civic-issue-tracker/internal/user"
	userPostgres "github.com/frahmantamala/civic-issue-tracker/internal/user/postgres"
	"github.com/frahmantamala/civic-issue-tracker/pkg/logger"
)

const driverName = "pgx"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

// Database bundles the one connection pool and the two query layers built on it.
type Database struct {
	SQL  *sql.DB
	Gorm *gorm.DB
	SQLX *sqlx.DB
}

type Dependencies struct {
	Config   *internal.Config
	DB       *Database
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.SQL, deps.Handlers, deps.Config.Server.Origins(), deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	var handler http.Handler = deps.Router
	if timeout := deps.Config.Server.RequestTimeout; timeout > 0 {
		handler = http.TimeoutHandler(handler, timeout, `{"message":"request timed out","error":"UNEXPECTED_ERROR"}`)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.SQL.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(config.Logging.Level, config.Logging.Format)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	docs, err := swagger.NewDocs(api.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("failed to load api docs: %w", err)
	}

	// repositories
	userRepo := userPostgres.NewUserRepository(db.Gorm)
	issueRepo := issuePostgres.NewIssueRepository(db.Gorm)
	timelineRepo := timelinePostgres.NewTimelineRepository(db.Gorm)
	commentRepo := commentPostgres.NewCommentRepository(db.Gorm)
	paymentRepo := paymentPostgres.NewPaymentRepository(db.Gorm)
	statsRepo := statsPostgres.NewStatsRepository(db.SQLX)

	// services
	userService := user.NewService(userRepo, lg)
	timelineService := timeline.NewService(timelineRepo, lg)
	issueService := issue.NewService(issueRepo, timelineService, userService, config.Issue, lg)
	commentService := comment.NewService(commentRepo, issueService, lg)
	gateway := paymentgateway.NewClient(config.Payment, lg)
	paymentService := payment.NewService(paymentRepo, gateway, timelineService, lg)
	statsService := stats.NewService(statsRepo, lg)

	resolver := auth.NewResolver(auth.NewJWTVerifier(config.Security), userService, lg)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: chi.NewRouter(),
		Handlers: rest.Handlers{
			Resolver: resolver,
			User:     user.NewHandler(userService, lg),
			Issue:    issue.NewHandler(issueService, lg),
			Timeline: timeline.NewHandler(timelineService, lg),
			Comment:  comment.NewHandler(commentService, lg),
			Payment:  payment.NewHandler(paymentService, lg),
			Stats:    stats.NewHandler(statsService, lg),
			Swagger:  docs,
		},
	}, nil
}

// initDB opens one pgx pool and layers gorm and sqlx over it.
func initDB(cfg internal.DatabaseConfig) (*Database, error) {
	sqlDB, err := sql.Open(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	return &Database{
		SQL:  sqlDB,
		Gorm: gormDB,
		SQLX: sqlx.NewDb(sqlDB, driverName),
	}, nil
}
