// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	authHTTP "github.com/allisson/qrseal/internal/auth/http"
	authService "github.com/allisson/qrseal/internal/auth/service"
	authUseCase "github.com/allisson/qrseal/internal/auth/usecase"
	"github.com/allisson/qrseal/internal/config"
	cryptoService "github.com/allisson/qrseal/internal/crypto/service"
	"github.com/allisson/qrseal/internal/database"
	envelopeHTTP "github.com/allisson/qrseal/internal/envelope/http"
	envelopeUseCase "github.com/allisson/qrseal/internal/envelope/usecase"
	"github.com/allisson/qrseal/internal/http"
	"github.com/allisson/qrseal/internal/metrics"
	secretUseCase "github.com/allisson/qrseal/internal/secretstore/usecase"
)

const connectTimeout = 10 * time.Second

// Container holds all application dependencies and provides methods to access them.
// Components are created on first access.
type Container struct {
	config *config.Config

	// lifecycle ends when Shutdown starts; readiness and background
	// middleware goroutines follow it.
	lifecycle       context.Context
	cancelLifecycle context.CancelFunc

	// Infrastructure
	logger      *slog.Logger
	db          *sql.DB
	txManager   database.TxManager
	redisClient *redis.Client

	// Crypto
	kmsService     cryptoService.KMSService
	aeadManager    cryptoService.AEADManager
	envelopeCipher cryptoService.EnvelopeCipher

	// Secret store
	secretFetcher secretUseCase.SecretFetcher
	secretCache   *secretUseCase.SecretCache
	secretWriter  secretUseCase.SecretWriter
	fetcherCloser func() error

	// Envelope
	envelopeUseCase envelopeUseCase.EnvelopeUseCase
	envelopeHandler *envelopeHTTP.EnvelopeHandler

	// Auth
	secretService    authService.SecretService
	tokenService     authService.TokenService
	clientRepository authUseCase.ClientRepository
	tokenRepository  authUseCase.TokenRepository
	clientUseCase    authUseCase.ClientUseCase
	tokenUseCase     authUseCase.TokenUseCase
	tokenHandler     *authHTTP.TokenHandler

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                   sync.Mutex
	loggerInit           sync.Once
	dbInit               sync.Once
	txManagerInit        sync.Once
	redisClientInit      sync.Once
	kmsServiceInit       sync.Once
	aeadManagerInit      sync.Once
	envelopeCipherInit   sync.Once
	secretFetcherInit    sync.Once
	secretCacheInit      sync.Once
	secretWriterInit     sync.Once
	envelopeUseCaseInit  sync.Once
	envelopeHandlerInit  sync.Once
	secretServiceInit    sync.Once
	tokenServiceInit     sync.Once
	clientRepositoryInit sync.Once
	tokenRepositoryInit  sync.Once
	clientUseCaseInit    sync.Once
	tokenUseCaseInit     sync.Once
	tokenHandlerInit     sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
	httpServerInit       sync.Once
	metricsServerInit    sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	lifecycle, cancel := context.WithCancel(context.Background())
	return &Container{
		config:          cfg,
		lifecycle:       lifecycle,
		cancelLifecycle: cancel,
		initErrors:      make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.setInitError("db", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("db"); storedErr != nil {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.setInitError("txManager", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("txManager"); storedErr != nil {
		return nil, storedErr
	}
	return c.txManager, nil
}

// RedisClient returns the Redis client built from REDIS_URL.
func (c *Container) RedisClient() (*redis.Client, error) {
	var err error
	c.redisClientInit.Do(func() {
		c.redisClient, err = c.initRedisClient()
		if err != nil {
			c.setInitError("redisClient", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("redisClient"); storedErr != nil {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.setInitError("metricsProvider", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("metricsProvider"); storedErr != nil {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op
// recorder when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.setInitError("businessMetrics", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("businessMetrics"); storedErr != nil {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.setInitError("httpServer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("httpServer"); storedErr != nil {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.setInitError("metricsServer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("metricsServer"); storedErr != nil {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown stops the servers and releases every initialized resource.
// It is safe to call when nothing was initialized.
func (c *Container) Shutdown(ctx context.Context) error {
	c.cancelLifecycle()

	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.fetcherCloser != nil {
		if err := c.fetcherCloser(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("secret fetcher close: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

func (c *Container) setInitError(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[name] = err
}

func (c *Container) initError(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// SQLDriver returns the driver of the SQL document store. A SQL secret
// provider names its own driver; otherwise DB_DRIVER applies.
func (c *Container) SQLDriver() string {
	if database.IsSupportedDriver(c.config.SecretProvider) {
		return c.config.SecretProvider
	}
	return c.config.DBDriver
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := database.Connect(ctx, database.Config{
		Driver:             c.SQLDriver(),
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initRedisClient parses REDIS_URL. No connection is made until first use.
func (c *Container) initRedisClient() (*redis.Client, error) {
	opts, err := redis.ParseURL(c.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the API server and registers its routes.
func (c *Container) initHTTPServer() (*http.Server, error) {
	secretCache, err := c.SecretCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret cache for http server: %w", err)
	}

	envelopeHandler, err := c.EnvelopeHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope handler for http server: %w", err)
	}

	tokenHandler, err := c.TokenHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get token handler for http server: %w", err)
	}

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(secretCache, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(
		c.lifecycle,
		c.config,
		envelopeHandler,
		tokenHandler,
		tokenUseCase,
		c.TokenService(),
		metricsProvider,
	)

	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if metricsProvider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		metricsProvider,
	), nil
}
