// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authHTTP "github.com/kv-gits/rpm/internal/auth/http"
	authService "github.com/kv-gits/rpm/internal/auth/service"
	authUseCase "github.com/kv-gits/rpm/internal/auth/usecase"
	"github.com/kv-gits/rpm/internal/clipboard"
	"github.com/kv-gits/rpm/internal/config"
	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
	cryptoService "github.com/kv-gits/rpm/internal/crypto/service"
	"github.com/kv-gits/rpm/internal/http"
	"github.com/kv-gits/rpm/internal/metrics"
	vaultHTTP "github.com/kv-gits/rpm/internal/vault/http"
	"github.com/kv-gits/rpm/internal/vault/storage"
	vaultUseCase "github.com/kv-gits/rpm/internal/vault/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	store           *storage.Store
	metricsProvider *metrics.Provider

	// Services
	aeadManager    cryptoService.AEADManager
	keyDeriver     cryptoService.KeyDeriver
	passwordHasher cryptoService.PasswordHasher
	tokenService   authService.TokenService

	// Use Cases
	sessionManager authUseCase.SessionManager
	vaultUseCase   vaultUseCase.VaultUseCase

	// Clipboard
	clipboardGuard *clipboard.Guard

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	storeInit           sync.Once
	metricsProviderInit sync.Once
	aeadManagerInit     sync.Once
	keyDeriverInit      sync.Once
	passwordHasherInit  sync.Once
	tokenServiceInit    sync.Once
	sessionManagerInit  sync.Once
	vaultUseCaseInit    sync.Once
	clipboardGuardInit  sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// Store returns the file-backed entry store.
// Opening the store recovers any interrupted master-key rotation.
func (c *Container) Store() (*storage.Store, error) {
	var err error
	c.storeInit.Do(func() {
		c.store, err = c.initStore()
		if err != nil {
			c.initErrors["store"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["store"]; exists {
		return nil, storedErr
	}
	return c.store, nil
}

// MetricsProvider returns the metrics provider instance.
// Returns nil if metrics are disabled in configuration.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// AEADManager returns the AEAD cipher factory.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyDeriver returns the Argon2id key derivation service.
func (c *Container) KeyDeriver() cryptoService.KeyDeriver {
	c.keyDeriverInit.Do(func() {
		c.keyDeriver = cryptoService.NewKeyDerivation()
	})
	return c.keyDeriver
}

// PasswordHasher returns the master password hasher.
func (c *Container) PasswordHasher() cryptoService.PasswordHasher {
	c.passwordHasherInit.Do(func() {
		c.passwordHasher = cryptoService.NewPasswordHasher()
	})
	return c.passwordHasher
}

// TokenService returns the session token service.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// SessionManager returns the session manager instance.
func (c *Container) SessionManager() (authUseCase.SessionManager, error) {
	var err error
	c.sessionManagerInit.Do(func() {
		c.sessionManager, err = c.initSessionManager()
		if err != nil {
			c.initErrors["sessionManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionManager"]; exists {
		return nil, storedErr
	}
	return c.sessionManager, nil
}

// VaultUseCase returns the vault use case instance.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	var err error
	c.vaultUseCaseInit.Do(func() {
		c.vaultUseCase, err = c.initVaultUseCase()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// ClipboardGuard returns the clipboard guard instance.
func (c *Container) ClipboardGuard() *clipboard.Guard {
	c.clipboardGuardInit.Do(func() {
		c.clipboardGuard = clipboard.NewGuard(clipboard.NewSystemClipboard(), c.Logger())
	})
	return c.clipboardGuard
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance.
// Returns nil if metrics are disabled in configuration.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP servers if initialized
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

	// Lock the vault: drop all sessions and erase key material.
	if c.sessionManager != nil {
		c.sessionManager.LockAll()
	}

	// Clear any secret still pending on the clipboard.
	if c.clipboardGuard != nil {
		c.clipboardGuard.Close()
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
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

// initStore creates the file-backed entry store.
func (c *Container) initStore() (*storage.Store, error) {
	algorithm := cryptoDomain.Algorithm(c.config.EncryptionAlgorithm)
	switch algorithm {
	case cryptoDomain.AES256GCM, cryptoDomain.ChaCha20Poly1305:
	default:
		return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrUnsupportedAlgorithm, c.config.EncryptionAlgorithm)
	}

	store, err := storage.NewStore(c.config.DatabasePath, c.AEADManager(), algorithm, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to open vault store: %w", err)
	}
	return store, nil
}

// initSessionManager creates the session manager with all its dependencies.
func (c *Container) initSessionManager() (authUseCase.SessionManager, error) {
	store, err := c.Store()
	if err != nil {
		return nil, fmt.Errorf("failed to get store for session manager: %w", err)
	}

	return authUseCase.NewSessionManager(
		store,
		c.KeyDeriver(),
		c.PasswordHasher(),
		c.TokenService(),
		c.config.SessionTTL,
		c.Logger(),
	), nil
}

// initVaultUseCase creates the vault use case with all its dependencies.
// When metrics are enabled the use case is wrapped with the metrics decorator.
func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	store, err := c.Store()
	if err != nil {
		return nil, fmt.Errorf("failed to get store for vault use case: %w", err)
	}

	useCase := vaultUseCase.NewVaultUseCase(
		store,
		c.KeyDeriver(),
		c.PasswordHasher(),
		c.Logger(),
	)

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for vault use case: %w", err)
	}
	if provider != nil {
		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create business metrics: %w", err)
		}
		useCase = vaultUseCase.NewVaultUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	sessionManager, err := c.SessionManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get session manager for http server: %w", err)
	}

	useCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	router := http.NewRouter(http.RouterDeps{
		Config:          c.config,
		Logger:          logger,
		AuthHandler:     authHTTP.NewAuthHandler(sessionManager, logger),
		PasswordHandler: vaultHTTP.NewPasswordHandler(useCase, logger),
		SessionManager:  sessionManager,
		TokenService:    c.TokenService(),
		MetricsProvider: metricsProvider,
	})

	return http.NewServer(c.config.ServerHost, c.config.ServerPort, router, logger), nil
}

// initMetricsServer creates the metrics server with its provider.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}
