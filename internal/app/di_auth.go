package app

import (
	"fmt"

	authHTTP "github.com/allisson/qrseal/internal/auth/http"
	authRepository "github.com/allisson/qrseal/internal/auth/repository"
	authService "github.com/allisson/qrseal/internal/auth/service"
	authUseCase "github.com/allisson/qrseal/internal/auth/usecase"
	"github.com/allisson/qrseal/internal/config"
	"github.com/allisson/qrseal/internal/database"
)

// SecretService returns the client secret service.
func (c *Container) SecretService() (authService.SecretService, error) {
	var err error
	c.secretServiceInit.Do(func() {
		c.secretService, err = authService.NewSecretService()
		if err != nil {
			c.setInitError("secretService", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretService"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretService, nil
}

// TokenService returns the bearer token service.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// ClientRepository returns the client repository selected by AUTH_STORE.
func (c *Container) ClientRepository() (authUseCase.ClientRepository, error) {
	var err error
	c.clientRepositoryInit.Do(func() {
		c.clientRepository, err = c.initClientRepository()
		if err != nil {
			c.setInitError("clientRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("clientRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.clientRepository, nil
}

// TokenRepository returns the token repository selected by AUTH_STORE.
func (c *Container) TokenRepository() (authUseCase.TokenRepository, error) {
	var err error
	c.tokenRepositoryInit.Do(func() {
		c.tokenRepository, err = c.initTokenRepository()
		if err != nil {
			c.setInitError("tokenRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenRepository, nil
}

// ClientUseCase returns the client use case.
func (c *Container) ClientUseCase() (authUseCase.ClientUseCase, error) {
	var err error
	c.clientUseCaseInit.Do(func() {
		c.clientUseCase, err = c.initClientUseCase()
		if err != nil {
			c.setInitError("clientUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("clientUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.clientUseCase, nil
}

// TokenUseCase returns the token use case, wrapped with metrics when enabled.
func (c *Container) TokenUseCase() (authUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.setInitError("tokenUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// TokenHandler returns the token HTTP handler.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		var useCase authUseCase.TokenUseCase
		useCase, err = c.TokenUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get token use case for token handler: %w", err)
			c.setInitError("tokenHandler", err)
			return
		}
		c.tokenHandler = authHTTP.NewTokenHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

func (c *Container) initClientRepository() (authUseCase.ClientRepository, error) {
	switch c.config.AuthStore {
	case config.AuthStoreRedis:
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for client repository: %w", err)
		}
		return authRepository.NewRedisClientRepository(client, c.config.AuthRedisKeyPrefix), nil
	case config.AuthStoreSQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for client repository: %w", err)
		}
		if c.SQLDriver() == database.DriverMySQL {
			return authRepository.NewMySQLClientRepository(db), nil
		}
		return authRepository.NewPostgreSQLClientRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported auth store %q", c.config.AuthStore)
	}
}

func (c *Container) initTokenRepository() (authUseCase.TokenRepository, error) {
	switch c.config.AuthStore {
	case config.AuthStoreRedis:
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for token repository: %w", err)
		}
		return authRepository.NewRedisTokenRepository(client, c.config.AuthRedisKeyPrefix), nil
	case config.AuthStoreSQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for token repository: %w", err)
		}
		if c.SQLDriver() == database.DriverMySQL {
			return authRepository.NewMySQLTokenRepository(db), nil
		}
		return authRepository.NewPostgreSQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported auth store %q", c.config.AuthStore)
	}
}

func (c *Container) initClientUseCase() (authUseCase.ClientUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for client use case: %w", err)
	}

	secretService, err := c.SecretService()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret service for client use case: %w", err)
	}

	return authUseCase.NewClientUseCase(clientRepo, secretService), nil
}

func (c *Container) initTokenUseCase() (authUseCase.TokenUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for token use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	secretService, err := c.SecretService()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret service for token use case: %w", err)
	}

	baseUseCase := authUseCase.NewTokenUseCase(
		clientRepo,
		tokenRepo,
		secretService,
		c.TokenService(),
		c.config.AuthTokenExpiration,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		return authUseCase.NewTokenUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
