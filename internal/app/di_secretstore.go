package app

import (
	"context"
	"fmt"

	"github.com/allisson/qrseal/internal/config"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
	secretService "github.com/allisson/qrseal/internal/secretstore/service"
	secretUseCase "github.com/allisson/qrseal/internal/secretstore/usecase"
)

// SecretLocation returns the namespace/document/field triple from configuration.
func (c *Container) SecretLocation() secretDomain.Location {
	return secretDomain.Location{
		Namespace: c.config.SecretNamespace,
		Document:  c.config.SecretDocument,
		Field:     c.config.SecretField,
	}
}

// SecretFetcher returns the fetcher selected by SECRET_PROVIDER.
func (c *Container) SecretFetcher() (secretUseCase.SecretFetcher, error) {
	var err error
	c.secretFetcherInit.Do(func() {
		c.secretFetcher, err = c.initSecretFetcher()
		if err != nil {
			c.setInitError("secretFetcher", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretFetcher"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretFetcher, nil
}

// SecretCache returns the process-wide secret cache.
func (c *Container) SecretCache() (*secretUseCase.SecretCache, error) {
	var err error
	c.secretCacheInit.Do(func() {
		c.secretCache, err = c.initSecretCache()
		if err != nil {
			c.setInitError("secretCache", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretCache"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretCache, nil
}

// SecretWriter returns the writer for the configured document store.
// Only the redis, postgres and mysql providers are writable.
func (c *Container) SecretWriter() (secretUseCase.SecretWriter, error) {
	var err error
	c.secretWriterInit.Do(func() {
		c.secretWriter, err = c.initSecretWriter()
		if err != nil {
			c.setInitError("secretWriter", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretWriter"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretWriter, nil
}

func (c *Container) initSecretFetcher() (secretUseCase.SecretFetcher, error) {
	location := c.SecretLocation()

	switch c.config.SecretProvider {
	case config.SecretProviderEnv:
		return secretService.NewEnvFetcher(c.config.SecretValue), nil

	case config.SecretProviderKMS:
		return secretService.NewKMSFetcher(
			c.KMSService(),
			c.config.KMSKeyURI,
			c.config.SecretCiphertext,
		), nil

	case config.SecretProviderRuntimeVar:
		fetcher, err := secretService.NewRuntimeVarFetcher(
			context.Background(),
			c.config.SecretRuntimeVarURL,
			location.Field,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to open runtimevar secret source: %w", err)
		}
		c.mu.Lock()
		c.fetcherCloser = fetcher.Close
		c.mu.Unlock()
		return fetcher, nil

	case config.SecretProviderRedis:
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for secret fetcher: %w", err)
		}
		return secretService.NewRedisFetcher(client, location), nil

	case config.SecretProviderPostgres:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for secret fetcher: %w", err)
		}
		return secretService.NewPostgreSQLFetcher(db, location), nil

	case config.SecretProviderMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for secret fetcher: %w", err)
		}
		return secretService.NewMySQLFetcher(db, location), nil

	default:
		return nil, fmt.Errorf("unsupported secret provider: %s", c.config.SecretProvider)
	}
}

func (c *Container) initSecretCache() (*secretUseCase.SecretCache, error) {
	fetcher, err := c.SecretFetcher()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret fetcher for secret cache: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for secret cache: %w", err)
	}

	return secretUseCase.NewSecretCache(
		fetcher,
		c.config.SecretFetchTimeout,
		businessMetrics,
		c.Logger(),
	), nil
}

func (c *Container) initSecretWriter() (secretUseCase.SecretWriter, error) {
	switch c.config.SecretProvider {
	case config.SecretProviderRedis:
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for secret writer: %w", err)
		}
		return secretService.NewRedisDocumentWriter(client), nil

	case config.SecretProviderPostgres, config.SecretProviderMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for secret writer: %w", err)
		}
		txManager, err := c.TxManager()
		if err != nil {
			return nil, fmt.Errorf("failed to get tx manager for secret writer: %w", err)
		}
		if c.config.SecretProvider == config.SecretProviderMySQL {
			return secretService.NewMySQLDocumentWriter(db, txManager), nil
		}
		return secretService.NewPostgreSQLDocumentWriter(db, txManager), nil

	default:
		return nil, fmt.Errorf("secret provider %q is read-only", c.config.SecretProvider)
	}
}
