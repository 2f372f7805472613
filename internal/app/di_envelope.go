package app

import (
	"fmt"

	envelopeHTTP "github.com/allisson/qrseal/internal/envelope/http"
	envelopeUseCase "github.com/allisson/qrseal/internal/envelope/usecase"
)

// EnvelopeUseCase returns the envelope use case, wrapped with metrics when enabled.
func (c *Container) EnvelopeUseCase() (envelopeUseCase.EnvelopeUseCase, error) {
	var err error
	c.envelopeUseCaseInit.Do(func() {
		c.envelopeUseCase, err = c.initEnvelopeUseCase()
		if err != nil {
			c.setInitError("envelopeUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("envelopeUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.envelopeUseCase, nil
}

// EnvelopeHandler returns the envelope HTTP handler.
func (c *Container) EnvelopeHandler() (*envelopeHTTP.EnvelopeHandler, error) {
	var err error
	c.envelopeHandlerInit.Do(func() {
		c.envelopeHandler, err = c.initEnvelopeHandler()
		if err != nil {
			c.setInitError("envelopeHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("envelopeHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.envelopeHandler, nil
}

func (c *Container) initEnvelopeUseCase() (envelopeUseCase.EnvelopeUseCase, error) {
	secretCache, err := c.SecretCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret cache for envelope use case: %w", err)
	}

	cipher, err := c.EnvelopeCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope cipher for envelope use case: %w", err)
	}

	baseUseCase := envelopeUseCase.NewEnvelopeUseCase(secretCache, cipher)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for envelope use case: %w", err)
		}
		return envelopeUseCase.NewEnvelopeUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initEnvelopeHandler() (*envelopeHTTP.EnvelopeHandler, error) {
	useCase, err := c.EnvelopeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope use case for envelope handler: %w", err)
	}
	return envelopeHTTP.NewEnvelopeHandler(useCase, c.Logger()), nil
}
