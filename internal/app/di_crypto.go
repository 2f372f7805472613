package app

import (
	"fmt"

	cryptoDomain "github.com/allisson/qrseal/internal/crypto/domain"
	cryptoService "github.com/allisson/qrseal/internal/crypto/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// EnvelopeCipher returns the envelope cipher for CIPHER_ALGORITHM.
func (c *Container) EnvelopeCipher() (cryptoService.EnvelopeCipher, error) {
	var err error
	c.envelopeCipherInit.Do(func() {
		c.envelopeCipher, err = c.initEnvelopeCipher()
		if err != nil {
			c.setInitError("envelopeCipher", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("envelopeCipher"); storedErr != nil {
		return nil, storedErr
	}
	return c.envelopeCipher, nil
}

func (c *Container) initEnvelopeCipher() (cryptoService.EnvelopeCipher, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.CipherAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid cipher algorithm %q: %w", c.config.CipherAlgorithm, err)
	}

	cipher, err := cryptoService.NewEnvelopeCipher(c.AEADManager(), alg)
	if err != nil {
		return nil, fmt.Errorf("failed to create envelope cipher: %w", err)
	}
	return cipher, nil
}
