package app

import (
	"context"
	"fmt"

	"gocloud.dev/blob"

	cryptoDomain "github.com/allisson/pseudonymizer/internal/crypto/domain"
	cryptoService "github.com/allisson/pseudonymizer/internal/crypto/service"
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

// KeyStore returns the blob bucket holding the persisted secret key.
func (c *Container) KeyStore() (*blob.Bucket, error) {
	var err error
	c.keyStoreInit.Do(func() {
		c.keyStore, err = cryptoService.OpenKeyStore(context.Background(), c.config.KeyStoreURL)
		if err != nil {
			c.initErrors["keyStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// KMSKeeper returns the keeper wrapping the persisted key, or nil when no
// KMS key URI is configured.
func (c *Container) KMSKeeper() (cryptoDomain.KMSKeeper, error) {
	var err error
	c.kmsKeeperInit.Do(func() {
		if c.config.KMSKeyURI == "" {
			return
		}
		c.kmsKeeper, err = c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["kmsKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kmsKeeper"]; exists {
		return nil, storedErr
	}
	return c.kmsKeeper, nil
}

// KeyManager returns the key manager bound to the key store.
func (c *Container) KeyManager() (cryptoService.KeyManager, error) {
	var err error
	c.keyManagerInit.Do(func() {
		c.keyManager, err = c.initKeyManager()
		if err != nil {
			c.initErrors["keyManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyManager"]; exists {
		return nil, storedErr
	}
	return c.keyManager, nil
}

// SecretKey returns the process-wide secret key, loading it from the key store
// or creating it on first run.
func (c *Container) SecretKey() (*cryptoDomain.SecretKey, error) {
	var err error
	c.secretKeyInit.Do(func() {
		c.secretKey, err = c.initSecretKey()
		if err != nil {
			c.initErrors["secretKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretKey"]; exists {
		return nil, storedErr
	}
	return c.secretKey, nil
}

func (c *Container) initKeyManager() (cryptoService.KeyManager, error) {
	bucket, err := c.KeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open key store: %w", err)
	}

	keeper, err := c.KMSKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper: %w", err)
	}

	return cryptoService.NewKeyManager(bucket, c.config.KeyObjectName, keeper, c.Logger()), nil
}

func (c *Container) initSecretKey() (*cryptoDomain.SecretKey, error) {
	keyManager, err := c.KeyManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get key manager: %w", err)
	}

	key, err := keyManager.LoadOrCreate(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load secret key: %w", err)
	}
	return key, nil
}
