package app

import (
	"fmt"

	cryptoDomain "github.com/allisson/pseudonymizer/internal/crypto/domain"
	"github.com/allisson/pseudonymizer/internal/database"
	pseudonymHTTP "github.com/allisson/pseudonymizer/internal/pseudonym/http"
	pseudonymMySQL "github.com/allisson/pseudonymizer/internal/pseudonym/repository/mysql"
	pseudonymPostgreSQL "github.com/allisson/pseudonymizer/internal/pseudonym/repository/postgresql"
	pseudonymService "github.com/allisson/pseudonymizer/internal/pseudonym/service"
	pseudonymUseCase "github.com/allisson/pseudonymizer/internal/pseudonym/usecase"
)

// Tokenizer returns the keyed tokenizer.
func (c *Container) Tokenizer() (pseudonymService.Tokenizer, error) {
	var err error
	c.tokenizerInit.Do(func() {
		c.tokenizer, err = c.initTokenizer()
		if err != nil {
			c.initErrors["tokenizer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenizer"]; exists {
		return nil, storedErr
	}
	return c.tokenizer, nil
}

// CipherBox returns the cipher box encrypting stored values.
func (c *Container) CipherBox() (pseudonymService.CipherBox, error) {
	var err error
	c.cipherBoxInit.Do(func() {
		c.cipherBox, err = c.initCipherBox()
		if err != nil {
			c.initErrors["cipherBox"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cipherBox"]; exists {
		return nil, storedErr
	}
	return c.cipherBox, nil
}

// MappingRepository returns the mapping repository for the configured database driver.
func (c *Container) MappingRepository() (pseudonymUseCase.MappingRepository, error) {
	var err error
	c.mappingRepositoryInit.Do(func() {
		c.mappingRepository, err = c.initMappingRepository()
		if err != nil {
			c.initErrors["mappingRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mappingRepository"]; exists {
		return nil, storedErr
	}
	return c.mappingRepository, nil
}

// DocumentUseCase returns the document use case, decorated with metrics when enabled.
func (c *Container) DocumentUseCase() (pseudonymUseCase.DocumentUseCase, error) {
	var err error
	c.documentUseCaseInit.Do(func() {
		c.documentUseCase, err = c.initDocumentUseCase()
		if err != nil {
			c.initErrors["documentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["documentUseCase"]; exists {
		return nil, storedErr
	}
	return c.documentUseCase, nil
}

// DocumentHandler returns the HTTP handler for document endpoints.
func (c *Container) DocumentHandler() (*pseudonymHTTP.DocumentHandler, error) {
	var err error
	c.documentHandlerInit.Do(func() {
		c.documentHandler, err = c.initDocumentHandler()
		if err != nil {
			c.initErrors["documentHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["documentHandler"]; exists {
		return nil, storedErr
	}
	return c.documentHandler, nil
}

func (c *Container) initTokenizer() (pseudonymService.Tokenizer, error) {
	key, err := c.SecretKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret key for tokenizer: %w", err)
	}
	return pseudonymService.NewTokenizer(key), nil
}

func (c *Container) initCipherBox() (pseudonymService.CipherBox, error) {
	key, err := c.SecretKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret key for cipher box: %w", err)
	}

	alg, err := cryptoDomain.ParseAlgorithm(c.config.CipherAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid cipher algorithm %q: %w", c.config.CipherAlgorithm, err)
	}

	cipherBox, err := pseudonymService.NewCipherBox(key, alg, c.AEADManager())
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher box: %w", err)
	}
	return cipherBox, nil
}

func (c *Container) initMappingRepository() (pseudonymUseCase.MappingRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for mapping repository: %w", err)
	}

	dialect, err := database.DialectFor(c.config.DBDriver)
	if err != nil {
		return nil, err
	}

	if dialect == database.DialectMySQL {
		return pseudonymMySQL.NewMySQLMappingRepository(db), nil
	}
	return pseudonymPostgreSQL.NewPostgreSQLMappingRepository(db), nil
}

func (c *Container) initDocumentUseCase() (pseudonymUseCase.DocumentUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for document use case: %w", err)
	}

	mappingRepository, err := c.MappingRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping repository for document use case: %w", err)
	}

	tokenizer, err := c.Tokenizer()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer for document use case: %w", err)
	}

	cipherBox, err := c.CipherBox()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher box for document use case: %w", err)
	}

	baseUseCase := pseudonymUseCase.NewDocumentUseCase(
		txManager,
		mappingRepository,
		tokenizer,
		cipherBox,
		pseudonymUseCase.Options{
			StrictDocumentTypes: c.config.StrictDocumentTypes,
			CollisionCheck:      c.config.CollisionCheckEnabled,
		},
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for document use case: %w", err)
		}
		return pseudonymUseCase.NewDocumentUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initDocumentHandler() (*pseudonymHTTP.DocumentHandler, error) {
	documentUseCase, err := c.DocumentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get document use case for document handler: %w", err)
	}
	return pseudonymHTTP.NewDocumentHandler(documentUseCase, c.Logger()), nil
}
