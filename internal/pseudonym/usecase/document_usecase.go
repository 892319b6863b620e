package usecase

import (
	"context"
	"log/slog"

	"github.com/allisson/pseudonymizer/internal/database"
	apperrors "github.com/allisson/pseudonymizer/internal/errors"
	pseudonymDomain "github.com/allisson/pseudonymizer/internal/pseudonym/domain"
	pseudonymService "github.com/allisson/pseudonymizer/internal/pseudonym/service"
)

// Options toggles the optional hardening behaviors of the document use case.
type Options struct {
	// StrictDocumentTypes makes unknown document types fail with ErrUnknownDocumentType
	// instead of passing through unchanged.
	StrictDocumentTypes bool

	// CollisionCheck reads every mapping back after saving it and fails with
	// ErrTokenCollision when the stored value differs from the one being saved.
	CollisionCheck bool
}

// documentUseCase implements DocumentUseCase.
type documentUseCase struct {
	txManager   database.TxManager
	mappingRepo MappingRepository
	tokenizer   pseudonymService.Tokenizer
	cipherBox   pseudonymService.CipherBox
	opts        Options
	logger      *slog.Logger
}

// Deidentify tokenizes the declared PII fields of doc.
func (d *documentUseCase) Deidentify(
	ctx context.Context,
	doc pseudonymDomain.Document,
) (pseudonymDomain.Document, error) {
	out, pii, fields, err := d.prepare(ctx, doc)
	if err != nil || pii == nil {
		return out, err
	}

	// Values repeated across fields are tokenized and stored once.
	seen := make(map[string]string, len(fields))
	tokenized := 0

	for _, field := range fields {
		value, ok := pii[field].(string)
		if !ok || pseudonymDomain.IsToken(value) {
			continue
		}

		token, ok := seen[value]
		if !ok {
			token, err = d.protect(ctx, value)
			if err != nil {
				return nil, err
			}
			seen[value] = token
		}

		pii[field] = token
		tokenized++
	}

	d.logger.Debug("document deidentified",
		slog.String("document_type", string(doc.Type())),
		slog.Int("fields_tokenized", tokenized),
	)
	return out, nil
}

// Reidentify restores the declared PII fields of doc that hold known tokens.
func (d *documentUseCase) Reidentify(
	ctx context.Context,
	doc pseudonymDomain.Document,
) (pseudonymDomain.Document, error) {
	out, pii, fields, err := d.prepare(ctx, doc)
	if err != nil || pii == nil {
		return out, err
	}

	restored, unresolved := 0, 0

	for _, field := range fields {
		value, ok := pii[field].(string)
		if !ok || !pseudonymDomain.IsToken(value) {
			continue
		}
		// A prefixed value of the wrong shape can never have been issued.
		if pseudonymDomain.ValidateToken(value) != nil {
			unresolved++
			continue
		}

		mapping, err := d.mappingRepo.Get(ctx, value)
		if err != nil {
			if apperrors.Is(err, pseudonymDomain.ErrMappingNotFound) {
				unresolved++
				continue
			}
			return nil, err
		}

		plaintext, err := d.cipherBox.Decrypt(mapping.Ciphertext)
		if err != nil {
			return nil, err
		}

		pii[field] = plaintext
		restored++
	}

	d.logger.Debug("document reidentified",
		slog.String("document_type", string(doc.Type())),
		slog.Int("fields_restored", restored),
		slog.Int("tokens_unresolved", unresolved),
	)
	return out, nil
}

// prepare copies doc and resolves its declared field set. A nil pii with a nil error
// means there is nothing to transform and the copy should be returned as is.
func (d *documentUseCase) prepare(
	ctx context.Context,
	doc pseudonymDomain.Document,
) (pseudonymDomain.Document, map[string]any, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	out := doc.Clone()

	fields, ok := pseudonymDomain.FieldsFor(doc.Type())
	if !ok {
		if d.opts.StrictDocumentTypes {
			return nil, nil, nil, pseudonymDomain.ErrUnknownDocumentType
		}
		d.logger.Warn("unknown document type, document left unchanged",
			slog.String("document_type", string(doc.Type())),
		)
		return out, nil, nil, nil
	}

	pii, present, err := out.PII()
	if err != nil {
		return nil, nil, nil, err
	}
	if !present {
		return out, nil, nil, nil
	}
	return out, pii, fields, nil
}

// protect derives the token for value, stores its encryption and returns the token.
func (d *documentUseCase) protect(ctx context.Context, value string) (string, error) {
	token := d.tokenizer.TokenFor(value)

	ciphertext, err := d.cipherBox.Encrypt(value)
	if err != nil {
		return "", err
	}
	mapping := &pseudonymDomain.Mapping{Token: token, Ciphertext: ciphertext}

	if !d.opts.CollisionCheck {
		if err := d.mappingRepo.Save(ctx, mapping); err != nil {
			return "", err
		}
		return token, nil
	}

	err = d.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := d.mappingRepo.Save(ctx, mapping); err != nil {
			return err
		}

		stored, err := d.mappingRepo.Get(ctx, token)
		if err != nil {
			return err
		}

		existing, err := d.cipherBox.Decrypt(stored.Ciphertext)
		if err != nil {
			return err
		}
		if existing != value {
			d.logger.Error("token collision detected")
			return pseudonymDomain.ErrTokenCollision
		}
		return nil
	})
	if err != nil {
		return "", apperrors.Mark(err, pseudonymDomain.ErrStorageUnavailable)
	}
	return token, nil
}

// NewDocumentUseCase creates a new DocumentUseCase.
func NewDocumentUseCase(
	txManager database.TxManager,
	mappingRepo MappingRepository,
	tokenizer pseudonymService.Tokenizer,
	cipherBox pseudonymService.CipherBox,
	opts Options,
	logger *slog.Logger,
) DocumentUseCase {
	return &documentUseCase{
		txManager:   txManager,
		mappingRepo: mappingRepo,
		tokenizer:   tokenizer,
		cipherBox:   cipherBox,
		opts:        opts,
		logger:      logger,
	}
}
