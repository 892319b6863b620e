package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	cryptoDomain "github.com/allisson/pseudonymizer/internal/crypto/domain"
)

// Persisted key object layout: "<version>:<mode>:<base64 payload>".
// Mode raw stores the material itself, mode kms stores it wrapped by a KMS keeper.
const (
	keyObjectVersion = "v1"
	keyModeRaw       = "raw"
	keyModeKMS       = "kms"
)

// BlobKeyManager loads the secret key from a blob bucket, creating it on first use.
type BlobKeyManager struct {
	bucket     *blob.Bucket
	objectName string
	keeper     cryptoDomain.KMSKeeper
	logger     *slog.Logger
}

// NewKeyManager creates a KeyManager backed by bucket. When keeper is non-nil the
// material is wrapped with it before being written and unwrapped after being read.
func NewKeyManager(
	bucket *blob.Bucket,
	objectName string,
	keeper cryptoDomain.KMSKeeper,
	logger *slog.Logger,
) *BlobKeyManager {
	return &BlobKeyManager{
		bucket:     bucket,
		objectName: objectName,
		keeper:     keeper,
		logger:     logger,
	}
}

// LoadOrCreate returns the persisted secret key. An existing object is never
// replaced: undecodable content yields ErrInvalidKeyMaterial and read failures
// yield ErrKeyStorageUnavailable. A missing object triggers generation of 32
// random bytes which are persisted before being returned. Creation is a
// conditional write, so concurrent first runs all end up with the same key.
func (m *BlobKeyManager) LoadOrCreate(ctx context.Context) (*cryptoDomain.SecretKey, error) {
	data, err := m.bucket.ReadAll(ctx, m.objectName)
	switch {
	case err == nil:
		return m.load(ctx, data)
	case gcerrors.Code(err) == gcerrors.NotFound:
		return m.create(ctx)
	default:
		return nil, fmt.Errorf("%w: failed to read %q: %v", cryptoDomain.ErrKeyStorageUnavailable, m.objectName, err)
	}
}

func (m *BlobKeyManager) load(ctx context.Context, data []byte) (*cryptoDomain.SecretKey, error) {
	material, err := m.decode(ctx, data)
	if err != nil {
		return nil, err
	}
	defer clear(material)

	key, err := cryptoDomain.NewSecretKey(material)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKeyMaterial, err)
	}

	m.logger.Info("secret key loaded",
		slog.String("object", m.objectName),
		slog.String("fingerprint", key.Fingerprint()),
	)
	return key, nil
}

func (m *BlobKeyManager) create(ctx context.Context) (*cryptoDomain.SecretKey, error) {
	material := make([]byte, cryptoDomain.SecretKeySize)
	defer clear(material)

	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("failed to generate secret key: %w", err)
	}

	encoded, err := m.encode(ctx, material)
	if err != nil {
		return nil, err
	}

	opts := &blob.WriterOptions{ContentType: "text/plain", IfNotExist: true}
	if err := m.bucket.WriteAll(ctx, m.objectName, encoded, opts); err != nil {
		if gcerrors.Code(err) == gcerrors.FailedPrecondition {
			return m.loadExisting(ctx)
		}
		return nil, fmt.Errorf("%w: failed to write %q: %v", cryptoDomain.ErrKeyStorageUnavailable, m.objectName, err)
	}

	key, err := cryptoDomain.NewSecretKey(material)
	if err != nil {
		return nil, err
	}

	m.logger.Info("secret key created",
		slog.String("object", m.objectName),
		slog.String("fingerprint", key.Fingerprint()),
		slog.Bool("kms_wrapped", m.keeper != nil),
	)
	return key, nil
}

// loadExisting adopts the key written by another process that won the creation race.
func (m *BlobKeyManager) loadExisting(ctx context.Context) (*cryptoDomain.SecretKey, error) {
	m.logger.Info("secret key created concurrently, loading the stored one",
		slog.String("object", m.objectName),
	)

	data, err := m.bucket.ReadAll(ctx, m.objectName)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %q: %v", cryptoDomain.ErrKeyStorageUnavailable, m.objectName, err)
	}
	return m.load(ctx, data)
}

func (m *BlobKeyManager) encode(ctx context.Context, material []byte) ([]byte, error) {
	mode := keyModeRaw
	payload := material

	if m.keeper != nil {
		wrapped, err := m.keeper.Encrypt(ctx, material)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to wrap secret key: %v", cryptoDomain.ErrKeyStorageUnavailable, err)
		}
		mode = keyModeKMS
		payload = wrapped
	}

	out := fmt.Sprintf("%s:%s:%s\n", keyObjectVersion, mode, base64.StdEncoding.EncodeToString(payload))
	return []byte(out), nil
}

func (m *BlobKeyManager) decode(ctx context.Context, data []byte) ([]byte, error) {
	parts := bytes.SplitN(bytes.TrimSpace(data), []byte(":"), 3)
	if len(parts) != 3 || string(parts[0]) != keyObjectVersion {
		return nil, fmt.Errorf("%w: unrecognized key object format", cryptoDomain.ErrInvalidKeyMaterial)
	}

	payload, err := base64.StdEncoding.DecodeString(string(parts[2]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKeyMaterial, err)
	}

	switch string(parts[1]) {
	case keyModeRaw:
		return payload, nil
	case keyModeKMS:
		if m.keeper == nil {
			return nil, fmt.Errorf("%w: key object is KMS-wrapped but no KMS key is configured", cryptoDomain.ErrInvalidKeyMaterial)
		}
		material, err := m.keeper.Decrypt(ctx, payload)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to unwrap secret key: %v", cryptoDomain.ErrInvalidKeyMaterial, err)
		}
		return material, nil
	default:
		return nil, fmt.Errorf("%w: unknown key mode %q", cryptoDomain.ErrInvalidKeyMaterial, parts[1])
	}
}
