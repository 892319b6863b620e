package usecase

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	cryptoDomain "github.com/allisson/pseudonymizer/internal/crypto/domain"
	cryptoService "github.com/allisson/pseudonymizer/internal/crypto/service"
	pseudonymDomain "github.com/allisson/pseudonymizer/internal/pseudonym/domain"
	pseudonymService "github.com/allisson/pseudonymizer/internal/pseudonym/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// createTestLogger creates a test logger that discards output.
func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryMappingRepository is an insert-if-absent map used as an in-process store.
type memoryMappingRepository struct {
	mu   sync.Mutex
	rows map[string][]byte
}

func newMemoryMappingRepository() *memoryMappingRepository {
	return &memoryMappingRepository{rows: make(map[string][]byte)}
}

func (m *memoryMappingRepository) Save(_ context.Context, mapping *pseudonymDomain.Mapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[mapping.Token]; !ok {
		m.rows[mapping.Token] = bytes.Clone(mapping.Ciphertext)
	}
	return nil
}

func (m *memoryMappingRepository) Get(_ context.Context, token string) (*pseudonymDomain.Mapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ciphertext, ok := m.rows[token]
	if !ok {
		return nil, pseudonymDomain.ErrMappingNotFound
	}
	return &pseudonymDomain.Mapping{Token: token, Ciphertext: bytes.Clone(ciphertext)}, nil
}

func (m *memoryMappingRepository) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// passthroughTxManager runs fn without a transaction, or fails like a
// database that refuses to begin one when beginErr is set.
type passthroughTxManager struct {
	calls    int
	beginErr error
}

func (p *passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	if p.beginErr != nil {
		return p.beginErr
	}
	return fn(ctx)
}

// mockMappingRepository is a mock implementation of MappingRepository.
type mockMappingRepository struct {
	mock.Mock
}

func (m *mockMappingRepository) Save(ctx context.Context, mapping *pseudonymDomain.Mapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *mockMappingRepository) Get(ctx context.Context, token string) (*pseudonymDomain.Mapping, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pseudonymDomain.Mapping), args.Error(1)
}

// mockCipherBox is a mock implementation of CipherBox.
type mockCipherBox struct {
	mock.Mock
}

func (m *mockCipherBox) Encrypt(value string) ([]byte, error) {
	args := m.Called(value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockCipherBox) Decrypt(envelope []byte) (string, error) {
	args := m.Called(envelope)
	return args.String(0), args.Error(1)
}

// mockDocumentUseCase is a mock implementation of DocumentUseCase.
type mockDocumentUseCase struct {
	mock.Mock
}

func (m *mockDocumentUseCase) Deidentify(
	ctx context.Context,
	doc pseudonymDomain.Document,
) (pseudonymDomain.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pseudonymDomain.Document), args.Error(1)
}

func (m *mockDocumentUseCase) Reidentify(
	ctx context.Context,
	doc pseudonymDomain.Document,
) (pseudonymDomain.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pseudonymDomain.Document), args.Error(1)
}

// testKit bundles a use case wired to real crypto and an in-memory store.
type testKit struct {
	useCase   DocumentUseCase
	repo      *memoryMappingRepository
	tokenizer pseudonymService.Tokenizer
	cipherBox pseudonymService.CipherBox
	txManager *passthroughTxManager
}

func newTestKit(t *testing.T, opts Options) *testKit {
	t.Helper()

	key, err := cryptoDomain.NewSecretKey(bytes.Repeat([]byte{0x42}, cryptoDomain.SecretKeySize))
	require.NoError(t, err)

	cipherBox, err := pseudonymService.NewCipherBox(key, cryptoDomain.AESGCM, cryptoService.NewAEADManager())
	require.NoError(t, err)

	kit := &testKit{
		repo:      newMemoryMappingRepository(),
		tokenizer: pseudonymService.NewTokenizer(key),
		cipherBox: cipherBox,
		txManager: &passthroughTxManager{},
	}
	kit.useCase = NewDocumentUseCase(kit.txManager, kit.repo, kit.tokenizer, kit.cipherBox, opts, createTestLogger())
	return kit
}

func labReport() pseudonymDomain.Document {
	return pseudonymDomain.Document{
		"Document_Type": "Lab Report",
		"PII": map[string]any{
			"Name": "Jane Doe",
			"DOB":  "1990-01-01",
			"ID":   "P123",
			"Date": "2024-01-01",
		},
	}
}
