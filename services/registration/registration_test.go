package registration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"telvia/clients"
	"telvia/models"
	"telvia/services/token"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	partnerBaseURL = "http://partner.test"
	authBaseURL    = "http://auth.test"
	nidBaseURL     = "http://nid.test"
)

type fakeStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (f *fakeStorage) UploadDocument(ctx context.Context, localFilePath, sessionID, docType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	publicID := "kyc/" + sessionID + "/" + docType
	f.files[publicID] = []byte("content of " + docType)
	return publicID, nil
}

func (f *fakeStorage) FetchDocument(ctx context.Context, publicID string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[publicID]
	if !ok {
		data = []byte("staged " + publicID)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) DeleteDocument(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, publicID)
	return nil
}

type memoryRunsRepo struct {
	mu   sync.Mutex
	runs []*models.SagaRun
}

func (m *memoryRunsRepo) Save(ctx context.Context, run *models.SagaRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.runs {
		if existing.ID == run.ID {
			m.runs[i] = run
			return nil
		}
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *memoryRunsRepo) GetByID(ctx context.Context, id string) (*models.SagaRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, run := range m.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, errors.New("run not found")
}

func (m *memoryRunsRepo) ListByPartner(ctx context.Context, partnerID int) ([]models.SagaRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SagaRun
	for _, run := range m.runs {
		if run.PartnerID == partnerID {
			out = append(out, *run)
		}
	}
	return out, nil
}

func (m *memoryRunsRepo) last() *models.SagaRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.runs) == 0 {
		return nil
	}
	return m.runs[len(m.runs)-1]
}

func newTestService(t *testing.T) (*DefaultRegistrationService, *memoryRunsRepo) {
	t.Helper()
	simulatedCallDelay = 0

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := zap.NewNop()
	runs := &memoryRunsRepo{}

	svc := &DefaultRegistrationService{
		SessionClient: client,
		Partner:       clients.NewPartnerClient(partnerBaseURL, logger),
		Auth:          clients.NewAuthClient(authBaseURL, logger),
		NID:           clients.NewNIDClient(nidBaseURL, logger),
		Store:         token.NewRedisSessionStore(client),
		Storage:       newFakeStorage(),
		Runs:          runs,
		OTPMode:       models.ModeLive,
		NIDMode:       models.ModeLive,
		Logger:        logger,
	}
	return svc, runs
}
