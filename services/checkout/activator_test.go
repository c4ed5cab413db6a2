package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"telvia/clients"
	"telvia/models"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testAuthURL   = "http://auth.test"
	testPBXURL    = "http://pbx.test"
	testSMSPkgURL = "http://sms-pkg.test"
	testPBXPkgURL = "http://pbx-pkg.test"
)

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

type memoryNotifications struct {
	mu    sync.Mutex
	saved []models.Notification
}

func (m *memoryNotifications) Save(ctx context.Context, n models.Notification) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, n)
	return "id", nil
}

func (m *memoryNotifications) ListByPartner(ctx context.Context, partnerID int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Notification(nil), m.saved...), nil
}

func (m *memoryNotifications) MarkRead(ctx context.Context, id string) error { return nil }

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []models.ServiceType
}

func (f *fakeScheduler) ScheduleExpiryReminder(partnerID int, service models.ServiceType, packageName string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, service)
	return nil
}

func newTestActivator(t *testing.T) (*DefaultActivator, *memoryRunsRepo, *memoryNotifications, *fakeScheduler) {
	t.Helper()
	logger := zap.NewNop()
	runs := &memoryRunsRepo{}
	notifications := &memoryNotifications{}
	scheduler := &fakeScheduler{}

	activator := &DefaultActivator{
		Packages: clients.NewPackageClient(map[models.ServiceType]string{
			models.ServiceBulkSMS:   testSMSPkgURL,
			models.ServiceHostedPBX: testPBXPkgURL,
		}, logger),
		PBX:           clients.NewPBXClient(testPBXURL, logger),
		Auth:          clients.NewAuthClient(testAuthURL, logger),
		Partner:       clients.NewPartnerClient(testPartnerURL, logger),
		Runs:          runs,
		Notifications: notifications,
		Scheduler:     scheduler,
		Logger:        logger,
	}
	return activator, runs, notifications, scheduler
}

func TestActivateBulkSMS(t *testing.T) {
	activator, runs, notifications, scheduler := newTestActivator(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	var got models.PurchaseRequest
	httpmock.RegisterResponder("POST", testSMSPkgURL+"/package/purchase",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
			return httpmock.NewJsonResponse(200, map[string]string{"message": "ok"})
		})

	pending := models.PendingPurchase{
		ServiceType:  models.ServiceBulkSMS,
		PartnerID:    7,
		PackageID:    "sms-5k",
		PackageIDInt: 7101,
		PackageName:  "SMS 5K",
		Price:        1750,
	}
	run, err := activator.Activate(context.Background(), pending)
	require.NoError(t, err)
	assert.Equal(t, models.StepSucceeded, run.Status)

	// The purchase carries the derived amounts and the fixed terms.
	assert.Equal(t, 7101, got.IDPackage)
	assert.Equal(t, 7, got.IDPartner)
	assert.Equal(t, int64(1750), got.Price)
	assert.Equal(t, ComputeVAT(1750), got.VAT)
	assert.Equal(t, ComputeTotal(1750), got.Total)
	assert.Equal(t, packageValidityDays, got.Validity)
	assert.Equal(t, "ACTIVE", got.Status)
	assert.True(t, got.AutoRenewalStatus)

	// No PBX traffic for a non-PBX product.
	assert.Nil(t, stepNamed(runs.last(), "create-domain"))

	require.Len(t, scheduler.scheduled, 1)
	require.Len(t, notifications.saved, 1)
	assert.Equal(t, 7, notifications.saved[0].PartnerID)
	assert.Contains(t, notifications.saved[0].Message, "SMS 5K")
}

func stepNamed(run *models.SagaRun, name string) *models.SagaStep {
	if run == nil {
		return nil
	}
	for i := range run.Steps {
		if run.Steps[i].Name == name {
			return &run.Steps[i]
		}
	}
	return nil
}

func pbxPending() models.PendingPurchase {
	return models.PendingPurchase{
		ServiceType:  models.ServiceHostedPBX,
		PartnerID:    7,
		Email:        "billing@meghna.example",
		PackageID:    "bronze",
		PackageIDInt: 9132,
		PackageName:  "Bronze",
		Price:        1200,
	}
}

func registerPBXChainResponders(t *testing.T) *[]string {
	t.Helper()
	httpmock.RegisterResponder("POST", testPBXPkgURL+"/package/purchase",
		httpmock.NewJsonResponderOrPanic(200, map[string]string{"message": "ok"}))
	registerPartnerGetResponder()
	httpmock.RegisterResponder("POST", testAuthURL+"/user/getUserByEmail",
		httpmock.NewJsonResponderOrPanic(200, map[string]interface{}{
			"id": 42, "email": "billing@meghna.example",
		}))

	var domainNames []string
	httpmock.RegisterResponder("POST", testPBXURL+"/domain/create",
		func(req *http.Request) (*http.Response, error) {
			var body map[string]string
			_ = json.NewDecoder(req.Body).Decode(&body)
			domainNames = append(domainNames, body["name"])
			return httpmock.NewJsonResponse(200, map[string]string{"uuid": "dom-1"})
		})
	httpmock.RegisterResponder("POST", testPBXURL+"/gateway/create",
		httpmock.NewJsonResponderOrPanic(200, map[string]string{"uuid": "gw-1"}))
	httpmock.RegisterResponder("POST", testPBXURL+"/route/create",
		httpmock.NewJsonResponderOrPanic(200, map[string]string{"message": "ok"}))
	httpmock.RegisterResponder("POST", testAuthURL+"/user/editUser",
		httpmock.NewJsonResponderOrPanic(200, map[string]string{"message": "ok"}))
	return &domainNames
}

func TestActivateHostedPBXChain(t *testing.T) {
	activator, runs, _, _ := newTestActivator(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	domainNames := registerPBXChainResponders(t)

	run, err := activator.Activate(context.Background(), pbxPending())
	require.NoError(t, err)
	assert.Equal(t, models.StepSucceeded, run.Status)

	require.Len(t, *domainNames, 1)
	assert.Equal(t, "meghna.pbx.telvia.net", (*domainNames)[0])

	for _, name := range []string{"create-purchase", "lookup-partner", "lookup-user", "create-domain", "create-gateway", "create-route", "attach-domain"} {
		step := stepNamed(runs.last(), name)
		require.NotNil(t, step, "missing step %s", name)
		assert.Equal(t, models.StepSucceeded, step.Status, name)
	}
}

func TestActivatePBXChainFailureKeepsEarlierArtifacts(t *testing.T) {
	activator, runs, notifications, scheduler := newTestActivator(t)
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	registerPBXChainResponders(t)
	httpmock.RegisterResponder("POST", testPBXURL+"/gateway/create",
		httpmock.NewJsonResponderOrPanic(500, map[string]string{"message": "switch unreachable"}))

	_, err := activator.Activate(context.Background(), pbxPending())
	require.Error(t, err)

	run := runs.last()
	require.NotNil(t, run)
	assert.Equal(t, models.StepFailed, run.Status)
	assert.Equal(t, models.StepSucceeded, stepNamed(run, "create-domain").Status)
	assert.Equal(t, models.StepFailed, stepNamed(run, "create-gateway").Status)
	// The chain stopped; nothing after the failed step ran.
	assert.Nil(t, stepNamed(run, "create-route"))
	assert.Nil(t, stepNamed(run, "attach-domain"))

	// No reminder or notification for a failed activation.
	assert.Empty(t, scheduler.scheduled)
	assert.Empty(t, notifications.saved)
}

func TestDeriveDomainName(t *testing.T) {
	tests := []struct {
		company string
		domain  string
	}{
		{"Meghna Traders", "meghna.pbx.telvia.net"},
		{"  ACME  ", "acme.pbx.telvia.net"},
		{"solo", "solo.pbx.telvia.net"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.domain, DeriveDomainName(tc.company), tc.company)
	}
}
