package checkout

import (
	"context"
	"fmt"
	"time"

	"telvia/clients"
	notificationRepo "telvia/database/repository/notification"
	provisionRepo "telvia/database/repository/provision"
	"telvia/models"

	"go.uber.org/zap"
)

// defaultPortalPassword is the initial product-portal credential shown on
// the activation panel. A shared hardcoded initial password is a known
// security gap inherited from the legacy flow; changing it needs product
// sign-off because the product portals seed the same value.
const defaultPortalPassword = "telvia@123"

// PortalAccess is the credential block the activation panel displays.
type PortalAccess struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// PortalAccessFor returns the product-portal entry point and initial
// credentials for an activated service.
func PortalAccessFor(service models.ServiceType, email string) *PortalAccess {
	url, ok := portalURLs[service]
	if !ok {
		return nil
	}
	return &PortalAccess{URL: url, Username: email, Password: defaultPortalPassword}
}

// portalURLs are the per-product self-care portals named in the activation
// notification.
var portalURLs = map[models.ServiceType]string{
	models.ServiceBulkSMS:        "https://sms.telvia.net",
	models.ServiceHostedPBX:      "https://pbx.telvia.net",
	models.ServiceVoiceBroadcast: "https://broadcast.telvia.net",
	models.ServiceContactCenter:  "https://cc.telvia.net",
}

// DefaultActivator provisions purchased packages. Activation is sequential
// and non-transactional: a failed step aborts the rest, earlier artifacts
// remain, and the recorded run is the audit trail for support.
type DefaultActivator struct {
	Packages      *clients.PackageClient
	PBX           *clients.PBXClient
	Auth          *clients.AuthClient
	Partner       *clients.PartnerClient
	Runs          provisionRepo.Repository
	Notifications notificationRepo.Repository
	Scheduler     ReminderScheduler
	Logger        *zap.Logger
}

// Activate creates the purchase record on the product's billing backend and
// runs any product-specific provisioning chain, then schedules the expiry
// reminder and writes the dashboard notification.
func (a *DefaultActivator) Activate(ctx context.Context, pending models.PendingPurchase) (*models.SagaRun, error) {
	run := models.NewSagaRun("activation", pending.PartnerID, pending.ServiceType)
	defer a.saveRun(ctx, run)

	err := run.Step("create-purchase", func() error {
		return a.Packages.Purchase(ctx, pending.ServiceType, models.PurchaseRequest{
			IDPackage:         pending.PackageIDInt,
			IDPartner:         pending.PartnerID,
			Price:             pending.Price,
			VAT:               ComputeVAT(pending.Price),
			Total:             ComputeTotal(pending.Price),
			Validity:          packageValidityDays,
			Status:            "ACTIVE",
			AutoRenewalStatus: true,
		})
	})
	if err != nil {
		return run, fmt.Errorf("purchase creation failed: %w", err)
	}

	if pending.ServiceType == models.ServiceHostedPBX {
		if err := a.provisionPBX(ctx, run, pending); err != nil {
			return run, err
		}
	}
	run.Finish()

	expiresAt := time.Now().AddDate(0, 0, packageValidityDays)
	if a.Scheduler != nil {
		if err := a.Scheduler.ScheduleExpiryReminder(pending.PartnerID, pending.ServiceType, pending.PackageName, expiresAt); err != nil {
			a.Logger.Warn("failed to schedule expiry reminder",
				zap.Int("partnerId", pending.PartnerID), zap.Error(err))
		}
	}
	a.notifyActivated(ctx, pending)

	a.Logger.Info("service activated",
		zap.Int("partnerId", pending.PartnerID),
		zap.String("service", string(pending.ServiceType)),
		zap.String("package", pending.PackageID))
	return run, nil
}

func (a *DefaultActivator) notifyActivated(ctx context.Context, pending models.PendingPurchase) {
	if a.Notifications == nil {
		return
	}
	message := fmt.Sprintf("Your %s %s package is now active.", pending.ServiceType, pending.PackageName)
	if portal, ok := portalURLs[pending.ServiceType]; ok {
		message += fmt.Sprintf(" Manage it at %s.", portal)
	}
	_, err := a.Notifications.Save(ctx, models.Notification{
		PartnerID: pending.PartnerID,
		Type:      "activation",
		Message:   message,
	})
	if err != nil {
		a.Logger.Warn("failed to write activation notification",
			zap.Int("partnerId", pending.PartnerID), zap.Error(err))
	}
}

func (a *DefaultActivator) saveRun(ctx context.Context, run *models.SagaRun) {
	if a.Runs == nil {
		return
	}
	if err := a.Runs.Save(ctx, run); err != nil {
		a.Logger.Error("failed to persist activation run",
			zap.String("runId", run.ID), zap.Error(err))
	}
}
