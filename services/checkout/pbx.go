package checkout

import (
	"context"
	"fmt"
	"strings"

	"telvia/clients"
	"telvia/models"
)

// pbxDomainSuffix is appended to the tenant's derived name to form the SIP
// domain.
const pbxDomainSuffix = ".pbx.telvia.net"

// DeriveDomainName builds the tenant domain from the partner's company name:
// the first word, lowercased, plus the fixed suffix.
func DeriveDomainName(companyName string) string {
	name := strings.ToLower(strings.TrimSpace(companyName))
	if i := strings.IndexAny(name, " \t"); i > 0 {
		name = name[:i]
	}
	return name + pbxDomainSuffix
}

// provisionPBX runs the hosted-PBX chain: tenant domain, default outbound
// gateway, default route, then the domain is attached to the backend user.
// Each step depends on the identifier of the one before it.
func (a *DefaultActivator) provisionPBX(ctx context.Context, run *models.SagaRun, pending models.PendingPurchase) error {
	var partner *models.Partner
	err := run.Step("lookup-partner", func() error {
		p, err := a.Partner.Get(ctx, pending.PartnerID)
		if err != nil {
			return err
		}
		partner = p
		return nil
	})
	if err != nil {
		return fmt.Errorf("partner lookup failed: %w", err)
	}

	var user *clients.BackendUser
	err = run.Step("lookup-user", func() error {
		u, err := a.Auth.GetUserByEmail(ctx, partner.Email)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return fmt.Errorf("backend user lookup failed: %w", err)
	}

	var domainID string
	err = run.Step("create-domain", func() error {
		id, err := a.PBX.CreateDomain(ctx, DeriveDomainName(partner.PartnerName))
		if err != nil {
			return err
		}
		domainID = id
		return nil
	})
	if err != nil {
		return fmt.Errorf("PBX domain creation failed: %w", err)
	}

	var gatewayID string
	err = run.Step("create-gateway", func() error {
		id, err := a.PBX.CreateGateway(ctx, domainID)
		if err != nil {
			return err
		}
		gatewayID = id
		return nil
	})
	if err != nil {
		return fmt.Errorf("PBX gateway creation failed: %w", err)
	}

	err = run.Step("create-route", func() error {
		return a.PBX.CreateRoute(ctx, gatewayID)
	})
	if err != nil {
		return fmt.Errorf("PBX route creation failed: %w", err)
	}

	err = run.Step("attach-domain", func() error {
		return a.Auth.EditUser(ctx, user.ID, domainID)
	})
	if err != nil {
		return fmt.Errorf("failed to attach PBX domain to user: %w", err)
	}
	return nil
}
