package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

func (x *UseCase) ListVulnerabilities(ctx context.Context, actor types.UserID, filter model.VulnerabilityFilter) ([]*model.Vulnerability, error) {
	if filter.Limit <= 0 || filter.Limit > listVulnerabilitiesLimit {
		filter.Limit = listVulnerabilitiesLimit
	}

	vulns, err := x.clients.ScanRepository().ListVulnerabilities(ctx, actor, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list vulnerabilities",
			goerr.V("actor", actor),
			goerr.V("project_id", filter.ProjectID),
			goerr.V("scan_id", filter.ScanID),
		)
	}
	if vulns == nil {
		vulns = []*model.Vulnerability{}
	}
	return vulns, nil
}

func (x *UseCase) GetVulnerability(ctx context.Context, actor types.UserID, vulnID types.VulnID) (*model.Vulnerability, error) {
	vuln, err := x.clients.ScanRepository().GetVulnerability(ctx, vulnID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get vulnerability", goerr.V("vuln_id", vulnID))
	}

	if _, err := x.accessibleScan(ctx, actor, vuln.ScanID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, goerr.Wrap(types.ErrNotFound, "vulnerability not found", goerr.V("vuln_id", vulnID))
		}
		return nil, err
	}
	return vuln, nil
}

// UpdateVulnerabilityStatus applies a triage decision. Notes replace the
// stored remediation notes only when given.
func (x *UseCase) UpdateVulnerabilityStatus(ctx context.Context, actor types.UserID, vulnID types.VulnID, input model.UpdateVulnStatusInput) (*model.Vulnerability, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	vuln, err := x.GetVulnerability(ctx, actor, vulnID)
	if err != nil {
		return nil, err
	}

	prev := vuln.Status
	vuln.SetStatus(input.Status, logging.CtxTime(ctx).UTC())
	if input.Notes != nil {
		vuln.RemediationNotes = input.Notes
	}

	if err := x.clients.ScanRepository().UpdateVulnerability(ctx, vuln); err != nil {
		return nil, goerr.Wrap(err, "failed to update vulnerability", goerr.V("vuln_id", vulnID))
	}

	logging.From(ctx).Info("vulnerability triaged", "vuln_id", vulnID, "from", prev, "to", vuln.Status)
	return vuln, nil
}
