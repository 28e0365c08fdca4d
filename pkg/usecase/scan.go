package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

func (x *UseCase) CreateScan(ctx context.Context, actor types.UserID, input model.CreateScanInput) (*model.Scan, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	repo := x.clients.ScanRepository()

	ok, err := repo.HasProjectAccess(ctx, input.ProjectID, actor)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check project access", goerr.V("project_id", input.ProjectID))
	}
	if !ok {
		return nil, goerr.Wrap(types.ErrNotFound, "project not found", goerr.V("project_id", input.ProjectID))
	}

	now := logging.CtxTime(ctx).UTC()
	config := input.ScanConfig
	if config == nil {
		config = map[string]any{}
	}
	scan := &model.Scan{
		ID:         types.NewScanID(),
		ProjectID:  input.ProjectID,
		CreatedBy:  &actor,
		Status:     types.ScanStatusPending,
		StartedAt:  &now,
		ScanConfig: config,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repo.CreateScan(ctx, scan); err != nil {
		return nil, goerr.Wrap(err, "failed to create scan", goerr.V("project_id", input.ProjectID))
	}

	logging.From(ctx).Info("scan created", "scan_id", scan.ID, "project_id", scan.ProjectID)
	return scan, nil
}

func (x *UseCase) ListScans(ctx context.Context, actor types.UserID) ([]*model.Scan, error) {
	scans, err := x.clients.ScanRepository().ListScans(ctx, actor, listScansLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list scans", goerr.V("actor", actor))
	}
	if scans == nil {
		scans = []*model.Scan{}
	}
	return scans, nil
}

func (x *UseCase) GetScan(ctx context.Context, actor types.UserID, scanID types.ScanID) (*model.ScanDetail, error) {
	scan, err := x.accessibleScan(ctx, actor, scanID)
	if err != nil {
		return nil, err
	}

	vulns, err := x.clients.ScanRepository().ListVulnerabilities(ctx, actor, model.VulnerabilityFilter{ScanID: scanID})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list vulnerabilities of scan", goerr.V("scan_id", scanID))
	}
	if vulns == nil {
		vulns = []*model.Vulnerability{}
	}

	return &model.ScanDetail{Scan: scan, Vulnerabilities: vulns}, nil
}

// UpdateScan merges the provided fields into the scan. Entering a terminal
// status stamps completed_at, and entering completed emits the complete event.
func (x *UseCase) UpdateScan(ctx context.Context, actor types.UserID, scanID types.ScanID, input model.UpdateScanInput) (*model.Scan, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	scan, err := x.accessibleScan(ctx, actor, scanID)
	if err != nil {
		return nil, err
	}

	prev := scan.Status
	if input.Status != nil && !prev.CanTransitionTo(*input.Status) {
		return nil, goerr.Wrap(types.ErrInvalidTransition, "scan status cannot change",
			goerr.V("scan_id", scanID),
			goerr.V("from", prev),
			goerr.V("to", *input.Status),
		)
	}

	if input.Status != nil {
		scan.Status = *input.Status
	}
	if input.TotalFiles != nil {
		scan.TotalFiles = *input.TotalFiles
	}
	if input.FilesProcessed != nil {
		scan.FilesProcessed = *input.FilesProcessed
	}
	if input.DurationSeconds != nil {
		scan.DurationSeconds = input.DurationSeconds
	}
	if input.ErrorMessage != nil {
		scan.ErrorMessage = input.ErrorMessage
	}

	if scan.FilesProcessed > scan.TotalFiles {
		return nil, goerr.Wrap(types.ErrValidationFailed, "files_processed exceeds total_files",
			goerr.V("scan_id", scanID),
			goerr.V("files_processed", scan.FilesProcessed),
			goerr.V("total_files", scan.TotalFiles),
		)
	}

	now := logging.CtxTime(ctx).UTC()
	entered := scan.Status != prev
	if entered && scan.Status.IsTerminal() {
		scan.CompletedAt = &now
	}
	scan.UpdatedAt = now

	if err := x.clients.ScanRepository().UpdateScan(ctx, scan); err != nil {
		return nil, goerr.Wrap(err, "failed to update scan", goerr.V("scan_id", scanID))
	}

	if entered {
		logging.From(ctx).Info("scan status changed", "scan_id", scanID, "from", prev, "to", scan.Status)
		if scan.Status == types.ScanStatusCompleted {
			x.EmitComplete(ctx, scan.ID, scan.Summary())
		}
	}

	return scan, nil
}

// AddFiles records a batch of processed files. The scan counters are left
// alone; the progress event describes the batch that was just stored.
func (x *UseCase) AddFiles(ctx context.Context, actor types.UserID, scanID types.ScanID, inputs []model.ScanFileInput) ([]*model.ScanFile, error) {
	for i := range inputs {
		if err := inputs[i].Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid file", goerr.V("index", i))
		}
	}

	scan, err := x.accessibleScan(ctx, actor, scanID)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return []*model.ScanFile{}, nil
	}

	files := newScanFiles(scan.ID, inputs, logging.CtxTime(ctx).UTC())
	if err := x.clients.ScanRepository().BatchCreateScanFiles(ctx, scan.ID, files); err != nil {
		return nil, goerr.Wrap(err, "failed to add files", goerr.V("scan_id", scanID), goerr.V("count", len(files)))
	}

	x.EmitProgress(ctx, scan.ID, len(files), len(files))
	return files, nil
}

// AddVulnerabilities records a batch of findings and emits one event per
// finding.
func (x *UseCase) AddVulnerabilities(ctx context.Context, actor types.UserID, scanID types.ScanID, inputs []model.VulnerabilityInput) ([]*model.Vulnerability, error) {
	for i := range inputs {
		if err := inputs[i].Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid vulnerability", goerr.V("index", i))
		}
	}

	scan, err := x.accessibleScan(ctx, actor, scanID)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return []*model.Vulnerability{}, nil
	}

	vulns := newVulnerabilities(scan.ID, inputs, logging.CtxTime(ctx).UTC())
	if err := x.clients.ScanRepository().BatchCreateVulnerabilities(ctx, scan.ID, vulns); err != nil {
		return nil, goerr.Wrap(err, "failed to add vulnerabilities", goerr.V("scan_id", scanID), goerr.V("count", len(vulns)))
	}

	for _, vuln := range vulns {
		x.EmitVulnerability(ctx, scan.ID, vuln)
	}
	return vulns, nil
}

// accessibleScan hides scans of projects the actor cannot access behind
// ErrNotFound.
func (x *UseCase) accessibleScan(ctx context.Context, actor types.UserID, scanID types.ScanID) (*model.Scan, error) {
	repo := x.clients.ScanRepository()

	scan, err := repo.GetScan(ctx, scanID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get scan", goerr.V("scan_id", scanID))
	}

	ok, err := repo.HasProjectAccess(ctx, scan.ProjectID, actor)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check project access", goerr.V("scan_id", scanID))
	}
	if !ok {
		return nil, goerr.Wrap(types.ErrNotFound, "scan not found", goerr.V("scan_id", scanID))
	}
	return scan, nil
}

func newScanFiles(scanID types.ScanID, inputs []model.ScanFileInput, now time.Time) []*model.ScanFile {
	files := make([]*model.ScanFile, 0, len(inputs))
	for _, in := range inputs {
		file := &model.ScanFile{
			ID:          types.NewScanFileID(),
			ScanID:      scanID,
			FilePath:    in.FilePath,
			Language:    in.Language,
			LinesOfCode: in.LinesOfCode,
			ProcessedAt: now,
		}
		if in.VulnerabilityCount != nil {
			file.VulnerabilityCount = *in.VulnerabilityCount
		}
		files = append(files, file)
	}
	return files
}

func newVulnerabilities(scanID types.ScanID, inputs []model.VulnerabilityInput, now time.Time) []*model.Vulnerability {
	vulns := make([]*model.Vulnerability, 0, len(inputs))
	for _, in := range inputs {
		vuln := &model.Vulnerability{
			ID:            types.NewVulnID(),
			ScanID:        scanID,
			Type:          in.Type,
			Severity:      in.Severity,
			FilePath:      in.FilePath,
			LineNumber:    in.LineNumber,
			ColumnNumber:  in.ColumnNumber,
			CodeSnippet:   in.CodeSnippet,
			Message:       in.Message,
			CweID:         in.CweID,
			OwaspCategory: in.OwaspCategory,
			CreatedAt:     now,
		}
		status := types.VulnStatusOpen
		if in.Status != nil {
			status = *in.Status
		}
		vuln.SetStatus(status, now)
		vulns = append(vulns, vuln)
	}
	return vulns
}
