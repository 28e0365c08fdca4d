package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

const (
	testScanLanguage    = "javascript"
	testScanLinesOfCode = 50
	testScanVulnType    = "hardcoded_secret"
	testScanVulnMessage = "Hardcoded secret detected"
	testScanFirstLine   = 10
)

// CreateTestScan plays a whole scan in one call against a fresh project owned
// by the actor. It emits the same events a real analyzer run would.
func (x *UseCase) CreateTestScan(ctx context.Context, actor types.UserID, input model.CreateTestScanInput) (*model.Scan, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	repo := x.clients.ScanRepository()
	now := logging.CtxTime(ctx).UTC()

	project := &model.Project{
		ID:        types.NewProjectID(),
		Name:      fmt.Sprintf("test-project-%d", now.UnixMilli()),
		OwnerID:   actor,
		CreatedAt: now,
	}
	if err := repo.CreateProject(ctx, project); err != nil {
		return nil, goerr.Wrap(err, "failed to create test project", goerr.V("actor", actor))
	}

	totalFiles := input.FileCount()
	scan := &model.Scan{
		ID:         types.NewScanID(),
		ProjectID:  project.ID,
		CreatedBy:  &actor,
		Status:     types.ScanStatusRunning,
		StartedAt:  &now,
		TotalFiles: totalFiles,
		ScanConfig: map[string]any{"test": true},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repo.CreateScan(ctx, scan); err != nil {
		return nil, goerr.Wrap(err, "failed to create test scan", goerr.V("project_id", project.ID))
	}
	x.EmitProgress(ctx, scan.ID, 0, totalFiles)

	fileInputs := make([]model.ScanFileInput, totalFiles)
	for i := range fileInputs {
		fileInputs[i] = model.ScanFileInput{
			FilePath:    testFilePath(i),
			Language:    ptr(testScanLanguage),
			LinesOfCode: ptr(testScanLinesOfCode),
		}
	}
	if totalFiles > 0 {
		if err := repo.BatchCreateScanFiles(ctx, scan.ID, newScanFiles(scan.ID, fileInputs, now)); err != nil {
			return nil, x.abortTestScan(ctx, scan, goerr.Wrap(err, "failed to add test files", goerr.V("scan_id", scan.ID)))
		}
	}
	x.EmitProgress(ctx, scan.ID, totalFiles, totalFiles)

	vulnInputs := make([]model.VulnerabilityInput, input.VulnerabilityCount())
	for i := range vulnInputs {
		vulnInputs[i] = model.VulnerabilityInput{
			Type:       testScanVulnType,
			Severity:   types.SeverityCritical,
			FilePath:   testFilePath(i),
			LineNumber: testScanFirstLine + i,
			Message:    testScanVulnMessage,
		}
	}
	if len(vulnInputs) > 0 {
		vulns := newVulnerabilities(scan.ID, vulnInputs, now)
		if err := repo.BatchCreateVulnerabilities(ctx, scan.ID, vulns); err != nil {
			return nil, x.abortTestScan(ctx, scan, goerr.Wrap(err, "failed to add test vulnerabilities", goerr.V("scan_id", scan.ID)))
		}
		for _, vuln := range vulns {
			x.EmitVulnerability(ctx, scan.ID, vuln)
		}
	}

	completedAt := logging.CtxTime(ctx).UTC()
	scan.Status = types.ScanStatusCompleted
	scan.FilesProcessed = totalFiles
	scan.CompletedAt = &completedAt
	scan.UpdatedAt = completedAt
	if err := repo.UpdateScan(ctx, scan); err != nil {
		return nil, x.abortTestScan(ctx, scan, goerr.Wrap(err, "failed to complete test scan", goerr.V("scan_id", scan.ID)))
	}
	x.EmitComplete(ctx, scan.ID, scan.Summary())

	logging.From(ctx).Info("test scan finished",
		"scan_id", scan.ID,
		"files", totalFiles,
		"vulnerabilities", len(vulnInputs),
	)
	return scan, nil
}

// abortTestScan marks a half played scan as failed so it does not stay
// running forever. It returns cause.
func (x *UseCase) abortTestScan(ctx context.Context, scan *model.Scan, cause error) error {
	now := logging.CtxTime(ctx).UTC()
	scan.Status = types.ScanStatusFailed
	scan.CompletedAt = &now
	scan.UpdatedAt = now
	if err := x.clients.ScanRepository().UpdateScan(ctx, scan); err != nil {
		logging.From(ctx).Warn("failed to mark test scan as failed", "scan_id", scan.ID, "error", err)
	}
	return cause
}

func testFilePath(i int) string {
	return fmt.Sprintf("src/test-file-%d.js", i+1)
}

func ptr[T any](v T) *T {
	return &v
}
