package interfaces

import (
	"context"

	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

// ScanRepository owns scans, their files and their vulnerabilities. Deleting
// a project cascades to everything below it.
type ScanRepository interface {
	// Project operations
	CreateProject(ctx context.Context, project *model.Project) error
	GetProject(ctx context.Context, projectID types.ProjectID) (*model.Project, error)
	DeleteProject(ctx context.Context, projectID types.ProjectID) error
	AddProjectMember(ctx context.Context, member *model.ProjectMember) error
	HasProjectAccess(ctx context.Context, projectID types.ProjectID, userID types.UserID) (bool, error)

	// Scan operations
	CreateScan(ctx context.Context, scan *model.Scan) error
	GetScan(ctx context.Context, scanID types.ScanID) (*model.Scan, error)
	ListScans(ctx context.Context, userID types.UserID, limit int) ([]*model.Scan, error)
	UpdateScan(ctx context.Context, scan *model.Scan) error

	// File operations (batch only)
	BatchCreateScanFiles(ctx context.Context, scanID types.ScanID, files []*model.ScanFile) error
	ListScanFiles(ctx context.Context, scanID types.ScanID) ([]*model.ScanFile, error)

	// Vulnerability operations
	BatchCreateVulnerabilities(ctx context.Context, scanID types.ScanID, vulns []*model.Vulnerability) error
	ListVulnerabilities(ctx context.Context, userID types.UserID, filter model.VulnerabilityFilter) ([]*model.Vulnerability, error)
	GetVulnerability(ctx context.Context, vulnID types.VulnID) (*model.Vulnerability, error)
	UpdateVulnerability(ctx context.Context, vuln *model.Vulnerability) error
}
