package interfaces

//go:generate moq -out ../mock/usecase.go -pkg mock . UseCase

import (
	"context"

	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

type UseCase interface {
	CreateScan(ctx context.Context, actor types.UserID, input model.CreateScanInput) (*model.Scan, error)
	ListScans(ctx context.Context, actor types.UserID) ([]*model.Scan, error)
	GetScan(ctx context.Context, actor types.UserID, scanID types.ScanID) (*model.ScanDetail, error)
	UpdateScan(ctx context.Context, actor types.UserID, scanID types.ScanID, input model.UpdateScanInput) (*model.Scan, error)
	AddFiles(ctx context.Context, actor types.UserID, scanID types.ScanID, files []model.ScanFileInput) ([]*model.ScanFile, error)
	AddVulnerabilities(ctx context.Context, actor types.UserID, scanID types.ScanID, vulns []model.VulnerabilityInput) ([]*model.Vulnerability, error)
	CreateTestScan(ctx context.Context, actor types.UserID, input model.CreateTestScanInput) (*model.Scan, error)

	ListVulnerabilities(ctx context.Context, actor types.UserID, filter model.VulnerabilityFilter) ([]*model.Vulnerability, error)
	GetVulnerability(ctx context.Context, actor types.UserID, vulnID types.VulnID) (*model.Vulnerability, error)
	UpdateVulnerabilityStatus(ctx context.Context, actor types.UserID, vulnID types.VulnID, input model.UpdateVulnStatusInput) (*model.Vulnerability, error)
}
