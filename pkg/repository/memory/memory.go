package memory

import (
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

// New creates a new in-memory repository
func New() interfaces.ScanRepository {
	return &scanRepository{
		projects:  make(map[types.ProjectID]*projectData),
		scans:     make(map[types.ScanID]*scanData),
		vulnIndex: make(map[types.VulnID]types.ScanID),
	}
}

type projectData struct {
	project *model.Project
	members map[types.UserID]*model.ProjectMember
}

type scanData struct {
	scan  *model.Scan
	files []*model.ScanFile
	vulns []*model.Vulnerability
}
