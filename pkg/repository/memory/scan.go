package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/repository"
)

type scanRepository struct {
	mu        sync.RWMutex
	projects  map[types.ProjectID]*projectData
	scans     map[types.ScanID]*scanData
	vulnIndex map[types.VulnID]types.ScanID
}

// Project operations

func (r *scanRepository) CreateProject(ctx context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[project.ID]; exists {
		return goerr.Wrap(repository.ErrAlreadyExists, "project already exists",
			goerr.V("projectID", project.ID),
		)
	}

	cpy := *project
	r.projects[project.ID] = &projectData{
		project: &cpy,
		members: make(map[types.UserID]*model.ProjectMember),
	}
	return nil
}

func (r *scanRepository) GetProject(ctx context.Context, projectID types.ProjectID) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.projects[projectID]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "project not found",
			goerr.V("projectID", projectID),
		)
	}

	cpy := *data.project
	return &cpy, nil
}

func (r *scanRepository) DeleteProject(ctx context.Context, projectID types.ProjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[projectID]; !exists {
		return goerr.Wrap(repository.ErrNotFound, "project not found",
			goerr.V("projectID", projectID),
		)
	}

	for scanID, data := range r.scans {
		if data.scan.ProjectID != projectID {
			continue
		}
		for _, vuln := range data.vulns {
			delete(r.vulnIndex, vuln.ID)
		}
		delete(r.scans, scanID)
	}
	delete(r.projects, projectID)

	return nil
}

func (r *scanRepository) AddProjectMember(ctx context.Context, member *model.ProjectMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.projects[member.ProjectID]
	if !exists {
		return goerr.Wrap(repository.ErrNotFound, "project not found",
			goerr.V("projectID", member.ProjectID),
		)
	}

	cpy := *member
	data.members[member.UserID] = &cpy
	return nil
}

func (r *scanRepository) HasProjectAccess(ctx context.Context, projectID types.ProjectID, userID types.UserID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.hasAccess(projectID, userID), nil
}

func (r *scanRepository) hasAccess(projectID types.ProjectID, userID types.UserID) bool {
	data, exists := r.projects[projectID]
	if !exists {
		return false
	}
	if data.project.OwnerID == userID {
		return true
	}
	_, isMember := data.members[userID]
	return isMember
}

// Scan operations

func (r *scanRepository) CreateScan(ctx context.Context, scan *model.Scan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[scan.ProjectID]; !exists {
		return goerr.Wrap(repository.ErrNotFound, "project not found",
			goerr.V("projectID", scan.ProjectID),
		)
	}
	if _, exists := r.scans[scan.ID]; exists {
		return goerr.Wrap(repository.ErrAlreadyExists, "scan already exists",
			goerr.V("scanID", scan.ID),
		)
	}

	r.scans[scan.ID] = &scanData{scan: copyScan(scan)}
	return nil
}

func (r *scanRepository) GetScan(ctx context.Context, scanID types.ScanID) (*model.Scan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.scans[scanID]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "scan not found",
			goerr.V("scanID", scanID),
		)
	}

	return copyScan(data.scan), nil
}

func (r *scanRepository) ListScans(ctx context.Context, userID types.UserID, limit int) ([]*model.Scan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var scans []*model.Scan
	for _, data := range r.scans {
		if r.hasAccess(data.scan.ProjectID, userID) {
			scans = append(scans, copyScan(data.scan))
		}
	}

	slices.SortFunc(scans, func(a, b *model.Scan) int {
		return cmp.Or(
			b.CreatedAt.Compare(a.CreatedAt),
			cmp.Compare(a.ID, b.ID),
		)
	})
	if limit > 0 && len(scans) > limit {
		scans = scans[:limit]
	}

	return scans, nil
}

func (r *scanRepository) UpdateScan(ctx context.Context, scan *model.Scan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.scans[scan.ID]
	if !exists {
		return goerr.Wrap(repository.ErrNotFound, "scan not found",
			goerr.V("scanID", scan.ID),
		)
	}

	data.scan = copyScan(scan)
	return nil
}

// File operations

func (r *scanRepository) BatchCreateScanFiles(ctx context.Context, scanID types.ScanID, files []*model.ScanFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.scans[scanID]
	if !exists {
		return goerr.Wrap(repository.ErrNotFound, "scan not found",
			goerr.V("scanID", scanID),
		)
	}

	// Validate the whole batch before touching stored state
	seen := make(map[types.ScanFileID]struct{}, len(data.files)+len(files))
	for _, f := range data.files {
		seen[f.ID] = struct{}{}
	}
	for _, f := range files {
		if f.ScanID != scanID {
			return goerr.Wrap(repository.ErrInvalidInput, "file belongs to another scan",
				goerr.V("scanID", scanID),
				goerr.V("fileScanID", f.ScanID),
			)
		}
		if _, dup := seen[f.ID]; dup {
			return goerr.Wrap(repository.ErrAlreadyExists, "scan file already exists",
				goerr.V("fileID", f.ID),
			)
		}
		seen[f.ID] = struct{}{}
	}

	for _, f := range files {
		data.files = append(data.files, copyScanFile(f))
	}
	return nil
}

func (r *scanRepository) ListScanFiles(ctx context.Context, scanID types.ScanID) ([]*model.ScanFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.scans[scanID]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "scan not found",
			goerr.V("scanID", scanID),
		)
	}

	files := make([]*model.ScanFile, 0, len(data.files))
	for _, f := range data.files {
		files = append(files, copyScanFile(f))
	}
	return files, nil
}

// Vulnerability operations

func (r *scanRepository) BatchCreateVulnerabilities(ctx context.Context, scanID types.ScanID, vulns []*model.Vulnerability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.scans[scanID]
	if !exists {
		return goerr.Wrap(repository.ErrNotFound, "scan not found",
			goerr.V("scanID", scanID),
		)
	}

	seen := make(map[types.VulnID]struct{}, len(vulns))
	for _, v := range vulns {
		if v.ScanID != scanID {
			return goerr.Wrap(repository.ErrInvalidInput, "vulnerability belongs to another scan",
				goerr.V("scanID", scanID),
				goerr.V("vulnScanID", v.ScanID),
			)
		}
		if _, dup := seen[v.ID]; dup {
			return goerr.Wrap(repository.ErrAlreadyExists, "duplicated vulnerability in batch", goerr.V("vulnID", v.ID))
		}
		if _, stored := r.vulnIndex[v.ID]; stored {
			return goerr.Wrap(repository.ErrAlreadyExists, "vulnerability already exists", goerr.V("vulnID", v.ID))
		}
		seen[v.ID] = struct{}{}
	}

	for _, v := range vulns {
		data.vulns = append(data.vulns, copyVulnerability(v))
		r.vulnIndex[v.ID] = scanID
	}
	return nil
}

func (r *scanRepository) ListVulnerabilities(ctx context.Context, userID types.UserID, filter model.VulnerabilityFilter) ([]*model.Vulnerability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var vulns []*model.Vulnerability
	for _, data := range r.scans {
		if filter.ScanID != "" && data.scan.ID != filter.ScanID {
			continue
		}
		if filter.ProjectID != "" && data.scan.ProjectID != filter.ProjectID {
			continue
		}
		if !r.hasAccess(data.scan.ProjectID, userID) {
			continue
		}
		for _, v := range data.vulns {
			vulns = append(vulns, copyVulnerability(v))
		}
	}

	slices.SortFunc(vulns, compareVulnerabilities)
	if filter.Limit > 0 && len(vulns) > filter.Limit {
		vulns = vulns[:filter.Limit]
	}

	return vulns, nil
}

func (r *scanRepository) GetVulnerability(ctx context.Context, vulnID types.VulnID) (*model.Vulnerability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, err := r.lookupVulnerability(vulnID)
	if err != nil {
		return nil, err
	}
	return copyVulnerability(v), nil
}

func (r *scanRepository) UpdateVulnerability(ctx context.Context, vuln *model.Vulnerability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	scanID, exists := r.vulnIndex[vuln.ID]
	if !exists {
		return goerr.Wrap(repository.ErrNotFound, "vulnerability not found",
			goerr.V("vulnID", vuln.ID),
		)
	}

	data := r.scans[scanID]
	for i, v := range data.vulns {
		if v.ID == vuln.ID {
			data.vulns[i] = copyVulnerability(vuln)
			return nil
		}
	}

	return goerr.Wrap(repository.ErrNotFound, "vulnerability not found in scan",
		goerr.V("vulnID", vuln.ID),
		goerr.V("scanID", scanID),
	)
}

func (r *scanRepository) lookupVulnerability(vulnID types.VulnID) (*model.Vulnerability, error) {
	scanID, exists := r.vulnIndex[vulnID]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "vulnerability not found",
			goerr.V("vulnID", vulnID),
		)
	}
	for _, v := range r.scans[scanID].vulns {
		if v.ID == vulnID {
			return v, nil
		}
	}
	return nil, goerr.Wrap(repository.ErrNotFound, "vulnerability not found in scan",
		goerr.V("vulnID", vulnID),
		goerr.V("scanID", scanID),
	)
}

// Helper functions for deep copy

// compareVulnerabilities orders newest first, then by location and id, the
// same keys the SQL store sorts by.
func compareVulnerabilities(a, b *model.Vulnerability) int {
	return cmp.Or(
		b.CreatedAt.Compare(a.CreatedAt),
		cmp.Compare(a.FilePath, b.FilePath),
		cmp.Compare(a.LineNumber, b.LineNumber),
		cmp.Compare(a.ID, b.ID),
	)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyScan(scan *model.Scan) *model.Scan {
	if scan == nil {
		return nil
	}
	cpy := *scan
	cpy.CreatedBy = clonePtr(scan.CreatedBy)
	cpy.StartedAt = clonePtr(scan.StartedAt)
	cpy.CompletedAt = clonePtr(scan.CompletedAt)
	cpy.DurationSeconds = clonePtr(scan.DurationSeconds)
	cpy.ErrorMessage = clonePtr(scan.ErrorMessage)
	if scan.ScanConfig != nil {
		cpy.ScanConfig = maps.Clone(scan.ScanConfig)
	}
	return &cpy
}

func copyScanFile(file *model.ScanFile) *model.ScanFile {
	if file == nil {
		return nil
	}
	cpy := *file
	cpy.Language = clonePtr(file.Language)
	cpy.LinesOfCode = clonePtr(file.LinesOfCode)
	return &cpy
}

func copyVulnerability(vuln *model.Vulnerability) *model.Vulnerability {
	if vuln == nil {
		return nil
	}
	cpy := *vuln
	cpy.ColumnNumber = clonePtr(vuln.ColumnNumber)
	cpy.CodeSnippet = clonePtr(vuln.CodeSnippet)
	cpy.CweID = clonePtr(vuln.CweID)
	cpy.OwaspCategory = clonePtr(vuln.OwaspCategory)
	cpy.RemediationNotes = clonePtr(vuln.RemediationNotes)
	cpy.ResolvedAt = clonePtr(vuln.ResolvedAt)
	return &cpy
}
