package testhelper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/repository"
)

// TestAll runs all test cases for ScanRepository
// This is the main entry point for testing any ScanRepository implementation
func TestAll(t *testing.T, repo interfaces.ScanRepository) {
	t.Run("ProjectAccess", func(t *testing.T) {
		TestProjectAccess(t, repo)
	})
	t.Run("ScanCRUD", func(t *testing.T) {
		TestScanCRUD(t, repo)
	})
	t.Run("ListScansOrderAndLimit", func(t *testing.T) {
		TestListScansOrderAndLimit(t, repo)
	})
	t.Run("ScanFileBatch", func(t *testing.T) {
		TestScanFileBatch(t, repo)
	})
	t.Run("VulnerabilityBatch", func(t *testing.T) {
		TestVulnerabilityBatch(t, repo)
	})
	t.Run("VulnerabilityOrder", func(t *testing.T) {
		TestVulnerabilityOrder(t, repo)
	})
	t.Run("VulnerabilityUpdate", func(t *testing.T) {
		TestVulnerabilityUpdate(t, repo)
	})
	t.Run("DeleteProjectCascade", func(t *testing.T) {
		TestDeleteProjectCascade(t, repo)
	})
	t.Run("ConcurrentVulnerabilityBatches", func(t *testing.T) {
		TestConcurrentVulnerabilityBatches(t, repo)
	})
}

func newUserID() types.UserID {
	return types.UserID(fmt.Sprintf("user-%s", uuid.New().String()[:8]))
}

// baseTime is truncated so every backend round-trips it exactly.
func baseTime() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func setupProject(t *testing.T, repo interfaces.ScanRepository, owner types.UserID) *model.Project {
	t.Helper()
	project := &model.Project{
		ID:        types.NewProjectID(),
		Name:      fmt.Sprintf("project-%s", uuid.New().String()[:8]),
		OwnerID:   owner,
		CreatedAt: baseTime(),
	}
	gt.NoError(t, repo.CreateProject(context.Background(), project))
	return project
}

func setupScan(t *testing.T, repo interfaces.ScanRepository, project *model.Project, createdAt time.Time) *model.Scan {
	t.Helper()
	owner := project.OwnerID
	scan := &model.Scan{
		ID:         types.NewScanID(),
		ProjectID:  project.ID,
		CreatedBy:  &owner,
		Status:     types.ScanStatusPending,
		ScanConfig: map[string]any{"depth": "full"},
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	gt.NoError(t, repo.CreateScan(context.Background(), scan))
	return scan
}

func newVulnerability(scanID types.ScanID, createdAt time.Time, line int) *model.Vulnerability {
	cwe := "CWE-89"
	return &model.Vulnerability{
		ID:         types.NewVulnID(),
		ScanID:     scanID,
		Type:       "sql_injection_ast",
		Severity:   types.SeverityHigh,
		FilePath:   "src/db.go",
		LineNumber: line,
		Message:    "query built from user input",
		CweID:      &cwe,
		Status:     types.VulnStatusOpen,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

// TestProjectAccess tests ownership and membership based access checks
func TestProjectAccess(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()
	owner := newUserID()
	outsider := newUserID()
	member := newUserID()

	project := setupProject(t, repo, owner)

	retrieved, err := repo.GetProject(ctx, project.ID)
	gt.NoError(t, err)
	gt.V(t, retrieved.Name).Equal(project.Name)
	gt.V(t, retrieved.OwnerID).Equal(owner)

	gt.True(t, gt.R1(repo.HasProjectAccess(ctx, project.ID, owner)).NoError(t))
	gt.V(t, gt.R1(repo.HasProjectAccess(ctx, project.ID, outsider)).NoError(t)).Equal(false)
	gt.V(t, gt.R1(repo.HasProjectAccess(ctx, project.ID, member)).NoError(t)).Equal(false)

	gt.NoError(t, repo.AddProjectMember(ctx, &model.ProjectMember{
		ProjectID: project.ID,
		UserID:    member,
		Role:      types.ProjectRoleViewer,
		CreatedAt: baseTime(),
	}))
	gt.True(t, gt.R1(repo.HasProjectAccess(ctx, project.ID, member)).NoError(t))

	// Adding the same member again replaces the role
	gt.NoError(t, repo.AddProjectMember(ctx, &model.ProjectMember{
		ProjectID: project.ID,
		UserID:    member,
		Role:      types.ProjectRoleAdmin,
		CreatedAt: baseTime(),
	}))

	// Unknown project
	missing := types.NewProjectID()
	gt.V(t, gt.R1(repo.HasProjectAccess(ctx, missing, owner)).NoError(t)).Equal(false)
	_, err = repo.GetProject(ctx, missing)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
	err = repo.AddProjectMember(ctx, &model.ProjectMember{ProjectID: missing, UserID: member, Role: types.ProjectRoleMember})
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}

// TestScanCRUD tests basic CRUD operations for Scan
func TestScanCRUD(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()
	owner := newUserID()
	project := setupProject(t, repo, owner)
	now := baseTime()

	scan := setupScan(t, repo, project, now)

	retrieved, err := repo.GetScan(ctx, scan.ID)
	gt.NoError(t, err)
	gt.V(t, retrieved.ID).Equal(scan.ID)
	gt.V(t, retrieved.ProjectID).Equal(project.ID)
	gt.V(t, retrieved.Status).Equal(types.ScanStatusPending)
	gt.V(t, retrieved.CreatedBy).NotEqual(nil)
	gt.V(t, *retrieved.CreatedBy).Equal(owner)
	gt.V(t, retrieved.ScanConfig["depth"]).Equal(any("full"))
	gt.True(t, retrieved.CreatedAt.Equal(now))
	gt.True(t, retrieved.StartedAt == nil)
	gt.True(t, retrieved.CompletedAt == nil)

	// Update the scan
	started := now.Add(time.Second)
	completed := now.Add(5 * time.Second)
	duration := 4
	msg := "analyzer exited"
	retrieved.Status = types.ScanStatusFailed
	retrieved.StartedAt = &started
	retrieved.CompletedAt = &completed
	retrieved.DurationSeconds = &duration
	retrieved.TotalFiles = 10
	retrieved.FilesProcessed = 7
	retrieved.ErrorMessage = &msg
	retrieved.UpdatedAt = completed
	gt.NoError(t, repo.UpdateScan(ctx, retrieved))

	// Verify update
	updated, err := repo.GetScan(ctx, scan.ID)
	gt.NoError(t, err)
	gt.V(t, updated.Status).Equal(types.ScanStatusFailed)
	gt.V(t, updated.TotalFiles).Equal(10)
	gt.V(t, updated.FilesProcessed).Equal(7)
	gt.V(t, *updated.DurationSeconds).Equal(4)
	gt.V(t, *updated.ErrorMessage).Equal(msg)
	gt.True(t, updated.StartedAt.Equal(started))
	gt.True(t, updated.CompletedAt.Equal(completed))
	gt.True(t, updated.UpdatedAt.Equal(completed))

	// Returned values are copies
	updated.TotalFiles = 999
	again, err := repo.GetScan(ctx, scan.ID)
	gt.NoError(t, err)
	gt.V(t, again.TotalFiles).Equal(10)

	// Access scoped listing
	scans, err := repo.ListScans(ctx, owner, 0)
	gt.NoError(t, err)
	gt.V(t, len(scans)).Equal(1)
	gt.V(t, scans[0].ID).Equal(scan.ID)

	scans, err = repo.ListScans(ctx, newUserID(), 0)
	gt.NoError(t, err)
	gt.V(t, len(scans)).Equal(0)

	// Test not found
	_, err = repo.GetScan(ctx, types.NewScanID())
	gt.True(t, errors.Is(err, repository.ErrNotFound))
	gt.True(t, errors.Is(err, types.ErrNotFound))

	err = repo.UpdateScan(ctx, &model.Scan{ID: types.NewScanID(), ProjectID: project.ID, Status: types.ScanStatusRunning})
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	orphan := &model.Scan{ID: types.NewScanID(), ProjectID: types.NewProjectID(), Status: types.ScanStatusPending, CreatedAt: now, UpdatedAt: now}
	err = repo.CreateScan(ctx, orphan)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}

// TestListScansOrderAndLimit tests newest-first ordering and limit
func TestListScansOrderAndLimit(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()
	owner := newUserID()
	member := newUserID()
	now := baseTime()

	owned := setupProject(t, repo, owner)
	shared := setupProject(t, repo, newUserID())
	gt.NoError(t, repo.AddProjectMember(ctx, &model.ProjectMember{
		ProjectID: shared.ID,
		UserID:    owner,
		Role:      types.ProjectRoleMember,
		CreatedAt: now,
	}))

	oldest := setupScan(t, repo, owned, now)
	middle := setupScan(t, repo, shared, now.Add(time.Second))
	newest := setupScan(t, repo, owned, now.Add(2*time.Second))

	scans, err := repo.ListScans(ctx, owner, 0)
	gt.NoError(t, err)
	gt.V(t, len(scans)).Equal(3)
	gt.V(t, scans[0].ID).Equal(newest.ID)
	gt.V(t, scans[1].ID).Equal(middle.ID)
	gt.V(t, scans[2].ID).Equal(oldest.ID)

	scans, err = repo.ListScans(ctx, owner, 2)
	gt.NoError(t, err)
	gt.V(t, len(scans)).Equal(2)
	gt.V(t, scans[0].ID).Equal(newest.ID)

	// member only sees nothing until added
	scans, err = repo.ListScans(ctx, member, 0)
	gt.NoError(t, err)
	gt.V(t, len(scans)).Equal(0)
}

// TestScanFileBatch tests batch insertion of scan files
func TestScanFileBatch(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()
	project := setupProject(t, repo, newUserID())
	now := baseTime()
	scan := setupScan(t, repo, project, now)

	lang := "go"
	loc := 120
	files := []*model.ScanFile{
		{ID: types.NewScanFileID(), ScanID: scan.ID, FilePath: "a.go", Language: &lang, LinesOfCode: &loc, ProcessedAt: now},
		{ID: types.NewScanFileID(), ScanID: scan.ID, FilePath: "b.go", ProcessedAt: now},
		{ID: types.NewScanFileID(), ScanID: scan.ID, FilePath: "c.go", VulnerabilityCount: 2, ProcessedAt: now},
	}
	gt.NoError(t, repo.BatchCreateScanFiles(ctx, scan.ID, files))

	stored, err := repo.ListScanFiles(ctx, scan.ID)
	gt.NoError(t, err)
	gt.V(t, len(stored)).Equal(3)

	byPath := make(map[string]*model.ScanFile)
	for _, f := range stored {
		byPath[f.FilePath] = f
	}
	gt.V(t, *byPath["a.go"].Language).Equal("go")
	gt.V(t, *byPath["a.go"].LinesOfCode).Equal(120)
	gt.True(t, byPath["b.go"].Language == nil)
	gt.V(t, byPath["c.go"].VulnerabilityCount).Equal(2)

	t.Run("empty batch is accepted", func(t *testing.T) {
		gt.NoError(t, repo.BatchCreateScanFiles(ctx, scan.ID, nil))
		gt.V(t, len(gt.R1(repo.ListScanFiles(ctx, scan.ID)).NoError(t))).Equal(3)
	})

	t.Run("a failing batch stores nothing", func(t *testing.T) {
		dup := types.NewScanFileID()
		batch := []*model.ScanFile{
			{ID: dup, ScanID: scan.ID, FilePath: "d.go", ProcessedAt: now},
			{ID: dup, ScanID: scan.ID, FilePath: "e.go", ProcessedAt: now},
		}
		gt.Error(t, repo.BatchCreateScanFiles(ctx, scan.ID, batch))
		gt.V(t, len(gt.R1(repo.ListScanFiles(ctx, scan.ID)).NoError(t))).Equal(3)
	})

	t.Run("unknown scan is not found", func(t *testing.T) {
		missing := types.NewScanID()
		err := repo.BatchCreateScanFiles(ctx, missing, []*model.ScanFile{
			{ID: types.NewScanFileID(), ScanID: missing, FilePath: "x.go", ProcessedAt: now},
		})
		gt.True(t, errors.Is(err, repository.ErrNotFound))

		_, err = repo.ListScanFiles(ctx, missing)
		gt.True(t, errors.Is(err, repository.ErrNotFound))
	})
}

// TestVulnerabilityBatch tests batch insertion and scoped listing of vulnerabilities
func TestVulnerabilityBatch(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()
	owner := newUserID()
	now := baseTime()
	project := setupProject(t, repo, owner)
	other := setupProject(t, repo, owner)
	scan := setupScan(t, repo, project, now)
	otherScan := setupScan(t, repo, other, now)

	vulns := []*model.Vulnerability{
		newVulnerability(scan.ID, now, 10),
		newVulnerability(scan.ID, now.Add(time.Second), 20),
	}
	gt.NoError(t, repo.BatchCreateVulnerabilities(ctx, scan.ID, vulns))
	gt.NoError(t, repo.BatchCreateVulnerabilities(ctx, otherScan.ID, []*model.Vulnerability{
		newVulnerability(otherScan.ID, now.Add(2*time.Second), 30),
	}))

	// Newest first across all accessible scans
	all, err := repo.ListVulnerabilities(ctx, owner, model.VulnerabilityFilter{})
	gt.NoError(t, err)
	gt.V(t, len(all)).Equal(3)
	gt.V(t, all[0].LineNumber).Equal(30)
	gt.V(t, all[1].LineNumber).Equal(20)
	gt.V(t, all[2].LineNumber).Equal(10)

	byScan, err := repo.ListVulnerabilities(ctx, owner, model.VulnerabilityFilter{ScanID: scan.ID})
	gt.NoError(t, err)
	gt.V(t, len(byScan)).Equal(2)

	byProject, err := repo.ListVulnerabilities(ctx, owner, model.VulnerabilityFilter{ProjectID: other.ID})
	gt.NoError(t, err)
	gt.V(t, len(byProject)).Equal(1)
	gt.V(t, byProject[0].ScanID).Equal(otherScan.ID)

	limited, err := repo.ListVulnerabilities(ctx, owner, model.VulnerabilityFilter{Limit: 1})
	gt.NoError(t, err)
	gt.V(t, len(limited)).Equal(1)
	gt.V(t, limited[0].LineNumber).Equal(30)

	hidden, err := repo.ListVulnerabilities(ctx, newUserID(), model.VulnerabilityFilter{ScanID: scan.ID})
	gt.NoError(t, err)
	gt.V(t, len(hidden)).Equal(0)

	retrieved, err := repo.GetVulnerability(ctx, vulns[0].ID)
	gt.NoError(t, err)
	gt.V(t, retrieved.ScanID).Equal(scan.ID)
	gt.V(t, retrieved.Severity).Equal(types.SeverityHigh)
	gt.V(t, *retrieved.CweID).Equal("CWE-89")
	gt.True(t, retrieved.ColumnNumber == nil)

	t.Run("a failing batch stores nothing", func(t *testing.T) {
		dup := newVulnerability(scan.ID, now, 40)
		batch := []*model.Vulnerability{dup, newVulnerability(scan.ID, now, 41), dup}
		gt.Error(t, repo.BatchCreateVulnerabilities(ctx, scan.ID, batch))

		stored, err := repo.ListVulnerabilities(ctx, owner, model.VulnerabilityFilter{ScanID: scan.ID})
		gt.NoError(t, err)
		gt.V(t, len(stored)).Equal(2)
	})

	t.Run("unknown scan or vulnerability is not found", func(t *testing.T) {
		missing := types.NewScanID()
		err := repo.BatchCreateVulnerabilities(ctx, missing, []*model.Vulnerability{newVulnerability(missing, now, 1)})
		gt.True(t, errors.Is(err, repository.ErrNotFound))

		_, err = repo.GetVulnerability(ctx, types.NewVulnID())
		gt.True(t, errors.Is(err, repository.ErrNotFound))
	})
}

// TestVulnerabilityOrder tests that findings sharing a timestamp come back
// sorted by file and line, newest batch first
func TestVulnerabilityOrder(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()
	now := baseTime()
	owner := newUserID()
	project := setupProject(t, repo, owner)
	scan := setupScan(t, repo, project, now)

	older := newVulnerability(scan.ID, now, 99)
	gt.NoError(t, repo.BatchCreateVulnerabilities(ctx, scan.ID, []*model.Vulnerability{older}))

	later := now.Add(time.Minute)
	batch := []*model.Vulnerability{
		newVulnerability(scan.ID, later, 30),
		newVulnerability(scan.ID, later, 10),
		newVulnerability(scan.ID, later, 20),
	}
	other := newVulnerability(scan.ID, later, 1)
	other.FilePath = "src/api.go"
	batch = append(batch, other)
	gt.NoError(t, repo.BatchCreateVulnerabilities(ctx, scan.ID, batch))

	for range 3 {
		vulns, err := repo.ListVulnerabilities(ctx, owner, model.VulnerabilityFilter{ScanID: scan.ID})
		gt.NoError(t, err)
		gt.V(t, len(vulns)).Equal(5)

		gt.V(t, vulns[0].FilePath).Equal("src/api.go")
		gt.V(t, vulns[1].LineNumber).Equal(10)
		gt.V(t, vulns[2].LineNumber).Equal(20)
		gt.V(t, vulns[3].LineNumber).Equal(30)
		gt.V(t, vulns[4].ID).Equal(older.ID)
	}
}

// TestVulnerabilityUpdate tests triage updates of a stored vulnerability
func TestVulnerabilityUpdate(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()
	now := baseTime()
	project := setupProject(t, repo, newUserID())
	scan := setupScan(t, repo, project, now)
	vuln := newVulnerability(scan.ID, now, 5)
	gt.NoError(t, repo.BatchCreateVulnerabilities(ctx, scan.ID, []*model.Vulnerability{vuln}))

	resolvedAt := now.Add(time.Minute)
	notes := "parameterized the query"
	vuln.SetStatus(types.VulnStatusResolved, resolvedAt)
	vuln.RemediationNotes = &notes
	gt.NoError(t, repo.UpdateVulnerability(ctx, vuln))

	retrieved, err := repo.GetVulnerability(ctx, vuln.ID)
	gt.NoError(t, err)
	gt.V(t, retrieved.Status).Equal(types.VulnStatusResolved)
	gt.V(t, *retrieved.RemediationNotes).Equal(notes)
	gt.V(t, retrieved.ResolvedAt).NotEqual(nil)
	gt.True(t, retrieved.ResolvedAt.Equal(resolvedAt))
	gt.True(t, retrieved.UpdatedAt.Equal(resolvedAt))

	retrieved.SetStatus(types.VulnStatusIgnored, resolvedAt.Add(time.Minute))
	gt.NoError(t, repo.UpdateVulnerability(ctx, retrieved))

	reopened, err := repo.GetVulnerability(ctx, vuln.ID)
	gt.NoError(t, err)
	gt.V(t, reopened.Status).Equal(types.VulnStatusIgnored)
	gt.True(t, reopened.ResolvedAt == nil)
	gt.V(t, *reopened.RemediationNotes).Equal(notes)

	err = repo.UpdateVulnerability(ctx, newVulnerability(scan.ID, now, 6))
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}

// TestDeleteProjectCascade tests that deleting a project removes everything below it
func TestDeleteProjectCascade(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()
	owner := newUserID()
	now := baseTime()
	project := setupProject(t, repo, owner)
	scan := setupScan(t, repo, project, now)
	vuln := newVulnerability(scan.ID, now, 1)

	gt.NoError(t, repo.BatchCreateScanFiles(ctx, scan.ID, []*model.ScanFile{
		{ID: types.NewScanFileID(), ScanID: scan.ID, FilePath: "main.go", ProcessedAt: now},
	}))
	gt.NoError(t, repo.BatchCreateVulnerabilities(ctx, scan.ID, []*model.Vulnerability{vuln}))

	gt.NoError(t, repo.DeleteProject(ctx, project.ID))

	_, err := repo.GetProject(ctx, project.ID)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
	_, err = repo.GetScan(ctx, scan.ID)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
	_, err = repo.ListScanFiles(ctx, scan.ID)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
	_, err = repo.GetVulnerability(ctx, vuln.ID)
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	scans, err := repo.ListScans(ctx, owner, 0)
	gt.NoError(t, err)
	gt.V(t, len(scans)).Equal(0)

	err = repo.DeleteProject(ctx, project.ID)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}

// TestConcurrentVulnerabilityBatches tests that concurrent batches against one scan lose no writes
func TestConcurrentVulnerabilityBatches(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()
	owner := newUserID()
	now := baseTime()
	project := setupProject(t, repo, owner)
	scan := setupScan(t, repo, project, now)

	const workers = 4
	const perBatch = 5

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			batch := make([]*model.Vulnerability, 0, perBatch)
			for j := range perBatch {
				batch = append(batch, newVulnerability(scan.ID, now, i*perBatch+j))
			}
			errs[i] = repo.BatchCreateVulnerabilities(ctx, scan.ID, batch)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		gt.NoError(t, err)
	}

	stored, err := repo.ListVulnerabilities(ctx, owner, model.VulnerabilityFilter{ScanID: scan.ID})
	gt.NoError(t, err)
	gt.V(t, len(stored)).Equal(workers * perBatch)
}
