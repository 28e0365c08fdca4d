package sqlrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra/database"
	"github.com/m-mizutani/scanstream/pkg/repository"
	"github.com/m-mizutani/scanstream/pkg/utils/safe"
)

type scanRepository struct {
	db *database.DB
}

// New creates a ScanRepository on top of a migrated database.
func New(db *database.DB) interfaces.ScanRepository {
	return &scanRepository{db: db}
}

// accessibleProjects selects project ids the user owns or is a member of. It
// expects the user id bound twice.
const accessibleProjects = `SELECT id FROM projects WHERE owner_id = ?
	UNION SELECT project_id FROM project_members WHERE user_id = ?`

func (r *scanRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer safe.Rollback(tx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func exists(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, q.Rebind(query), args...); err != nil {
		return false, goerr.Wrap(err, "failed to check existence")
	}
	return n > 0, nil
}

func notFoundIfNoRows(err error, msg string, values ...goerr.Option) error {
	if errors.Is(err, sql.ErrNoRows) {
		return goerr.Wrap(repository.ErrNotFound, msg, values...)
	}
	return goerr.Wrap(err, "failed to query "+msg, values...)
}

func requireAffected(res sql.Result, msg string, values ...goerr.Option) error {
	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to get affected rows", values...)
	}
	if n == 0 {
		return goerr.Wrap(repository.ErrNotFound, msg, values...)
	}
	return nil
}

// Project operations

func (r *scanRepository) CreateProject(ctx context.Context, project *model.Project) error {
	row := &projectRow{
		ID:        project.ID,
		Name:      project.Name,
		OwnerID:   project.OwnerID,
		CreatedAt: project.CreatedAt.UTC(),
	}
	query := `INSERT INTO projects (id, name, owner_id, created_at) VALUES (:id, :name, :owner_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return goerr.Wrap(err, "failed to insert project", goerr.V("projectID", project.ID))
	}
	return nil
}

func (r *scanRepository) GetProject(ctx context.Context, projectID types.ProjectID) (*model.Project, error) {
	var row projectRow
	query := r.db.Rebind(`SELECT id, name, owner_id, created_at FROM projects WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, projectID); err != nil {
		return nil, notFoundIfNoRows(err, "project not found", goerr.V("projectID", projectID))
	}
	return row.toModel(), nil
}

func (r *scanRepository) DeleteProject(ctx context.Context, projectID types.ProjectID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM projects WHERE id = ?`), projectID)
	if err != nil {
		return goerr.Wrap(err, "failed to delete project", goerr.V("projectID", projectID))
	}
	return requireAffected(res, "project not found", goerr.V("projectID", projectID))
}

func (r *scanRepository) AddProjectMember(ctx context.Context, member *model.ProjectMember) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		found, err := exists(ctx, tx, `SELECT COUNT(1) FROM projects WHERE id = ?`, member.ProjectID)
		if err != nil {
			return err
		}
		if !found {
			return goerr.Wrap(repository.ErrNotFound, "project not found", goerr.V("projectID", member.ProjectID))
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM project_members WHERE project_id = ? AND user_id = ?`),
			member.ProjectID, member.UserID); err != nil {
			return goerr.Wrap(err, "failed to replace project member", goerr.V("projectID", member.ProjectID))
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO project_members (project_id, user_id, role, created_at) VALUES (?, ?, ?, ?)`),
			member.ProjectID, member.UserID, member.Role, member.CreatedAt.UTC()); err != nil {
			return goerr.Wrap(err, "failed to insert project member",
				goerr.V("projectID", member.ProjectID),
				goerr.V("userID", member.UserID),
			)
		}
		return nil
	})
}

func (r *scanRepository) HasProjectAccess(ctx context.Context, projectID types.ProjectID, userID types.UserID) (bool, error) {
	return exists(ctx, r.db,
		`SELECT COUNT(1) FROM projects WHERE id = ? AND id IN (`+accessibleProjects+`)`,
		projectID, userID, userID,
	)
}

// Scan operations

func (r *scanRepository) CreateScan(ctx context.Context, scan *model.Scan) error {
	row, err := newScanRow(scan)
	if err != nil {
		return err
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		found, err := exists(ctx, tx, `SELECT COUNT(1) FROM projects WHERE id = ?`, scan.ProjectID)
		if err != nil {
			return err
		}
		if !found {
			return goerr.Wrap(repository.ErrNotFound, "project not found", goerr.V("projectID", scan.ProjectID))
		}

		query := `INSERT INTO scans (` + scanColumns + `) VALUES (
			:id, :project_id, :created_by, :status, :started_at, :completed_at, :duration_seconds,
			:total_files, :files_processed, :scan_config, :error_message, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return goerr.Wrap(err, "failed to insert scan", goerr.V("scanID", scan.ID))
		}
		return nil
	})
}

func (r *scanRepository) GetScan(ctx context.Context, scanID types.ScanID) (*model.Scan, error) {
	var row scanRow
	query := r.db.Rebind(`SELECT ` + scanColumns + ` FROM scans WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, scanID); err != nil {
		return nil, notFoundIfNoRows(err, "scan not found", goerr.V("scanID", scanID))
	}
	return row.toModel()
}

func (r *scanRepository) ListScans(ctx context.Context, userID types.UserID, limit int) ([]*model.Scan, error) {
	query := `SELECT ` + scanColumns + ` FROM scans WHERE project_id IN (` + accessibleProjects + `) ORDER BY created_at DESC, id`
	args := []any{userID, userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []scanRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, goerr.Wrap(err, "failed to list scans", goerr.V("userID", userID))
	}

	scans := make([]*model.Scan, 0, len(rows))
	for i := range rows {
		scan, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}
	return scans, nil
}

func (r *scanRepository) UpdateScan(ctx context.Context, scan *model.Scan) error {
	row, err := newScanRow(scan)
	if err != nil {
		return err
	}

	query := `UPDATE scans SET status = :status, started_at = :started_at, completed_at = :completed_at,
		duration_seconds = :duration_seconds, total_files = :total_files, files_processed = :files_processed,
		scan_config = :scan_config, error_message = :error_message, updated_at = :updated_at
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return goerr.Wrap(err, "failed to update scan", goerr.V("scanID", scan.ID))
	}
	return requireAffected(res, "scan not found", goerr.V("scanID", scan.ID))
}

// File operations

func (r *scanRepository) BatchCreateScanFiles(ctx context.Context, scanID types.ScanID, files []*model.ScanFile) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireScan(ctx, tx, scanID); err != nil {
			return err
		}

		query := `INSERT INTO scan_files (` + scanFileColumns + `) VALUES (
			:id, :scan_id, :file_path, :language, :lines_of_code, :vulnerability_count, :processed_at)`
		for _, f := range files {
			if f.ScanID != scanID {
				return goerr.Wrap(repository.ErrInvalidInput, "file belongs to another scan",
					goerr.V("scanID", scanID),
					goerr.V("fileScanID", f.ScanID),
				)
			}
			row := &scanFileRow{
				ID:                 f.ID,
				ScanID:             f.ScanID,
				FilePath:           f.FilePath,
				Language:           f.Language,
				LinesOfCode:        f.LinesOfCode,
				VulnerabilityCount: f.VulnerabilityCount,
				ProcessedAt:        f.ProcessedAt.UTC(),
			}
			if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
				return goerr.Wrap(err, "failed to insert scan file",
					goerr.V("scanID", scanID),
					goerr.V("fileID", f.ID),
				)
			}
		}
		return nil
	})
}

func (r *scanRepository) ListScanFiles(ctx context.Context, scanID types.ScanID) ([]*model.ScanFile, error) {
	if err := requireScan(ctx, r.db, scanID); err != nil {
		return nil, err
	}

	var rows []scanFileRow
	query := r.db.Rebind(`SELECT ` + scanFileColumns + ` FROM scan_files WHERE scan_id = ? ORDER BY processed_at, file_path`)
	if err := r.db.SelectContext(ctx, &rows, query, scanID); err != nil {
		return nil, goerr.Wrap(err, "failed to list scan files", goerr.V("scanID", scanID))
	}

	files := make([]*model.ScanFile, 0, len(rows))
	for i := range rows {
		files = append(files, rows[i].toModel())
	}
	return files, nil
}

// Vulnerability operations

func (r *scanRepository) BatchCreateVulnerabilities(ctx context.Context, scanID types.ScanID, vulns []*model.Vulnerability) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireScan(ctx, tx, scanID); err != nil {
			return err
		}

		query := `INSERT INTO vulnerabilities (` + vulnerabilityColumns + `) VALUES (
			:id, :scan_id, :type, :severity, :file_path, :line_number, :column_number, :code_snippet,
			:message, :cwe_id, :owasp_category, :status, :remediation_notes, :resolved_at, :created_at, :updated_at)`
		for _, v := range vulns {
			if v.ScanID != scanID {
				return goerr.Wrap(repository.ErrInvalidInput, "vulnerability belongs to another scan",
					goerr.V("scanID", scanID),
					goerr.V("vulnScanID", v.ScanID),
				)
			}
			if _, err := tx.NamedExecContext(ctx, query, newVulnerabilityRow(v)); err != nil {
				return goerr.Wrap(err, "failed to insert vulnerability",
					goerr.V("scanID", scanID),
					goerr.V("vulnID", v.ID),
				)
			}
		}
		return nil
	})
}

func (r *scanRepository) ListVulnerabilities(ctx context.Context, userID types.UserID, filter model.VulnerabilityFilter) ([]*model.Vulnerability, error) {
	scope := `SELECT id FROM scans WHERE project_id IN (` + accessibleProjects + `)`
	args := []any{userID, userID}
	if filter.ProjectID != "" {
		scope += ` AND project_id = ?`
		args = append(args, filter.ProjectID)
	}

	query := `SELECT ` + vulnerabilityColumns + ` FROM vulnerabilities WHERE scan_id IN (` + scope + `)`
	if filter.ScanID != "" {
		query += ` AND scan_id = ?`
		args = append(args, filter.ScanID)
	}
	query += ` ORDER BY created_at DESC, file_path, line_number, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var rows []vulnerabilityRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, goerr.Wrap(err, "failed to list vulnerabilities", goerr.V("userID", userID))
	}

	vulns := make([]*model.Vulnerability, 0, len(rows))
	for i := range rows {
		vulns = append(vulns, rows[i].toModel())
	}
	return vulns, nil
}

func (r *scanRepository) GetVulnerability(ctx context.Context, vulnID types.VulnID) (*model.Vulnerability, error) {
	var row vulnerabilityRow
	query := r.db.Rebind(`SELECT ` + vulnerabilityColumns + ` FROM vulnerabilities WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, vulnID); err != nil {
		return nil, notFoundIfNoRows(err, "vulnerability not found", goerr.V("vulnID", vulnID))
	}
	return row.toModel(), nil
}

func (r *scanRepository) UpdateVulnerability(ctx context.Context, vuln *model.Vulnerability) error {
	query := `UPDATE vulnerabilities SET status = :status, remediation_notes = :remediation_notes,
		resolved_at = :resolved_at, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, newVulnerabilityRow(vuln))
	if err != nil {
		return goerr.Wrap(err, "failed to update vulnerability", goerr.V("vulnID", vuln.ID))
	}
	return requireAffected(res, "vulnerability not found", goerr.V("vulnID", vuln.ID))
}

func requireScan(ctx context.Context, q sqlx.ExtContext, scanID types.ScanID) error {
	found, err := exists(ctx, q, `SELECT COUNT(1) FROM scans WHERE id = ?`, scanID)
	if err != nil {
		return err
	}
	if !found {
		return goerr.Wrap(repository.ErrNotFound, "scan not found", goerr.V("scanID", scanID))
	}
	return nil
}

func newVulnerabilityRow(v *model.Vulnerability) *vulnerabilityRow {
	return &vulnerabilityRow{
		ID:               v.ID,
		ScanID:           v.ScanID,
		Type:             v.Type,
		Severity:         v.Severity,
		FilePath:         v.FilePath,
		LineNumber:       v.LineNumber,
		ColumnNumber:     v.ColumnNumber,
		CodeSnippet:      v.CodeSnippet,
		Message:          v.Message,
		CweID:            v.CweID,
		OwaspCategory:    v.OwaspCategory,
		Status:           v.Status,
		RemediationNotes: v.RemediationNotes,
		ResolvedAt:       utcPtr(v.ResolvedAt),
		CreatedAt:        v.CreatedAt.UTC(),
		UpdatedAt:        v.UpdatedAt.UTC(),
	}
}
