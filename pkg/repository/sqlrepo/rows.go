package sqlrepo

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

type projectRow struct {
	ID        types.ProjectID `db:"id"`
	Name      string          `db:"name"`
	OwnerID   types.UserID    `db:"owner_id"`
	CreatedAt time.Time       `db:"created_at"`
}

func (x *projectRow) toModel() *model.Project {
	return &model.Project{
		ID:        x.ID,
		Name:      x.Name,
		OwnerID:   x.OwnerID,
		CreatedAt: x.CreatedAt,
	}
}

type scanRow struct {
	ID              types.ScanID     `db:"id"`
	ProjectID       types.ProjectID  `db:"project_id"`
	CreatedBy       *string          `db:"created_by"`
	Status          types.ScanStatus `db:"status"`
	StartedAt       *time.Time       `db:"started_at"`
	CompletedAt     *time.Time       `db:"completed_at"`
	DurationSeconds *int             `db:"duration_seconds"`
	TotalFiles      int              `db:"total_files"`
	FilesProcessed  int              `db:"files_processed"`
	ScanConfig      string           `db:"scan_config"`
	ErrorMessage    *string          `db:"error_message"`
	CreatedAt       time.Time        `db:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at"`
}

const scanColumns = `id, project_id, created_by, status, started_at, completed_at, duration_seconds,
	total_files, files_processed, scan_config, error_message, created_at, updated_at`

func newScanRow(scan *model.Scan) (*scanRow, error) {
	cfg := scan.ScanConfig
	if cfg == nil {
		cfg = map[string]any{}
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal scan config", goerr.V("scanID", scan.ID))
	}

	row := &scanRow{
		ID:              scan.ID,
		ProjectID:       scan.ProjectID,
		Status:          scan.Status,
		StartedAt:       utcPtr(scan.StartedAt),
		CompletedAt:     utcPtr(scan.CompletedAt),
		DurationSeconds: scan.DurationSeconds,
		TotalFiles:      scan.TotalFiles,
		FilesProcessed:  scan.FilesProcessed,
		ScanConfig:      string(raw),
		ErrorMessage:    scan.ErrorMessage,
		CreatedAt:       scan.CreatedAt.UTC(),
		UpdatedAt:       scan.UpdatedAt.UTC(),
	}
	if scan.CreatedBy != nil {
		v := string(*scan.CreatedBy)
		row.CreatedBy = &v
	}
	return row, nil
}

func (x *scanRow) toModel() (*model.Scan, error) {
	scan := &model.Scan{
		ID:              x.ID,
		ProjectID:       x.ProjectID,
		Status:          x.Status,
		StartedAt:       x.StartedAt,
		CompletedAt:     x.CompletedAt,
		DurationSeconds: x.DurationSeconds,
		TotalFiles:      x.TotalFiles,
		FilesProcessed:  x.FilesProcessed,
		ErrorMessage:    x.ErrorMessage,
		CreatedAt:       x.CreatedAt,
		UpdatedAt:       x.UpdatedAt,
	}
	if x.CreatedBy != nil {
		v := types.UserID(*x.CreatedBy)
		scan.CreatedBy = &v
	}
	if x.ScanConfig != "" {
		if err := json.Unmarshal([]byte(x.ScanConfig), &scan.ScanConfig); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal scan config", goerr.V("scanID", x.ID))
		}
	}
	return scan, nil
}

type scanFileRow struct {
	ID                 types.ScanFileID `db:"id"`
	ScanID             types.ScanID     `db:"scan_id"`
	FilePath           string           `db:"file_path"`
	Language           *string          `db:"language"`
	LinesOfCode        *int             `db:"lines_of_code"`
	VulnerabilityCount int              `db:"vulnerability_count"`
	ProcessedAt        time.Time        `db:"processed_at"`
}

const scanFileColumns = `id, scan_id, file_path, language, lines_of_code, vulnerability_count, processed_at`

func (x *scanFileRow) toModel() *model.ScanFile {
	return &model.ScanFile{
		ID:                 x.ID,
		ScanID:             x.ScanID,
		FilePath:           x.FilePath,
		Language:           x.Language,
		LinesOfCode:        x.LinesOfCode,
		VulnerabilityCount: x.VulnerabilityCount,
		ProcessedAt:        x.ProcessedAt,
	}
}

type vulnerabilityRow struct {
	ID               types.VulnID     `db:"id"`
	ScanID           types.ScanID     `db:"scan_id"`
	Type             string           `db:"type"`
	Severity         types.Severity   `db:"severity"`
	FilePath         string           `db:"file_path"`
	LineNumber       int              `db:"line_number"`
	ColumnNumber     *int             `db:"column_number"`
	CodeSnippet      *string          `db:"code_snippet"`
	Message          string           `db:"message"`
	CweID            *string          `db:"cwe_id"`
	OwaspCategory    *string          `db:"owasp_category"`
	Status           types.VulnStatus `db:"status"`
	RemediationNotes *string          `db:"remediation_notes"`
	ResolvedAt       *time.Time       `db:"resolved_at"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

const vulnerabilityColumns = `id, scan_id, type, severity, file_path, line_number, column_number, code_snippet,
	message, cwe_id, owasp_category, status, remediation_notes, resolved_at, created_at, updated_at`

func (x *vulnerabilityRow) toModel() *model.Vulnerability {
	return &model.Vulnerability{
		ID:               x.ID,
		ScanID:           x.ScanID,
		Type:             x.Type,
		Severity:         x.Severity,
		FilePath:         x.FilePath,
		LineNumber:       x.LineNumber,
		ColumnNumber:     x.ColumnNumber,
		CodeSnippet:      x.CodeSnippet,
		Message:          x.Message,
		CweID:            x.CweID,
		OwaspCategory:    x.OwaspCategory,
		Status:           x.Status,
		RemediationNotes: x.RemediationNotes,
		ResolvedAt:       x.ResolvedAt,
		CreatedAt:        x.CreatedAt,
		UpdatedAt:        x.UpdatedAt,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
