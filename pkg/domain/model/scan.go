package model

import (
	"time"

	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

// Project is owned outside this service. Only the ownership and membership
// facts needed for access checks are kept here.
type Project struct {
	ID        types.ProjectID `json:"id"`
	Name      string          `json:"name"`
	OwnerID   types.UserID    `json:"owner_id"`
	CreatedAt time.Time       `json:"created_at"`
}

type ProjectMember struct {
	ProjectID types.ProjectID   `json:"project_id"`
	UserID    types.UserID      `json:"user_id"`
	Role      types.ProjectRole `json:"role"`
	CreatedAt time.Time         `json:"created_at"`
}

// Scan is one analysis run against a project.
type Scan struct {
	ID              types.ScanID     `json:"id"`
	ProjectID       types.ProjectID  `json:"project_id"`
	CreatedBy       *types.UserID    `json:"created_by,omitempty"`
	Status          types.ScanStatus `json:"status"`
	StartedAt       *time.Time       `json:"started_at,omitempty"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	DurationSeconds *int             `json:"duration_seconds,omitempty"`
	TotalFiles      int              `json:"total_files"`
	FilesProcessed  int              `json:"files_processed"`
	ScanConfig      map[string]any   `json:"scan_config"`
	ErrorMessage    *string          `json:"error_message,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Summary builds the payload carried by the completion event.
func (x *Scan) Summary() ScanSummary {
	return ScanSummary{
		TotalFiles:      x.TotalFiles,
		FilesProcessed:  x.FilesProcessed,
		DurationSeconds: x.DurationSeconds,
	}
}

type ScanDetail struct {
	*Scan
	Vulnerabilities []*Vulnerability `json:"vulnerabilities"`
}

type ScanFile struct {
	ID                 types.ScanFileID `json:"id"`
	ScanID             types.ScanID     `json:"scan_id"`
	FilePath           string           `json:"file_path"`
	Language           *string          `json:"language,omitempty"`
	LinesOfCode        *int             `json:"lines_of_code,omitempty"`
	VulnerabilityCount int              `json:"vulnerability_count"`
	ProcessedAt        time.Time        `json:"processed_at"`
}

type Vulnerability struct {
	ID               types.VulnID     `json:"id"`
	ScanID           types.ScanID     `json:"scan_id"`
	Type             string           `json:"type"`
	Severity         types.Severity   `json:"severity"`
	FilePath         string           `json:"file_path"`
	LineNumber       int              `json:"line_number"`
	ColumnNumber     *int             `json:"column_number,omitempty"`
	CodeSnippet      *string          `json:"code_snippet,omitempty"`
	Message          string           `json:"message"`
	CweID            *string          `json:"cwe_id,omitempty"`
	OwaspCategory    *string          `json:"owasp_category,omitempty"`
	Status           types.VulnStatus `json:"status"`
	RemediationNotes *string          `json:"remediation_notes,omitempty"`
	ResolvedAt       *time.Time       `json:"resolved_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// SetStatus applies a triage status. resolved_at is set only for resolved and
// cleared for every other status.
func (x *Vulnerability) SetStatus(status types.VulnStatus, now time.Time) {
	x.Status = status
	if status == types.VulnStatusResolved {
		x.ResolvedAt = &now
	} else {
		x.ResolvedAt = nil
	}
	x.UpdatedAt = now
}

type VulnerabilityFilter struct {
	ProjectID types.ProjectID
	ScanID    types.ScanID
	Limit     int
}
