package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

const (
	maxFilePathLength      = 1000
	maxLanguageLength      = 50
	maxVulnTypeLength      = 100
	maxCweIDLength         = 20
	maxOwaspCategoryLength = 100

	DefaultTestScanFiles           = 10
	DefaultTestScanVulnerabilities = 3
	MaxTestScanFiles               = 1000
	MaxTestScanVulnerabilities     = 1000
)

type CreateScanInput struct {
	ProjectID  types.ProjectID `json:"project_id"`
	ScanConfig map[string]any  `json:"scan_config,omitempty"`
}

func (x *CreateScanInput) Validate() error {
	if x.ProjectID == "" {
		return goerr.Wrap(types.ErrValidationFailed, "project_id is required")
	}
	return nil
}

// UpdateScanInput carries only the fields the caller provided. A nil field
// leaves the stored value untouched.
type UpdateScanInput struct {
	Status          *types.ScanStatus `json:"status,omitempty"`
	TotalFiles      *int              `json:"total_files,omitempty"`
	FilesProcessed  *int              `json:"files_processed,omitempty"`
	DurationSeconds *int              `json:"duration_seconds,omitempty"`
	ErrorMessage    *string           `json:"error_message,omitempty"`
}

func (x *UpdateScanInput) Validate() error {
	if x.Status != nil {
		if err := x.Status.Validate(); err != nil {
			return err
		}
	}
	for name, v := range map[string]*int{
		"total_files":      x.TotalFiles,
		"files_processed":  x.FilesProcessed,
		"duration_seconds": x.DurationSeconds,
	} {
		if v != nil && *v < 0 {
			return goerr.Wrap(types.ErrValidationFailed, "must not be negative", goerr.V("field", name), goerr.V("value", *v))
		}
	}
	return nil
}

type ScanFileInput struct {
	FilePath           string  `json:"file_path"`
	Language           *string `json:"language,omitempty"`
	LinesOfCode        *int    `json:"lines_of_code,omitempty"`
	VulnerabilityCount *int    `json:"vulnerability_count,omitempty"`
}

func (x *ScanFileInput) Validate() error {
	if x.FilePath == "" {
		return goerr.Wrap(types.ErrValidationFailed, "file_path is required")
	}
	if len(x.FilePath) > maxFilePathLength {
		return goerr.Wrap(types.ErrValidationFailed, "file_path is too long", goerr.V("length", len(x.FilePath)))
	}
	if x.Language != nil && len(*x.Language) > maxLanguageLength {
		return goerr.Wrap(types.ErrValidationFailed, "language is too long", goerr.V("language", *x.Language))
	}
	if x.LinesOfCode != nil && *x.LinesOfCode < 0 {
		return goerr.Wrap(types.ErrValidationFailed, "lines_of_code must not be negative", goerr.V("value", *x.LinesOfCode))
	}
	if x.VulnerabilityCount != nil && *x.VulnerabilityCount < 0 {
		return goerr.Wrap(types.ErrValidationFailed, "vulnerability_count must not be negative", goerr.V("value", *x.VulnerabilityCount))
	}
	return nil
}

type VulnerabilityInput struct {
	Type          string            `json:"type"`
	Severity      types.Severity    `json:"severity"`
	FilePath      string            `json:"file_path"`
	LineNumber    int               `json:"line_number"`
	ColumnNumber  *int              `json:"column_number,omitempty"`
	CodeSnippet   *string           `json:"code_snippet,omitempty"`
	Message       string            `json:"message"`
	CweID         *string           `json:"cwe_id,omitempty"`
	OwaspCategory *string           `json:"owasp_category,omitempty"`
	Status        *types.VulnStatus `json:"status,omitempty"`
}

func (x *VulnerabilityInput) Validate() error {
	if x.Type == "" {
		return goerr.Wrap(types.ErrValidationFailed, "type is required")
	}
	if len(x.Type) > maxVulnTypeLength {
		return goerr.Wrap(types.ErrValidationFailed, "type is too long", goerr.V("type", x.Type))
	}
	if err := x.Severity.Validate(); err != nil {
		return err
	}
	if x.FilePath == "" {
		return goerr.Wrap(types.ErrValidationFailed, "file_path is required")
	}
	if len(x.FilePath) > maxFilePathLength {
		return goerr.Wrap(types.ErrValidationFailed, "file_path is too long", goerr.V("length", len(x.FilePath)))
	}
	if x.LineNumber < 0 {
		return goerr.Wrap(types.ErrValidationFailed, "line_number must not be negative", goerr.V("value", x.LineNumber))
	}
	if x.ColumnNumber != nil && *x.ColumnNumber < 0 {
		return goerr.Wrap(types.ErrValidationFailed, "column_number must not be negative", goerr.V("value", *x.ColumnNumber))
	}
	if x.Message == "" {
		return goerr.Wrap(types.ErrValidationFailed, "message is required")
	}
	if x.CweID != nil && len(*x.CweID) > maxCweIDLength {
		return goerr.Wrap(types.ErrValidationFailed, "cwe_id is too long", goerr.V("cwe_id", *x.CweID))
	}
	if x.OwaspCategory != nil && len(*x.OwaspCategory) > maxOwaspCategoryLength {
		return goerr.Wrap(types.ErrValidationFailed, "owasp_category is too long", goerr.V("owasp_category", *x.OwaspCategory))
	}
	if x.Status != nil {
		if err := x.Status.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type UpdateVulnStatusInput struct {
	Status types.VulnStatus `json:"status"`
	Notes  *string          `json:"notes,omitempty"`
}

func (x *UpdateVulnStatusInput) Validate() error {
	return x.Status.Validate()
}

type CreateTestScanInput struct {
	Files           *int `json:"files,omitempty"`
	Vulnerabilities *int `json:"vulnerabilities,omitempty"`
}

func (x *CreateTestScanInput) Validate() error {
	if x.Files != nil && (*x.Files < 0 || *x.Files > MaxTestScanFiles) {
		return goerr.Wrap(types.ErrValidationFailed, "files out of range",
			goerr.V("value", *x.Files), goerr.V("max", MaxTestScanFiles))
	}
	if x.Vulnerabilities != nil && (*x.Vulnerabilities < 0 || *x.Vulnerabilities > MaxTestScanVulnerabilities) {
		return goerr.Wrap(types.ErrValidationFailed, "vulnerabilities out of range",
			goerr.V("value", *x.Vulnerabilities), goerr.V("max", MaxTestScanVulnerabilities))
	}
	return nil
}

func (x *CreateTestScanInput) FileCount() int {
	if x.Files == nil {
		return DefaultTestScanFiles
	}
	return *x.Files
}

func (x *CreateTestScanInput) VulnerabilityCount() int {
	if x.Vulnerabilities == nil {
		return DefaultTestScanVulnerabilities
	}
	return *x.Vulnerabilities
}
