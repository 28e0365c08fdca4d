package types

import (
	"log/slog"

	"github.com/google/uuid"
)

type (
	ScanID      string
	ProjectID   string
	UserID      string
	ScanFileID  string
	VulnID      string
	JobID       string
	RequestID   string
	ProjectRole string

	JWTSecret   string
	DatabaseDSN string
)

func NewScanID() ScanID         { return ScanID(uuid.NewString()) }
func NewProjectID() ProjectID   { return ProjectID(uuid.NewString()) }
func NewScanFileID() ScanFileID { return ScanFileID(uuid.NewString()) }
func NewVulnID() VulnID         { return VulnID(uuid.NewString()) }
func NewJobID() JobID           { return JobID(uuid.NewString()) }
func NewRequestID() RequestID   { return RequestID(uuid.NewString()) }

func (x ScanID) String() string    { return string(x) }
func (x ProjectID) String() string { return string(x) }
func (x UserID) String() string    { return string(x) }
func (x VulnID) String() string    { return string(x) }
func (x JobID) String() string     { return string(x) }

const (
	ProjectRoleOwner  ProjectRole = "owner"
	ProjectRoleAdmin  ProjectRole = "admin"
	ProjectRoleMember ProjectRole = "member"
	ProjectRoleViewer ProjectRole = "viewer"
)

func (x JWTSecret) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x JWTSecret) String() string {
	return "***********"
}

func (x DatabaseDSN) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x DatabaseDSN) String() string {
	return "***********"
}
