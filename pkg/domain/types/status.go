package types

import "github.com/m-mizutani/goerr/v2"

// ScanStatus is the lifecycle state of a scan. pending is initial; completed,
// failed and cancelled are terminal.
type ScanStatus string

const (
	ScanStatusPending   ScanStatus = "pending"
	ScanStatusRunning   ScanStatus = "running"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
	ScanStatusCancelled ScanStatus = "cancelled"
)

func (x ScanStatus) Validate() error {
	switch x {
	case ScanStatusPending, ScanStatusRunning, ScanStatusCompleted, ScanStatusFailed, ScanStatusCancelled:
		return nil
	}
	return goerr.Wrap(ErrValidationFailed, "unknown scan status", goerr.V("status", x))
}

func (x ScanStatus) IsTerminal() bool {
	return x == ScanStatusCompleted || x == ScanStatusFailed || x == ScanStatusCancelled
}

// rank orders statuses so that transitions can only move forward.
func (x ScanStatus) rank() int {
	switch x {
	case ScanStatusPending:
		return 0
	case ScanStatusRunning:
		return 1
	default:
		return 2
	}
}

// CanTransitionTo reports whether a scan in status x may be moved to next.
// Setting the current status again is always allowed and treated as no change.
func (x ScanStatus) CanTransitionTo(next ScanStatus) bool {
	if x == next {
		return true
	}
	if x.IsTerminal() {
		return false
	}
	return next.rank() >= x.rank()
}

type VulnStatus string

const (
	VulnStatusOpen          VulnStatus = "open"
	VulnStatusResolved      VulnStatus = "resolved"
	VulnStatusIgnored       VulnStatus = "ignored"
	VulnStatusFalsePositive VulnStatus = "false_positive"
)

func (x VulnStatus) Validate() error {
	switch x {
	case VulnStatusOpen, VulnStatusResolved, VulnStatusIgnored, VulnStatusFalsePositive:
		return nil
	}
	return goerr.Wrap(ErrValidationFailed, "unknown vulnerability status", goerr.V("status", x))
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

func (x Severity) Validate() error {
	switch x {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return nil
	}
	return goerr.Wrap(ErrValidationFailed, "unknown severity", goerr.V("severity", x))
}

// EventKind names a work queue lane. Each kind has its own dispatcher.
type EventKind string

const (
	EventKindProgress      EventKind = "progress"
	EventKindVulnerability EventKind = "vulnerability"
	EventKindComplete      EventKind = "complete"
)

// EventKinds lists every kind in dispatch order.
var EventKinds = []EventKind{EventKindProgress, EventKindVulnerability, EventKindComplete}

func (x EventKind) Validate() error {
	switch x {
	case EventKindProgress, EventKindVulnerability, EventKindComplete:
		return nil
	}
	return goerr.Wrap(ErrValidationFailed, "unknown event kind", goerr.V("kind", x))
}

func (x EventKind) String() string { return string(x) }

// MessageType is the name of a message pushed to real-time subscribers.
type MessageType string

const (
	MessageScanProgress      MessageType = "scan:progress"
	MessageScanVulnerability MessageType = "scan:vulnerability"
	MessageScanComplete      MessageType = "scan:complete"
)

func (x EventKind) MessageType() MessageType {
	switch x {
	case EventKindProgress:
		return MessageScanProgress
	case EventKindVulnerability:
		return MessageScanVulnerability
	default:
		return MessageScanComplete
	}
}
