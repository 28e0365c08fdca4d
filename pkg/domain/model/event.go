package model

import (
	"encoding/json"
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

// Event is a scan lifecycle notification. It is implemented only by
// ProgressEvent, VulnerabilityEvent and CompleteEvent.
type Event interface {
	Kind() types.EventKind
	Target() types.ScanID
	Validate() error
	event()
}

type ProgressEvent struct {
	ScanID         types.ScanID `json:"scan_id"`
	FilesProcessed int          `json:"files_processed"`
	TotalFiles     int          `json:"total_files"`
}

func (x ProgressEvent) Kind() types.EventKind { return types.EventKindProgress }
func (x ProgressEvent) Target() types.ScanID  { return x.ScanID }
func (ProgressEvent) event()                  {}

func (x ProgressEvent) Validate() error {
	if x.ScanID == "" {
		return goerr.Wrap(types.ErrValidationFailed, "scan_id is required in progress event")
	}
	if x.FilesProcessed < 0 || x.TotalFiles < 0 {
		return goerr.Wrap(types.ErrValidationFailed, "negative file counter in progress event",
			goerr.V("files_processed", x.FilesProcessed),
			goerr.V("total_files", x.TotalFiles),
		)
	}
	return nil
}

type VulnerabilityEvent struct {
	ScanID        types.ScanID   `json:"scan_id"`
	Vulnerability *Vulnerability `json:"vulnerability"`
}

func (x VulnerabilityEvent) Kind() types.EventKind { return types.EventKindVulnerability }
func (x VulnerabilityEvent) Target() types.ScanID  { return x.ScanID }
func (VulnerabilityEvent) event()                  {}

func (x VulnerabilityEvent) Validate() error {
	if x.ScanID == "" {
		return goerr.Wrap(types.ErrValidationFailed, "scan_id is required in vulnerability event")
	}
	if x.Vulnerability == nil {
		return goerr.Wrap(types.ErrValidationFailed, "vulnerability is required in vulnerability event", goerr.V("scan_id", x.ScanID))
	}
	return nil
}

type ScanSummary struct {
	TotalFiles      int  `json:"total_files"`
	FilesProcessed  int  `json:"files_processed"`
	DurationSeconds *int `json:"duration_seconds,omitempty"`
}

type CompleteEvent struct {
	ScanID  types.ScanID `json:"scan_id"`
	Summary ScanSummary  `json:"summary"`
}

func (x CompleteEvent) Kind() types.EventKind { return types.EventKindComplete }
func (x CompleteEvent) Target() types.ScanID  { return x.ScanID }
func (CompleteEvent) event()                  {}

func (x CompleteEvent) Validate() error {
	if x.ScanID == "" {
		return goerr.Wrap(types.ErrValidationFailed, "scan_id is required in complete event")
	}
	return nil
}

// EncodeEvent serializes an event as a work queue payload.
func EncodeEvent(ev Event) ([]byte, error) {
	if ev == nil {
		return nil, goerr.Wrap(types.ErrValidationFailed, "event is nil")
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal event", goerr.V("kind", ev.Kind()))
	}
	return raw, nil
}

// DecodeEvent restores an event from a work queue payload of the given kind.
func DecodeEvent(kind types.EventKind, payload []byte) (Event, error) {
	var ev Event
	switch kind {
	case types.EventKindProgress:
		var v ProgressEvent
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal progress event")
		}
		ev = v
	case types.EventKindVulnerability:
		var v VulnerabilityEvent
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal vulnerability event")
		}
		ev = v
	case types.EventKindComplete:
		var v CompleteEvent
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal complete event")
		}
		ev = v
	default:
		return nil, goerr.Wrap(types.ErrValidationFailed, "unknown event kind", goerr.V("kind", kind))
	}

	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

// Message is the envelope pushed to every real-time subscriber.
type Message struct {
	Type types.MessageType `json:"type"`
	Data any               `json:"data"`
}

type ProgressMessage struct {
	ProgressEvent
	Percentage int `json:"percentage"`
}

// Percentage returns round(processed / total * 100), or 0 when total is 0.
func Percentage(processed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(processed) / float64(total) * 100))
}

// Delivery tells which path an emitted event took.
type Delivery string

const (
	DeliveryQueued  Delivery = "queued"
	DeliveryDirect  Delivery = "direct"
	DeliveryDropped Delivery = "dropped"
)

// Job is one unit of work held by the work queue.
type Job struct {
	ID          types.JobID     `json:"id"`
	Kind        types.EventKind `json:"kind"`
	Payload     []byte          `json:"payload"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
}
