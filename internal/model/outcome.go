package model

import (
	"sort"
	"time"
)

// Analysis is what the content-understanding service produced for one image.
// Immutable once returned by the analyzer.
type Analysis struct {
	Description string `json:"description"`
	Label       string `json:"label"`
}

const (
	StatusRenamed = "renamed"
	StatusSkipped = "skipped"
	StatusPartial = "partial" // metadata written, rename failed
)

const (
	ReasonUnreadable          = "file_unreadable"
	ReasonServiceUnavailable  = "service_unavailable"
	ReasonMetadataWriteFailed = "metadata_write_failed"
	ReasonRenameFailed        = "rename_failed"
)

// Outcome records what happened to a single candidate file. Every candidate
// produces exactly one Outcome.
type Outcome struct {
	File    string `json:"file"`
	NewName string `json:"new_name,omitempty"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

type Summary struct {
	Renamed int `json:"renamed"`
	Skipped int `json:"skipped"`
	Partial int `json:"partial"`
}

// Report is the batch result handed back to the caller.
type Report struct {
	Path       string    `json:"path"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Summary    Summary   `json:"summary"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Finalize normalizes timestamps to UTC, sorts outcomes by original file name
// and computes the summary from the outcome list.
func (r *Report) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Outcomes, func(i, j int) bool {
		return r.Outcomes[i].File < r.Outcomes[j].File
	})

	var s Summary
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusRenamed:
			s.Renamed++
		case StatusSkipped:
			s.Skipped++
		case StatusPartial:
			s.Partial++
		}
	}
	r.Summary = s
}
