package model

import (
	"testing"
	"time"
)

func TestReportFinalize(t *testing.T) {
	r := Report{
		Path:       "/shots",
		StartedAt:  time.Date(2026, 8, 20, 10, 0, 0, 0, time.FixedZone("X", 3*3600)),
		FinishedAt: time.Date(2026, 8, 20, 10, 0, 5, 0, time.FixedZone("X", 3*3600)),
		Outcomes: []Outcome{
			{File: "b.png", Status: StatusSkipped, Reason: ReasonUnreadable},
			{File: "a.png", Status: StatusRenamed, NewName: "Invoice.png"},
			{File: "c.png", Status: StatusPartial, Reason: ReasonRenameFailed},
			{File: "d.png", Status: StatusRenamed, NewName: "Invoice_1.png"},
		},
	}

	r.Finalize()

	if r.Summary.Renamed != 2 || r.Summary.Skipped != 1 || r.Summary.Partial != 1 {
		t.Fatalf("unexpected summary: %+v", r.Summary)
	}
	for i, want := range []string{"a.png", "b.png", "c.png", "d.png"} {
		if r.Outcomes[i].File != want {
			t.Fatalf("outcome %d = %s, want %s", i, r.Outcomes[i].File, want)
		}
	}
	if _, off := r.StartedAt.Zone(); off != 0 {
		t.Fatalf("StartedAt not UTC: %v", r.StartedAt)
	}
}
