package buildinfo

import "testing"

func TestSummary_WithCommitAndDate(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	defer func() { Version, Commit, Date = oldVersion, oldCommit, oldDate }()

	Version = "0.3.0"
	Commit = "0123456789abcdef"
	Date = "2026-10-19"
	if got := Summary(); got != "0.3.0 (commit=0123456, date=2026-10-19)" {
		t.Fatalf("unexpected summary: %q", got)
	}
	if got := Short(); got != "0.3.0" {
		t.Fatalf("unexpected short: %q", got)
	}
}

func TestShort_DefaultsToDev(t *testing.T) {
	oldVersion := Version
	defer func() { Version = oldVersion }()

	Version = ""
	if got := Short(); got != "dev" {
		t.Fatalf("unexpected short: %q", got)
	}
}
