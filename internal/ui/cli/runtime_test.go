package cli

import (
	"errors"
	"testing"

	lerrors "loom/internal/core/errors"
)

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"--once", "--verbose", "--config", "custom.toml", "Sources"})
	if err != nil {
		t.Fatal(err)
	}
	if !opts.once || !opts.verbose {
		t.Errorf("unexpected flags: %+v", opts)
	}
	if opts.configPath != "custom.toml" {
		t.Errorf("unexpected config path %q", opts.configPath)
	}
	if len(opts.args) != 1 || opts.args[0] != "Sources" {
		t.Errorf("unexpected positional args %v", opts.args)
	}
}

func TestParseOptions_Invalid(t *testing.T) {
	if _, err := parseOptions([]string{"--definitely-not-a-flag"}); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestClassifyError(t *testing.T) {
	userErrors := []error{
		lerrors.UnexpectedToken{File: "A.swift", Line: 0},
		lerrors.LexerInvalidAnnotation{File: "A.swift", Line: 0, Cause: lerrors.InvalidScope{Text: "x"}},
		lerrors.InvalidGraph{File: "A.swift", Cause: lerrors.CyclicDependency},
		lerrors.InvalidTemplatePath{Path: "nope"},
	}
	for _, err := range userErrors {
		if got := classifyError(err); got != exitUser {
			t.Errorf("classifyError(%v) = %d, want %d", err, got, exitUser)
		}
	}

	if got := classifyError(errors.New("broken invariant")); got != exitInternal {
		t.Errorf("internal errors must exit 2, got %d", got)
	}
}

func TestParseSince(t *testing.T) {
	if _, err := parseSince("2026-08-01"); err != nil {
		t.Errorf("date form should parse: %v", err)
	}
	if _, err := parseSince("2026-08-01T10:00:00Z"); err != nil {
		t.Errorf("RFC3339 form should parse: %v", err)
	}
	if _, err := parseSince("yesterday"); err == nil {
		t.Error("expected error for unparseable value")
	}
}
