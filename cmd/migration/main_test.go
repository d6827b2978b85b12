package main

import "testing"

func TestParseSteps(t *testing.T) {
	if got, err := parseSteps(nil); err != nil || got != 1 {
		t.Fatalf("expected default of 1 step, got %d (%v)", got, err)
	}
	if got, err := parseSteps([]string{" 3 "}); err != nil || got != 3 {
		t.Fatalf("expected 3 steps, got %d (%v)", got, err)
	}
	if _, err := parseSteps([]string{"0"}); err == nil {
		t.Fatalf("expected error for zero steps")
	}
}

func TestParseVersion(t *testing.T) {
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if got, err := parseVersion("1776297720"); err != nil || got != 1776297720 {
		t.Fatalf("unexpected version: %d (%v)", got, err)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("STATLINK_TEST_FLAG", "")
	if !envBool("STATLINK_TEST_FLAG", true) {
		t.Fatalf("expected fallback for empty value")
	}
	t.Setenv("STATLINK_TEST_FLAG", "false")
	if envBool("STATLINK_TEST_FLAG", true) {
		t.Fatalf("expected explicit false")
	}
}

func TestRun_RequiresCommand(t *testing.T) {
	if err := run(nil, nil); err == nil {
		t.Fatalf("expected usage error without a command")
	}
}
