package cli

import (
	"strings"
	"testing"
)

func Test_Register_Then_Auth_Succeeds(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	r.Register("alice", "pw1")

	out := r.MustRun("auth", "alice", "-p", "pw1")
	if out != "ok" {
		t.Fatalf("auth output = %q, want ok", out)
	}
}

func Test_Auth_Rejects_Wrong_Password(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	r.Register("alice", "pw1")

	stderr := r.MustFail("auth", "alice", "-p", "nope")
	if !strings.Contains(stderr, "authentication failed") {
		t.Fatalf("stderr = %q, want authentication failed", stderr)
	}
}

func Test_Auth_Rejects_Unknown_User(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	stderr := r.MustFail("auth", "ghost", "-p", "pw")
	if !strings.Contains(stderr, "authentication failed") {
		t.Fatalf("stderr = %q, want authentication failed", stderr)
	}
}

func Test_Register_Rejects_Duplicate_Username(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	r.Register("alice", "pw1")

	stderr := r.MustFail("register", "alice", "-p", "other")
	if !strings.Contains(stderr, "already") && !strings.Contains(stderr, "conflict") {
		t.Fatalf("stderr = %q, want a conflict message", stderr)
	}
}

func Test_Register_Requires_Password(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	stderr := r.MustFail("register", "alice")
	if !strings.Contains(stderr, "--password") {
		t.Fatalf("stderr = %q, want --password requirement", stderr)
	}
}
