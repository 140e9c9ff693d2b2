package config_test

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/tabletdb/tabletd/internal/platform/config"
)

// Exitf calls os.Exit, so the assertion runs the test binary again as a
// subprocess and inspects its exit code and stderr.
func TestExitfExitsWithCodeOne(t *testing.T) {
	if os.Getenv("TABLETD_TEST_EXITF") == "1" {
		config.Exitf("fatal: %s", "tablet failed to start")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfExitsWithCodeOne$")
	cmd.Env = append(os.Environ(), "TABLETD_TEST_EXITF=1")
	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %d", exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "fatal: tablet failed to start") {
		t.Fatalf("expected message on stderr, got %q", string(out))
	}
}
