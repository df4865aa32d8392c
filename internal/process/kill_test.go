package process

import (
	"errors"
	"testing"
)

func TestKillTree_InvalidPID(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{0, -1} {
		if err := KillTree(pid); !errors.Is(err, ErrInvalidPID) {
			t.Errorf("KillTree(%d) error = %v, want ErrInvalidPID", pid, err)
		}
	}
}

func TestKillTree_ExitedProcess(t *testing.T) {
	t.Parallel()

	// Above pid_max on every supported platform.
	if err := KillTree(999999999); err != nil {
		t.Errorf("KillTree() error = %v, want nil for a missing process", err)
	}
}
