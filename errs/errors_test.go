package errs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindIsMatchesItsOwnErrors(t *testing.T) {
	err := BackendError.New(fmt.Sprintf("concrete backend cannot convert %s", "x"))
	require.True(t, BackendError.Is(err))
	require.False(t, ClaripyZ3Error.Is(err))
}

func TestDistinctKindsDoNotCrossMatch(t *testing.T) {
	unsat := UnsatError.New("no model")
	require.True(t, UnsatError.Is(unsat))
	require.False(t, ClaripyError.Is(unsat))
	require.False(t, BackendError.Is(unsat))
	require.False(t, ClaripyOperationError.Is(unsat))
	require.False(t, ClaripyZ3Error.Is(unsat))
	require.False(t, SolverTimeoutError.Is(unsat))
	require.False(t, MixedVariablesError.Is(unsat))
}

func TestErrorMessageIsFormatted(t *testing.T) {
	err := ClaripyOperationError.New(fmt.Sprintf("Extract bounds out of range for width %d", 8))
	require.Contains(t, err.Error(), "Extract bounds out of range for width 8")
}
