package lib

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapErrorKeepsBothChains(t *testing.T) {
	parent := errors.New("parent")
	child := errors.New("child")

	err := WrapError(parent, child)
	require.ErrorIs(t, err, parent)
	require.ErrorIs(t, err, child)
	require.Equal(t, "parent: child", err.Error())
}

func TestKindOf(t *testing.T) {
	cause := errors.New("execution reverted")
	err := fmt.Errorf("addProject: %w", NewKindError(KindTransactionFailed, "addProject", cause))

	require.Equal(t, KindTransactionFailed, KindOf(err))
	require.ErrorIs(t, err, cause)
	require.Equal(t, KindUnknown, KindOf(cause))
	require.Equal(t, KindUnknown, KindOf(nil))
}
