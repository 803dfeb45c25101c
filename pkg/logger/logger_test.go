package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	l, err := New(true)
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = New(false)
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zap.DebugLevel))
}

func TestNamed_NilBase(t *testing.T) {
	require.NotNil(t, Named(nil, "svc"))
	require.Panics(t, func() { Must(nil, errors.New("no sink")) })
}
