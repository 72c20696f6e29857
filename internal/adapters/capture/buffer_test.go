package capture_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zapret/internal/adapters/capture"
)

func TestBuffer_UnderLimit(t *testing.T) {
	t.Parallel()

	b := capture.NewBuffer(16)
	n, err := b.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", b.String())
	assert.False(t, b.Truncated())
}

func TestBuffer_DropsPastLimit(t *testing.T) {
	t.Parallel()

	b := capture.NewBuffer(8)
	n, err := b.Write([]byte("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, 10, n, "writes report full length so the producer keeps running")
	assert.Equal(t, "01234567", b.String())
	assert.True(t, b.Truncated())

	n, err = b.Write([]byte("more"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 8, b.Len())
}

func TestBuffer_ExactLimit(t *testing.T) {
	t.Parallel()

	b := capture.NewBuffer(4)
	_, _ = fmt.Fprint(b, "abcd")
	assert.Equal(t, "abcd", b.String())
	assert.False(t, b.Truncated())

	_, _ = b.Write(nil)
	assert.False(t, b.Truncated())
}
