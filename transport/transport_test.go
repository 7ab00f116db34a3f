package transport_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/sysmail/storage"
	"github.com/zostay/sysmail/transport"
)

func TestNewEnvelope(t *testing.T) {
	t.Parallel()

	env := transport.NewEnvelope("Sender <s@example.com>", []string{
		"a@example.com",
		"Иван <ivan@example.com>",
	})

	assert.Equal(t, transport.Envelope{
		From: "s@example.com",
		To:   []string{"a@example.com", "ivan@example.com"},
	}, env)

	assert.Equal(t, "", transport.NewEnvelope("", []string{"a@example.com"}).From)
}

func TestFail(t *testing.T) {
	t.Parallel()

	err := transport.Fail("test", os.ErrClosed)
	assert.ErrorIs(t, err, transport.ErrDelivery)
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.Equal(t, "delivery failed: test: "+os.ErrClosed.Error(), err.Error())
	assert.False(t, errors.Is(err, os.ErrNotExist))
}

func TestFromBuffer(t *testing.T) {
	t.Parallel()

	b := storage.New(t.TempDir())
	defer func() { assert.NoError(t, b.Clear()) }()

	require.NoError(t, b.Write(func(w *storage.Writer) error {
		return w.WriteLine("To: a@example.com")
	}))

	src := transport.FromBuffer(b)
	_, spilled := src.Path()
	assert.False(t, spilled)

	out, err := transport.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, "To: a@example.com\n", string(out))

	require.NoError(t, b.Capture(func(string) error { return nil }))
	path, spilled := src.Path()
	assert.True(t, spilled)
	assert.Equal(t, b.Path(), path)

	out, err = transport.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, "To: a@example.com\n", string(out))
}
