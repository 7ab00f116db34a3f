package sendmail_test

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/sysmail/internal/command"
	"github.com/zostay/sysmail/storage"
	"github.com/zostay/sysmail/transport"
	"github.com/zostay/sysmail/transport/sendmail"
)

const msg = "To: a@example.com\nSubject: hi\n\nhello\n"

func requireCommand(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s is not available", name)
	}
}

func newBuffer(t *testing.T) *storage.Buffer {
	t.Helper()
	b := storage.New(t.TempDir())
	t.Cleanup(func() { assert.NoError(t, b.Clear()) })
	require.NoError(t, b.Write(func(w *storage.Writer) error {
		_, err := w.Write([]byte(msg))
		return err
	}))
	return b
}

func TestNew(t *testing.T) {
	t.Parallel()

	s := sendmail.New(nil, nil)
	assert.Equal(t, sendmail.DefaultArgv, s.Argv)
	assert.Equal(t, "sendmail", s.Name())
	assert.NotNil(t, s.Logger)
}

func TestSend_Memory(t *testing.T) {
	t.Parallel()
	requireCommand(t, "cat")

	out := &bytes.Buffer{}
	s := sendmail.New([]string{"cat"}, nil)
	s.Stdout = out

	b := newBuffer(t)
	env := transport.NewEnvelope("", []string{"a@example.com"})
	require.NoError(t, s.Send(context.Background(), env, transport.FromBuffer(b)))
	assert.Equal(t, msg, out.String())
}

func TestSend_Spilled(t *testing.T) {
	t.Parallel()
	requireCommand(t, "cat")

	out := &bytes.Buffer{}
	s := sendmail.New([]string{"cat"}, nil)
	s.Stdout = out

	b := newBuffer(t)
	require.NoError(t, b.Capture(func(string) error { return nil }))
	require.True(t, b.Spilled())

	env := transport.NewEnvelope("", []string{"a@example.com"})
	require.NoError(t, s.Send(context.Background(), env, transport.FromBuffer(b)))
	assert.Equal(t, msg, out.String())
}

func TestSend_Failure(t *testing.T) {
	t.Parallel()
	requireCommand(t, "sh")

	s := sendmail.New([]string{"sh", "-c", "cat >/dev/null; echo refused >&2; exit 75"}, nil)

	b := newBuffer(t)
	err := s.Send(context.Background(), transport.Envelope{}, transport.FromBuffer(b))
	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrDelivery)

	var cerr *command.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "refused", cerr.Stderr)
}
