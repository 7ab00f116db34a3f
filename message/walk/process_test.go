package walk_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/sysmail/message"
	"github.com/zostay/sysmail/message/walk"
)

func complexSpec() *message.Spec {
	s := &message.Spec{To: []string{"sterling@example.com"}}
	s.SetBody(message.HTML, "<p>Hello World!</p>")
	s.SetBody(message.Text, "Hello World!")
	s.Attach(
		message.AttachPath("/tmp/micro.pdf"),
		message.AttachReader("att-1.gif", strings.NewReader("GIF89a")),
	)
	return s
}

func TestAndProcess(t *testing.T) {
	t.Parallel()

	var (
		types   []string
		depths  []int
		parents []string
	)
	err := walk.AndProcess(func(part message.Part, ps []message.Part) error {
		types = append(types, part.MediaType())
		depths = append(depths, len(ps))
		if len(ps) > 0 {
			parents = append(parents, ps[len(ps)-1].MediaType())
		} else {
			parents = append(parents, "")
		}
		return nil
	}, message.Plan(complexSpec()))
	assert.NoError(t, err)

	assert.Equal(t, []string{
		"multipart/mixed",
		"multipart/alternative",
		"text/plain",
		"text/html",
		"",
		"",
	}, types)
	assert.Equal(t, []int{0, 1, 2, 2, 1, 1}, depths)
	assert.Equal(t, []string{
		"",
		"multipart/mixed",
		"multipart/alternative",
		"multipart/alternative",
		"multipart/mixed",
		"multipart/mixed",
	}, parents)
}

func TestAndProcess_Error(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	count := 0
	err := walk.AndProcess(func(message.Part, []message.Part) error {
		count++
		if count == 3 {
			return stop
		}
		return nil
	}, message.Plan(complexSpec()))
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, count)

	assert.NoError(t, walk.AndProcess(func(message.Part, []message.Part) error {
		return stop
	}, nil))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `multipart/mixed
  multipart/alternative
    text/plain
    text/html
  attachment micro.pdf
  attachment att-1.gif
`, walk.Describe(message.Plan(complexSpec())))

	assert.Equal(t, "(headers only)\n", walk.Describe(nil))
}
