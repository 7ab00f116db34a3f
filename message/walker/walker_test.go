package walker_test

import (
	"errors"
	"strings"
	"testing"

	gomessage "github.com/emersion/go-message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/sysmail/message/walker"
)

const msg = `X-Where: A
Content-type: multipart/mixed; boundary=aaaaaaa

--aaaaaaa
X-Where: B
Content-type: multipart/mixed; boundary=bbbbbbb

--bbbbbbb
X-Where: E
Content-type: text/plain

--bbbbbbb
X-Where: F
Content-type: text/plain

--bbbbbbb--
--aaaaaaa
X-Where: C
Content-type: multipart/mixed; boundary=ccccccc

--ccccccc
X-Where: G
Content-type: text/plain

--ccccccc
X-Where: H
Content-type: text/plain

--ccccccc--
--aaaaaaa
X-Where: D
Content-type: multipart/mixed; boundary=ddddddd

--ddddddd
X-Where: I
Content-type: text/plain

--ddddddd
X-Where: J
Content-type: text/plain

--ddddddd--
--aaaaaaa--
`

func where(t *testing.T, e *gomessage.Entity) string {
	t.Helper()
	return e.Header.Get("X-Where")
}

func TestPartWalker_Walk(t *testing.T) {
	t.Parallel()

	expectOrder := []string{"A", "B", "E", "F", "C", "G", "H", "D", "I", "J"}
	expectDepth := []int{0, 1, 2, 2, 1, 2, 2, 1, 2, 2}
	expectIndex := []int{0, 0, 0, 1, 1, 0, 1, 2, 0, 1}
	i := 0
	var pw walker.PartWalker = func(depth, j int, e *gomessage.Entity) error {
		require.Less(t, i, len(expectOrder))
		assert.Equal(t, expectOrder[i], where(t, e))
		assert.Equal(t, expectDepth[i], depth)
		assert.Equal(t, expectIndex[i], j)
		i++
		return nil
	}

	err := pw.Walk(strings.NewReader(msg))
	assert.NoError(t, err)
	assert.Equal(t, len(expectOrder), i)
}

func TestPartWalker_WalkOpaque(t *testing.T) {
	t.Parallel()

	expectOrder := []string{"E", "F", "G", "H", "I", "J"}
	expectIndex := []int{0, 1, 0, 1, 0, 1}
	i := 0
	var pw walker.PartWalker = func(depth, j int, e *gomessage.Entity) error {
		require.Less(t, i, len(expectOrder))
		assert.Equal(t, expectOrder[i], where(t, e))
		assert.Equal(t, 2, depth)
		assert.Equal(t, expectIndex[i], j)
		i++
		return nil
	}

	err := pw.WalkOpaque(strings.NewReader(msg))
	assert.NoError(t, err)
	assert.Equal(t, len(expectOrder), i)
}

func TestPartWalker_WalkMultipart(t *testing.T) {
	t.Parallel()

	expectOrder := []string{"A", "B", "C", "D"}
	expectDepth := []int{0, 1, 1, 1}
	expectIndex := []int{0, 0, 1, 2}
	i := 0
	var pw walker.PartWalker = func(depth, j int, e *gomessage.Entity) error {
		require.Less(t, i, len(expectOrder))
		assert.Equal(t, expectOrder[i], where(t, e))
		assert.Equal(t, expectDepth[i], depth)
		assert.Equal(t, expectIndex[i], j)
		i++
		return nil
	}

	err := pw.WalkMultipart(strings.NewReader(msg))
	assert.NoError(t, err)
	assert.Equal(t, len(expectOrder), i)
}

func TestPartWalker_Stop(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	count := 0
	var pw walker.PartWalker = func(int, int, *gomessage.Entity) error {
		count++
		if count == 4 {
			return stop
		}
		return nil
	}

	assert.ErrorIs(t, pw.Walk(strings.NewReader(msg)), stop)
	assert.Equal(t, 4, count)
}

const composed = "From: s@example.com\n" +
	"To: a@example.com\n" +
	"Subject: hi\n" +
	"MIME-Version: 1.0\n" +
	"Content-Type: multipart/mixed; boundary=\"mixedmix0123456789ab\"\n" +
	"\n" +
	"--mixedmix0123456789ab\n" +
	"Content-Type: text/plain; charset=UTF-8\n" +
	"Content-Transfer-Encoding: 8bit\n" +
	"\n" +
	"hi\n" +
	"\n" +
	"--mixedmix0123456789ab\n" +
	"Content-Type: text/plain\n" +
	"Content-Transfer-Encoding: base64\n" +
	"Content-Disposition: attachment; filename*=UTF-8''%D0%BE%D1%82%D1%87%D1%91%D1%82.txt\n" +
	"\n" +
	"aGVsbG8gd29ybGQK\n" +
	"\n" +
	"--mixedmix0123456789ab--\n"

func TestOutline(t *testing.T) {
	t.Parallel()

	nodes, err := walker.Outline(strings.NewReader(composed))
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	assert.Equal(t, "multipart/mixed", nodes[0].MediaType)
	assert.Equal(t, "mixedmix0123456789ab", nodes[0].Params["boundary"])
	assert.Nil(t, nodes[0].Content)

	assert.Equal(t, "text/plain", nodes[1].MediaType)
	assert.Equal(t, "UTF-8", nodes[1].Params["charset"])
	assert.Equal(t, "8bit", nodes[1].Encoding)
	assert.Equal(t, "hi\n", string(nodes[1].Content))
	assert.Equal(t, 1, nodes[1].Depth)

	assert.Equal(t, "отчёт.txt", nodes[2].Filename)
	assert.Equal(t, "hello world\n", string(nodes[2].Content))
	assert.Equal(t, 1, nodes[2].Index)

	assert.Equal(t, "multipart/mixed", nodes[0].String())
	assert.Equal(t, "  text/plain [8bit] (3 bytes)", nodes[1].String())
	assert.Equal(t, "  text/plain [base64] отчёт.txt (12 bytes)", nodes[2].String())
}

func TestPartWalker_WalkMultipart_SinglePart(t *testing.T) {
	t.Parallel()

	calls := 0
	var pw walker.PartWalker = func(int, int, *gomessage.Entity) error {
		calls++
		return nil
	}

	single := "Content-Type: text/plain; charset=UTF-8\n\nmultipart/ is only text here\n"
	require.NoError(t, pw.WalkMultipart(strings.NewReader(single)))
	assert.Equal(t, 0, calls)
}
