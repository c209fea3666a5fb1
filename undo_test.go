package edged

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newChangeBuf() (*LineBuffer, *Changeset) {
	b := NewLineBuffer()
	c := &Changeset{}
	b.AddListener(c)
	return b, c
}

func TestChangesetUndoRedoInsert(t *testing.T) {
	b, c := newChangeBuf()
	b.Insert('a', 1)
	b.Insert('b', 1)
	b.Insert('c', 1)
	require.Equal(t, "abc", b.String())

	require.True(t, c.Undo(b, 1))
	require.Equal(t, "", b.String())

	require.True(t, c.Redo(b, 1))
	require.Equal(t, "abc", b.String())
}

func TestChangesetUndoDoesNotCoalesceAcrossNonAlnum(t *testing.T) {
	b, c := newChangeBuf()
	b.Insert('a', 1)
	b.Insert(' ', 1)
	b.Insert('b', 1)
	require.Equal(t, "a b", b.String())

	require.True(t, c.Undo(b, 1))
	require.Equal(t, "a ", b.String())
	require.True(t, c.Undo(b, 1))
	require.Equal(t, "a", b.String())
	require.True(t, c.Undo(b, 1))
	require.Equal(t, "", b.String())
	require.False(t, c.Undo(b, 1))
}

func TestChangesetBeginEndGroup(t *testing.T) {
	b, c := newChangeBuf()
	c.Begin()
	b.Insert('x', 1)
	b.Insert('y', 1)
	c.End()
	require.Equal(t, "xy", b.String())

	require.True(t, c.Undo(b, 1))
	require.Equal(t, "", b.String())
}

func TestChangesetEmptyGroupElided(t *testing.T) {
	c := &Changeset{}
	c.Begin()
	c.End()
	require.Equal(t, 0, len(c.undos))
}

func TestChangesetLastInsert(t *testing.T) {
	b, c := newChangeBuf()
	c.Begin()
	b.InsertStr(0, "hello")
	c.End()

	text, ok := c.LastInsert()
	require.True(t, ok)
	require.Equal(t, "hello", text)
}

func TestChangesetTruncate(t *testing.T) {
	b, c := newChangeBuf()
	b.Insert(' ', 1)
	mark := c.Mark()
	b.Insert('b', 1)
	c.Truncate(mark)

	require.True(t, c.Undo(b, 1))
	require.Equal(t, "b", b.String())
}
