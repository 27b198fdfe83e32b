package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPeerFixture(t *testing.T) (*SessionStore, *PeerDirectory) {
	t.Helper()
	s := NewSessionStore("sekret")
	s.Put(newParticipant(t, "a", "Alice"))
	s.Put(newParticipant(t, "b", "Bob"))
	return s, NewPeerDirectory(s)
}

func TestPeerDirectory_AnnounceListsOthers(t *testing.T) {
	s, d := newPeerFixture(t)

	others, changed := d.Announce("a", "peer-a")
	require.True(t, changed)
	assert.Empty(t, others, "first announcer sees no other peers")

	others, changed = d.Announce("b", "peer-b")
	require.True(t, changed)
	require.Len(t, others, 1)
	assert.Equal(t, "peer-a", others[0].PeerID)
	assert.Equal(t, "Alice", others[0].Name)

	p, _ := s.Get("b")
	assert.True(t, p.InVideoCall)
	assert.Equal(t, "peer-b", p.PeerID)
}

func TestPeerDirectory_DuplicateAnnounceIsNoOp(t *testing.T) {
	_, d := newPeerFixture(t)

	_, changed := d.Announce("a", "peer-a")
	require.True(t, changed)

	others, changed := d.Announce("a", "peer-a")
	assert.False(t, changed)
	assert.Empty(t, others)
}

func TestPeerDirectory_AnnounceOverwritesOldID(t *testing.T) {
	_, d := newPeerFixture(t)

	_, changed := d.Announce("a", "peer-a")
	require.True(t, changed)
	_, changed = d.Announce("a", "peer-a2")
	require.True(t, changed)

	got, ok := d.ActivePeer("a")
	require.True(t, ok)
	assert.Equal(t, "peer-a2", got)
}

func TestPeerDirectory_DepartRequiresMatchingID(t *testing.T) {
	s, d := newPeerFixture(t)
	d.Announce("a", "peer-a2")

	// Stale leave from a previous connection must not clear the new mapping.
	assert.False(t, d.Depart("a", "peer-a1"))
	got, ok := d.ActivePeer("a")
	require.True(t, ok)
	assert.Equal(t, "peer-a2", got)

	require.True(t, d.Depart("a", "peer-a2"))
	_, ok = d.ActivePeer("a")
	assert.False(t, ok)
	p, _ := s.Get("a")
	assert.False(t, p.InVideoCall)
}

func TestPeerDirectory_UnknownParticipant(t *testing.T) {
	_, d := newPeerFixture(t)

	others, changed := d.Announce("ghost", "peer-x")
	assert.False(t, changed)
	assert.Empty(t, others)
	assert.False(t, d.Depart("ghost", "peer-x"))
}

func TestPeerDirectory_RejectsForeignPeerID(t *testing.T) {
	s, d := newPeerFixture(t)

	_, changed := d.Announce("a", "peer-a")
	require.True(t, changed)

	// A peer id maps back to exactly one participant.
	others, changed := d.Announce("b", "peer-a")
	assert.False(t, changed)
	assert.Empty(t, others)

	p, _ := s.Get("b")
	assert.Empty(t, p.PeerID)
	assert.False(t, p.InVideoCall)

	p, _ = s.Get("a")
	assert.Equal(t, "peer-a", p.PeerID)
}
