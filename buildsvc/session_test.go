package buildsvc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManagerCreateGetDestroy(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster(), 0)

	s, err := sm.CreateSession(BuildRequest{Name: "f"})
	require.NoError(t, err)
	assert.Equal(t, "pending", s.view().Status)

	got, err := sm.GetSession(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	require.NoError(t, sm.DestroySession(s.ID))
	_, err = sm.GetSession(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManagerCap(t *testing.T) {
	sm := NewSessionManager(NewBroadcaster(), 1)

	_, err := sm.CreateSession(BuildRequest{Name: "a"})
	require.NoError(t, err)

	_, err = sm.CreateSession(BuildRequest{Name: "b"})
	assert.ErrorIs(t, err, ErrTooManySessions)
}

func TestSessionResultTransitions(t *testing.T) {
	s := &Session{ID: "x", status: "pending"}
	assert.Equal(t, "pending", s.view().Status)

	s.setError(errors.New("boom"))
	v := s.view()
	assert.Equal(t, "failed", v.Status)
	assert.Equal(t, "boom", v.Error)
}
