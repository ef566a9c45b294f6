package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	err := NewOpError(CodeRegistrationRequired, "register first")
	assert.Equal(t, CodeRegistrationRequired, CodeOf(err))
	assert.Equal(t, "register first", err.Error())
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("joining: %w", NewOpError(CodeAuthenticationFailed, "bad password"))
	assert.Equal(t, CodeAuthenticationFailed, CodeOf(err))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeUnknown, CodeOf(fmt.Errorf("boom")))
	assert.Equal(t, CodeUnknown, CodeOf(ErrNoLiveRoom))
}

func TestRoomIdentityEqualIgnoresName(t *testing.T) {
	a := RoomIdentity{Provider: "p1", ID: "room@conf.example.org", Name: "Old Name"}
	b := RoomIdentity{Provider: "p1", ID: "room@conf.example.org", Name: "New Name"}
	c := RoomIdentity{Provider: "p1", ID: "other@conf.example.org", Name: "Old Name"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
