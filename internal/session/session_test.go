package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContextDefaults(t *testing.T) {
	ctx := NewContext("kilo")

	assert.Equal(t, "kilo", ctx.CurrentAgent)
	assert.Empty(t, ctx.LastTopic)
	assert.False(t, ctx.GroupChat)
	assert.False(t, ctx.AutonomousMode)
}

func TestCloneIsIndependent(t *testing.T) {
	ctx := NewContext("general")
	ctx.UserName = "Sam"

	clone := ctx.Clone()
	clone.CurrentAgent = "vega"
	clone.UserName = "Alex"

	assert.Equal(t, "general", ctx.CurrentAgent)
	assert.Equal(t, "Sam", ctx.UserName)
}

func TestNewMessageAssignsIDAndTimestamp(t *testing.T) {
	a := NewMessage(RoleUser, "hi")
	b := NewMessage(RoleUser, "hi")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
	assert.Equal(t, RoleUser, a.Role)
}

func TestTranscriptAppendAndRecent(t *testing.T) {
	tr := NewTranscript(0)

	tr.Append(NewMessage(RoleUser, "one"))
	tr.Append(NewMessage(RoleAssistant, "two"))
	tr.Append(NewMessage(RoleUser, "three"))

	assert.Equal(t, 3, tr.Len())

	recent := tr.Recent(2)
	assert.Len(t, recent, 2)
	assert.Equal(t, "two", recent[0].Content)
	assert.Equal(t, "three", recent[1].Content)

	// Asking for more than exists returns everything.
	assert.Len(t, tr.Recent(10), 3)
}

func TestTranscriptEvictsBeyondCap(t *testing.T) {
	tr := NewTranscript(2)

	tr.Append(NewMessage(RoleUser, "one"))
	tr.Append(NewMessage(RoleUser, "two"))
	tr.Append(NewMessage(RoleUser, "three"))

	all := tr.All()
	assert.Len(t, all, 2)
	assert.Equal(t, "two", all[0].Content)
	assert.Equal(t, "three", all[1].Content)
}
