package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecentMessagesExactTimestampIsReplay(t *testing.T) {
	r := NewRecentMessages(DefaultHistoryWindow, DefaultHistoryLookback)
	ts := time.Now()
	r.Remember("uid-1", "hello", ts)

	assert.True(t, r.IsReplay("hello", ts))
}

func TestRecentMessagesContentWithinLookbackIsReplay(t *testing.T) {
	r := NewRecentMessages(DefaultHistoryWindow, 10*time.Second)
	ts := time.Now()
	r.Remember("uid-1", "hello", ts)

	// Server-side archives round timestamps; near matches with identical
	// content still count.
	assert.True(t, r.IsReplay("hello", ts.Add(3*time.Second)))
	assert.True(t, r.IsReplay("hello", ts.Add(-3*time.Second)))
}

func TestRecentMessagesOutsideLookbackIsFresh(t *testing.T) {
	r := NewRecentMessages(DefaultHistoryWindow, 10*time.Second)
	ts := time.Now()
	r.Remember("uid-1", "hello", ts)

	assert.False(t, r.IsReplay("hello", ts.Add(11*time.Second)))
	assert.False(t, r.IsReplay("goodbye", ts.Add(time.Second)))
}

func TestRecentMessagesEqualTimestampFlagsAnyContent(t *testing.T) {
	r := NewRecentMessages(DefaultHistoryWindow, 10*time.Second)
	ts := time.Now()
	r.Remember("uid-1", "hello", ts)

	// Timestamp equality alone marks a replay; archives preserve the
	// original timestamps even when content was rewritten.
	assert.True(t, r.IsReplay("edited", ts))
}

func TestRecentMessagesWindowEvictsOldest(t *testing.T) {
	r := NewRecentMessages(2, time.Second)
	ts := time.Now()
	r.Remember("uid-1", "one", ts)
	r.Remember("uid-2", "two", ts.Add(10*time.Second))
	r.Remember("uid-3", "three", ts.Add(20*time.Second))

	assert.False(t, r.IsReplay("one", ts))
	assert.True(t, r.IsReplay("two", ts.Add(10*time.Second)))
	assert.True(t, r.IsReplay("three", ts.Add(20*time.Second)))
}
