package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinkListRemoveCompacts(t *testing.T) {
	var l SinkList[ProviderSink]
	for i := 0; i < 1000; i++ {
		remove := l.Add(func(ProviderEvent) {})
		remove()
	}

	assert.Empty(t, l.Snapshot())
	l.mu.Lock()
	assert.Empty(t, l.slots)
	l.mu.Unlock()
}

func TestSinkListRemoveKeepsOthers(t *testing.T) {
	var l SinkList[ProviderSink]
	var got []int
	l.Add(func(ProviderEvent) { got = append(got, 1) })
	removeSecond := l.Add(func(ProviderEvent) { got = append(got, 2) })
	l.Add(func(ProviderEvent) { got = append(got, 3) })

	removeSecond()
	assert.NotPanics(t, removeSecond)

	for _, s := range l.Snapshot() {
		s(ProviderEvent{})
	}
	assert.Equal(t, []int{1, 3}, got)
}
