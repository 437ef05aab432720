package loadbalancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRobinRotation(t *testing.T) {
	rr := NewRoundRobin([]string{"http://a:8080", "http://b:8080", "http://c:8080"})

	got := []string{rr.Next(), rr.Next(), rr.Next(), rr.Next()}
	assert.Equal(t, []string{"http://a:8080", "http://b:8080", "http://c:8080", "http://a:8080"}, got)
}

func TestRoundRobinEmptyPool(t *testing.T) {
	rr := NewRoundRobin(nil)
	assert.Equal(t, "", rr.Next())
}

func TestRoundRobinAddRemove(t *testing.T) {
	rr := NewRoundRobin([]string{"http://a:8080"})

	rr.AddServer("http://b:8080")
	assert.Equal(t, []string{"http://a:8080", "http://b:8080"}, rr.Servers())

	// exhaust the rotation so current points past the shrunken pool
	rr.Next()
	rr.Next()
	rr.RemoveServer("http://b:8080")

	assert.Equal(t, []string{"http://a:8080"}, rr.Servers())
	assert.Equal(t, "http://a:8080", rr.Next())

	rr.RemoveServer("http://a:8080")
	assert.Empty(t, rr.Servers())
	assert.Equal(t, "", rr.Next())
}

func TestRoundRobinStats(t *testing.T) {
	rr := NewRoundRobin([]string{"http://a:8080", "http://b:8080"})
	rr.Next()

	stats := rr.Stats()
	assert.Equal(t, "round-robin", stats["algorithm"])
	assert.Equal(t, 2, stats["server_count"])
	assert.Equal(t, 1, stats["current_index"])
}
