package publisher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "worldtour.1826645935.hop", Subject("worldtour", 1826645935, "hop"))
	assert.Equal(t, "world_tour.7.summary", Subject(" world tour ", 7, "summary"))
	assert.Equal(t, "_.-3.hop", Subject("", -3, "hop"))
}

func TestSubjectToken(t *testing.T) {
	assert.Equal(t, "a_b_c_d", subjectToken("a.b>c*d"))
	assert.Equal(t, "x_y", subjectToken("x/y"))
}

type countingMetrics struct{ connected []bool }

func (c *countingMetrics) NATSPublishedInc()            {}
func (c *countingMetrics) NATSPublishErrInc()           {}
func (c *countingMetrics) PublishObserve(time.Duration) {}
func (c *countingMetrics) NATSSetConnected(b bool)      { c.connected = append(c.connected, b) }

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	m := &countingMetrics{}
	p, err := NewNATSPublisher("nats://127.0.0.1:1", "worldtour", false, m)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.Empty(t, m.connected)
}

func TestSetConnected_NilMetrics(t *testing.T) {
	p := &NATSPublisher{}
	assert.NotPanics(t, func() { p.setConnected(true) })
	p.Close()
}
