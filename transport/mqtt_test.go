package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func completedToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool {
	<-t.done
	return true
}

func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *fakeToken) Done() <-chan struct{} {
	return t.done
}

func (t *fakeToken) Error() error {
	return t.err
}

type publish struct {
	topic    string
	qos      byte
	retained bool
	payload  interface{}
}

type fakeBroker struct {
	published []publish
	token     *fakeToken
}

func (b *fakeBroker) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	b.published = append(b.published, publish{topic, qos, retained, payload})
	return b.token
}

func TestMQTT_Send(t *testing.T) {
	b := &fakeBroker{token: completedToken(nil)}
	m := NewMQTT(b, "agrinode/node1/telemetry")

	payload := []byte(`{"version":"v"}`)
	require.NoError(t, m.Send(context.Background(), payload))

	require.Len(t, b.published, 1)
	assert.Equal(t, publish{"agrinode/node1/telemetry", byte(0), false, payload}, b.published[0])
}

func TestMQTT_SendError(t *testing.T) {
	b := &fakeBroker{token: completedToken(errors.New("not connected"))}
	m := NewMQTT(b, "t")

	err := m.Send(context.Background(), []byte("x"))
	assert.EqualError(t, err, "publish to t: not connected")
}

func TestMQTT_SendTimeout(t *testing.T) {
	b := &fakeBroker{token: &fakeToken{done: make(chan struct{})}}
	m := NewMQTT(b, "t")
	m.wait = 10 * time.Millisecond

	err := m.Send(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrPublishTimeout)
}

func TestMQTT_SendCancelled(t *testing.T) {
	b := &fakeBroker{token: &fakeToken{done: make(chan struct{})}}
	m := NewMQTT(b, "t")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Send(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLog_Send(t *testing.T) {
	assert.NoError(t, Log{}.Send(context.Background(), []byte("x")))
}
