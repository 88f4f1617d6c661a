package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu     sync.Mutex
	frames [][]byte
	err    error
}

func (s *fakeSession) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, frame)
	return nil
}

func (s *fakeSession) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func TestJoinIsIdempotent(t *testing.T) {
	reg := NewInMemory()
	session := &fakeSession{}

	reg.Join("chat:5", session)
	reg.Join("chat:5", session)

	assert.Len(t, reg.MembersOf("chat:5"), 1)
}

func TestLeaveAbsentIsNoop(t *testing.T) {
	reg := NewInMemory()
	session := &fakeSession{}

	reg.Leave("chat:5", session)
	assert.Empty(t, reg.MembersOf("chat:5"))
}

func TestMembersOfUnknownKeyReturnsEmpty(t *testing.T) {
	reg := NewInMemory()
	members := reg.MembersOf("chat:nope")

	require.NotNil(t, members)
	assert.Empty(t, members)
}

func TestDropAllRemovesSessionFromEveryGroup(t *testing.T) {
	reg := NewInMemory()
	a := &fakeSession{}
	b := &fakeSession{}

	reg.Join("chat:5", a)
	reg.Join("chat:general", a)
	reg.Join("notify:u1", a)
	reg.Join("chat:5", b)

	reg.DropAll(a)

	assert.Len(t, reg.MembersOf("chat:5"), 1)
	assert.Empty(t, reg.MembersOf("chat:general"))
	assert.Empty(t, reg.MembersOf("notify:u1"))
}

func TestLeaveRemovesOnlyThatGroup(t *testing.T) {
	reg := NewInMemory()
	session := &fakeSession{}

	reg.Join("chat:5", session)
	reg.Join("chat:6", session)
	reg.Leave("chat:5", session)

	assert.Empty(t, reg.MembersOf("chat:5"))
	assert.Len(t, reg.MembersOf("chat:6"), 1)
}

// Конкурентные join/leave во время рассылки не должны ломать итерацию
func TestConcurrentMutationAndBroadcast(t *testing.T) {
	reg := NewInMemory()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		session := &fakeSession{}
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("chat:%d", n%3)
			for j := 0; j < 100; j++ {
				reg.Join(key, session)
				for _, member := range reg.MembersOf(key) {
					_ = member.Send([]byte("x"))
				}
				reg.Leave(key, session)
			}
			reg.DropAll(session)
		}(i)
	}

	wg.Wait()

	for i := 0; i < 3; i++ {
		assert.Empty(t, reg.MembersOf(fmt.Sprintf("chat:%d", i)))
	}
}

func TestLocalBroadcasterSkipsFailingSession(t *testing.T) {
	reg := NewInMemory()
	healthy := &fakeSession{}
	broken := &fakeSession{err: fmt.Errorf("gone")}

	reg.Join("chat:5", healthy)
	reg.Join("chat:5", broken)

	b := NewLocalBroadcaster(reg, noopLogger{})
	err := b.Broadcast(context.Background(), "chat:5", []byte("hello"))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
}

func TestLocalBroadcasterCloseIsSafe(t *testing.T) {
	reg := NewInMemory()
	session := &fakeSession{}
	reg.Join("chat:5", session)

	b := NewLocalBroadcaster(reg, noopLogger{})
	b.Close()
	b.Close()

	// Close не трогает членство и не ломает последующую рассылку
	require.NoError(t, b.Broadcast(context.Background(), "chat:5", []byte("x")))
	assert.Equal(t, 1, session.count())
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}
