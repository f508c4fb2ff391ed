package transport

import (
	"context"
	"sync"
)

// Memory is an in-memory Provider for tests. It records every publish and
// can be told to fail specific calls.
type Memory struct {
	mu       sync.Mutex
	messages []MemoryMessage
	failNext []error
	closed   bool
}

// MemoryMessage captures one publish call.
type MemoryMessage struct {
	Queue   string
	Body    []byte
	Durable bool
}

// NewMemory returns an empty Memory transport.
func NewMemory() *Memory {
	return &Memory{}
}

// FailNext queues errors to return from upcoming Publish calls, in order.
// A nil entry lets that call succeed.
func (m *Memory) FailNext(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = append(m.failNext, errs...)
}

// Publish records the message unless a queued failure consumes this call.
func (m *Memory) Publish(_ context.Context, queue string, body []byte, durable bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.failNext) > 0 {
		err := m.failNext[0]
		m.failNext = m.failNext[1:]
		if err != nil {
			return err
		}
	}
	m.messages = append(m.messages, MemoryMessage{
		Queue:   queue,
		Body:    append([]byte(nil), body...),
		Durable: durable,
	})
	return nil
}

// Messages returns the recorded publishes.
func (m *Memory) Messages() []MemoryMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MemoryMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// Closed reports whether Close was called.
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the transport closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
