package broker

import (
	"context"
	"sync"

	"github.com/segmentio/kafka-go"
)

// MockWriter 记录写入的消息；Err 非空时写入失败
type MockWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	Err      error
	closed   bool
}

func (m *MockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *MockWriter) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Messages 返回已写入消息的副本
func (m *MockWriter) Messages() []kafka.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]kafka.Message(nil), m.messages...)
}

func (m *MockWriter) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
