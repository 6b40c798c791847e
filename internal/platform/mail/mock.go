package mail

import "context"

// MockSender records messages for tests.
type MockSender struct {
	Messages []*Message
	Err      error
}

func (m *MockSender) Send(ctx context.Context, msg *Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msg)
	return nil
}
