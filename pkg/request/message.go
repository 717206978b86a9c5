package request

import "fmt"

// Message represents a message response.
type Message struct {
	Message string `json:"message"`
}

// NewMessage creates a new Message.
func NewMessage(message string, args ...any) *Message {
	msg := message
	if len(args) > 0 {
		msg = fmt.Sprintf(message, args...)
	}
	return &Message{
		Message: msg,
	}
}

// MessageError represents a message response carrying the error that caused it.
type MessageError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewMessageError creates a new MessageError.
func NewMessageError(message string, err error) *MessageError {
	me := &MessageError{
		Message: message,
	}
	if err != nil {
		me.Error = err.Error()
	}
	return me
}
