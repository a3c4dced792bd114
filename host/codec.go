package host

import (
	"encoding/json"
	"fmt"
)

// Codec encodes and decodes messages.
type Codec interface {
	Encode(msg Message) ([]byte, error)
	Decode(data []byte) (Message, error)
}

// JSONCodec returns the default codec.
func JSONCodec() Codec {
	return jsonCodec{}
}

// jsonCodec implements Codec using JSON encoding.
type jsonCodec struct{}

func (jsonCodec) Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("%w: message has no type", ErrProtocol)
	}
	return msg, nil
}
