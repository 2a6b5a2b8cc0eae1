package feed

import (
	"fmt"
	"time"

	"github.com/Devious-Toast/DoD-S-Discord-bot/internal/status"
	"github.com/gorilla/websocket"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatProto Format = "proto"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatProto:
		return FormatProto, nil
	}

	return "", fmt.Errorf("unknown format %q", s)
}

// MessageType returns the type of the websocket frames used for the format.
func (f Format) MessageType() int {
	if f == FormatProto {
		return websocket.BinaryMessage
	}

	return websocket.TextMessage
}

// Struct converts a message to a generic protobuf structure.
func Struct(msg status.Message) (*structpb.Struct, error) {
	fields := make([]any, len(msg.Fields))
	for i, f := range msg.Fields {
		fields[i] = map[string]any{
			"name":   f.Name,
			"value":  f.Value,
			"inline": f.Inline,
		}
	}

	value := map[string]any{
		"title":       msg.Title,
		"description": msg.Description,
		"color":       msg.Color,
		"fields":      fields,
	}

	if msg.Footer != "" {
		value["footer"] = msg.Footer
	}

	if !msg.Timestamp.IsZero() {
		value["timestamp"] = msg.Timestamp.UTC().Format(time.RFC3339)
	}

	s, err := structpb.NewStruct(value)
	if err != nil {
		return nil, fmt.Errorf("cannot build structure: %w", err)
	}

	return s, nil
}

func Encode(msg status.Message, format Format) ([]byte, error) {
	s, err := Struct(msg)
	if err != nil {
		return nil, err
	}

	var data []byte

	switch format {
	case FormatProto:
		data, err = proto.Marshal(s)
	default:
		data, err = protojson.Marshal(s)
	}

	if err != nil {
		return nil, fmt.Errorf("cannot encode message: %w", err)
	}

	return data, nil
}
