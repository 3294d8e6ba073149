package service

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec carries the plain Go message structs of this package as JSON.
// It replaces Connect's protobuf JSON codec, which only accepts generated messages.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

// Name returns the codec name used in the Content-Type ("application/json").
func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// ClientOptions returns the options a Connect client needs to call these services.
func ClientOptions(opts ...connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
}
