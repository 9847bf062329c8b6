// Package shopapi holds the RPC messages and the Connect handler and client
// constructors for the shop services. Messages are plain structs carried by
// a JSON codec.
package shopapi

import (
	"encoding/json"
	"fmt"
	"mime"
	"strings"

	"connectrpc.com/connect"
)

// These names replace Connect's built-in protobuf JSON codecs, so the wire
// content type stays application/json.
const (
	codecName        = "json"
	codecNameCharset = "json; charset=utf-8"
)

// Connect cannot unregister its built-in proto codec, and the messages here
// are not protobuf, so the router turns away every non-JSON body itself.
var jsonMediaTypes = []string{
	"application/json",
	"application/connect+json",
	"application/grpc+json",
	"application/grpc-web+json",
}

var acceptPost = strings.Join(jsonMediaTypes, ", ")

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, t := range jsonMediaTypes {
		if mediaType == t {
			return true
		}
	}
	return false
}

type jsonCodec struct {
	name string
}

func (c jsonCodec) Name() string { return c.name }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}

// WithJSON selects the shop codec on a client.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{name: codecName})
}

func handlerCodecs() connect.HandlerOption {
	return connect.WithOptions(
		WithJSON(),
		connect.WithCodec(jsonCodec{name: codecNameCharset}),
	)
}
