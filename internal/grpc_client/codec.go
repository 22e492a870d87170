package grpc_client

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// JSONCodecName content-subtype, под которым сообщения exchanger сервиса
// передаются в JSON вместо protobuf
const JSONCodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return JSONCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
