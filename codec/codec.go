// Package codec abstracts the serialization formats accepted for command
// schema files.
package codec

import (
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type Decoder interface {
	Decode(data []byte, v any) error
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Codec interface {
	Decoder
	Encoder
}

type jsonCodec struct{}

func (jsonCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

type yamlCodec struct{}

func (yamlCodec) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (yamlCodec) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// JSON returns the JSON codec.
func JSON() Codec { return jsonCodec{} }

// YAML returns the YAML codec.
func YAML() Codec { return yamlCodec{} }

// Infer picks a codec from the file extension of path: ".yaml" and ".yml"
// select YAML, everything else JSON.
func Infer(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec{}
	}
	return jsonCodec{}
}
