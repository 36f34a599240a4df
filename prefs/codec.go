package prefs

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"go.mongodb.org/mongo-driver/bson"
)

// Codec 偏好的编码方式
type Codec interface {
	Marshal(prefs *Preferences) ([]byte, error)
	Unmarshal(buf []byte, prefs *Preferences) error
}

// NewCodec 按名称创建编码器：json（默认）、msgpack、bson
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgPackCodec{}, nil
	case "bson":
		return BSONCodec{}, nil
	}
	return nil, errors.Errorf("unsupported codec %q", name)
}

type JSONCodec struct{}

func (JSONCodec) Marshal(prefs *Preferences) ([]byte, error) {
	return json.Marshal(prefs)
}

func (JSONCodec) Unmarshal(buf []byte, prefs *Preferences) error {
	return json.Unmarshal(buf, prefs)
}

type MsgPackCodec struct{}

func (MsgPackCodec) Marshal(prefs *Preferences) ([]byte, error) {
	return msgpack.Marshal(prefs)
}

func (MsgPackCodec) Unmarshal(buf []byte, prefs *Preferences) error {
	return msgpack.Unmarshal(buf, prefs)
}

type BSONCodec struct{}

func (BSONCodec) Marshal(prefs *Preferences) ([]byte, error) {
	return bson.Marshal(prefs)
}

func (BSONCodec) Unmarshal(buf []byte, prefs *Preferences) error {
	return bson.Unmarshal(buf, prefs)
}
