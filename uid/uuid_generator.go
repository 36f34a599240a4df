package uid

import (
	"encoding/hex"

	"github.com/google/uuid"
)

type UUIDOptions struct {
	Version     string `cfg:"version" def:"v4" validate:"omitempty,oneof=v1 v4 v6 v7"`
	WithHyphens bool   `cfg:"withHyphens"` // 是否包含中划线连字符，默认不包含
	Prefix      string `cfg:"prefix"`
}

type UUIDGenerator struct {
	version     string
	withHyphens bool
	prefix      string
}

func NewUUIDGeneratorWithOptions(options *UUIDOptions) *UUIDGenerator {
	if options == nil {
		options = &UUIDOptions{}
	}
	version := options.Version
	if version == "" {
		version = "v4"
	}

	return &UUIDGenerator{
		version:     version,
		withHyphens: options.WithHyphens,
		prefix:      options.Prefix,
	}
}

func (g *UUIDGenerator) Generate() string {
	var u uuid.UUID
	switch g.version {
	case "v1":
		u = uuid.Must(uuid.NewUUID())
	case "v6":
		u = uuid.Must(uuid.NewV6())
	case "v7":
		u = uuid.Must(uuid.NewV7())
	default:
		u = uuid.New()
	}

	if g.withHyphens {
		return g.prefix + u.String()
	}
	return g.prefix + hex.EncodeToString(u[:])
}
