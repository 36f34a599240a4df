package cfg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Parse 按格式解码配置数据
func Parse(data []byte, format string) (*Config, error) {
	var tree any
	var err error
	switch strings.ToLower(format) {
	case "json":
		err = json.Unmarshal(data, &tree)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &tree)
	case "toml":
		tree, err = decodeTOML(data)
	case "ini":
		tree, err = decodeINI(data)
	default:
		return nil, errors.Errorf("unsupported config format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s failed", format)
	}
	return New(tree), nil
}

func decodeTOML(data []byte) (any, error) {
	var tree map[string]any
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// decodeINI 无 section 的键在顶层，section 名中的点号表示嵌套，例如 [repository.options]
func decodeINI(data []byte) (any, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:         true,
		SpaceBeforeInlineComment: true,
	}, data)
	if err != nil {
		return nil, err
	}

	tree := map[string]any{}
	for _, section := range f.Sections() {
		node := tree
		if name := section.Name(); name != ini.DefaultSection {
			for _, part := range strings.Split(name, ".") {
				child, ok := node[part].(map[string]any)
				if !ok {
					child = map[string]any{}
					node[part] = child
				}
				node = child
			}
		}
		for _, key := range section.Keys() {
			node[key.Name()] = iniValue(key.String())
		}
	}
	return tree, nil
}

// iniValue ini 中的值都是文本，按布尔、整数、浮点数的顺序尝试解析
func iniValue(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// normalize 把各个解码器的结果统一成 map[string]any 和 []any
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, item := range x {
			x[k] = normalize(item)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, item := range x {
			m[fmt.Sprint(k)] = normalize(item)
		}
		return m
	case []map[string]any:
		list := make([]any, len(x))
		for i, item := range x {
			list[i] = normalize(item)
		}
		return list
	case []any:
		for i, item := range x {
			x[i] = normalize(item)
		}
		return x
	}
	return v
}
