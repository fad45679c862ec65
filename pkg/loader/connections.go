package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/errors"
)

// rawConnection is the on-disk shape of one connection.
type rawConnection struct {
	Target      string   `json:"target" yaml:"target"`
	To          string   `json:"to" yaml:"to"`
	Type        string   `json:"type" yaml:"type"`
	Interface   string   `json:"interface" yaml:"interface"`
	Signals     []string `json:"signals" yaml:"signals"`
	Description string   `json:"description" yaml:"description"`
}

type connectionDoc struct {
	Connections []rawConnection `json:"connections" yaml:"connections"`
}

// readDirConnections reads the connection file of dir, if any.
func readDirConnections(dir string) ([]module.Connection, error) {
	for _, name := range ConnectionFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
		}
		conns, err := ParseConnections(name, data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
		return conns, nil
	}
	return nil, nil
}

// ParseConnections decodes the contents of a connection file. The format is
// chosen by the file extension of name.
func ParseConnections(name string, data []byte) ([]module.Connection, error) {
	var (
		raw []rawConnection
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		raw, err = decodeJSON(data)
	case ".yaml", ".yml":
		raw, err = decodeYAML(data)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported connection file %q", name)
	}
	if err != nil {
		return nil, err
	}

	out := make([]module.Connection, 0, len(raw))
	for i, r := range raw {
		target := module.Clean(strings.TrimSpace(r.Target))
		if target == "" {
			target = module.Clean(strings.TrimSpace(r.To))
		}
		if target == "" {
			return nil, fmt.Errorf("connection %d: missing target", i)
		}
		out = append(out, module.Connection{
			Target:      target,
			Kind:        r.Type,
			Interface:   r.Interface,
			Signals:     r.Signals,
			Description: r.Description,
		})
	}
	return out, nil
}

func decodeJSON(data []byte) ([]rawConnection, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var raw []rawConnection
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}
	var doc connectionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Connections, nil
}

func decodeYAML(data []byte) ([]rawConnection, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	doc := node.Content[0]
	if doc.Kind == yaml.SequenceNode {
		var raw []rawConnection
		if err := doc.Decode(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	}
	var wrapped connectionDoc
	if err := doc.Decode(&wrapped); err != nil {
		return nil, err
	}
	return wrapped.Connections, nil
}
