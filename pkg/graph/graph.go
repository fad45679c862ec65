package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/boardview/pkg/core/module"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a module tree to indented JSON bytes.
func MarshalGraph(t *module.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a module tree to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(t *module.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(t, f)
}

// WriteGraph writes a module tree as JSON to an io.Writer.
func WriteGraph(t *module.Tree, w io.Writer) error {
	return writeGraphTo(t, w)
}

// ReadGraphFile reads a JSON file and returns the decoded module tree.
func ReadGraphFile(path string) (*module.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader into a module tree.
func ReadGraph(r io.Reader) (*module.Tree, error) {
	return readGraphFrom(r)
}

// UnmarshalGraph deserializes JSON bytes to a Graph without building a tree.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(t *module.Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromTree(t)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*module.Tree, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToTree(data)
}
