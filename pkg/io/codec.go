package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
	"github.com/matzehuels/scenegraph/pkg/transform"
)

// Supported document formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Formats lists the document formats accepted by [ImportFile] and [ExportFile].
var Formats = []string{FormatJSON, FormatTOML}

// ReadJSON decodes a scene document from r.
//
// The input must be a JSON object with a "root" string and a "nodes" array:
//
//	{
//	  "root": "root",
//	  "nodes": [
//	    {"id": "child1", "parent": "root", "x": 1, "y": 0, "rotation": 30}
//	  ]
//	}
//
// ReadJSON does not build the hierarchy; pass the result to [Build].
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, scerrors.Wrap(scerrors.ErrCodeInvalidFormat, err, "decode JSON")
	}
	return doc, nil
}

// WriteJSON encodes doc as indented JSON.
func WriteJSON(doc Document, w io.Writer) error {
	if doc.Nodes == nil {
		doc.Nodes = []NodeSpec{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadTOML decodes a scene document written as TOML:
//
//	root = "root"
//
//	[[nodes]]
//	id = "child1"
//	parent = "root"
//	x = 1.0
//	rotation = 30.0
//
// Unknown keys are rejected.
func ReadTOML(r io.Reader) (Document, error) {
	var doc Document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return Document{}, scerrors.Wrap(scerrors.ErrCodeInvalidFormat, err, "decode TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Document{}, scerrors.New(scerrors.ErrCodeInvalidFormat, "unknown TOML keys: %v", undecoded)
	}
	return doc, nil
}

// WriteTOML encodes doc as TOML.
func WriteTOML(doc Document, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if err := scerrors.ValidateFormat(ext, Formats); err != nil {
		return "", err
	}
	return ext, nil
}

// Read decodes a document in the given format.
func Read(r io.Reader, format string) (Document, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return Document{}, scerrors.New(scerrors.ErrCodeInvalidFormat, "unsupported document format %q", format)
}

// Write encodes a document in the given format.
func Write(doc Document, w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return WriteJSON(doc, w)
	case FormatTOML:
		return WriteTOML(doc, w)
	}
	return scerrors.New(scerrors.ErrCodeInvalidFormat, "unsupported document format %q", format)
}

// ImportFile reads a document from path, choosing the decoder from the file
// extension (.json or .toml). Missing files fail with FILE_NOT_FOUND.
func ImportFile(path string) (Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, scerrors.Wrap(scerrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// ExportFile writes doc to path in the format implied by its extension.
func ExportFile(doc Document, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeAndClose(doc, f, format); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeAndClose writes doc to wc and always closes it. The close error is
// returned when the write succeeded.
func writeAndClose(doc Document, wc io.WriteCloser, format string) error {
	if err := Write(doc, wc, format); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

// WriteGlobals writes computed global transforms as JSON, sorted by ID:
//
//	{"root": "root", "globals": [{"id": "child1", "x": 1, "y": 0, "rotation": 30}]}
func WriteGlobals(root string, globals map[string]transform.Transform, w io.Writer) error {
	out := struct {
		Root    string        `json:"root"`
		Globals []GlobalEntry `json:"globals"`
	}{Root: root, Globals: SortedGlobals(globals)}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
