// Package workspacefile reads and writes workspace configuration files.
//
// A workspace file is a JSON object with comments and trailing commas allowed.
// Only "folders" and "settings" are interpreted; other top-level keys are kept
// as raw JSON and written back unchanged. Comments are not preserved on write.
package workspacefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/tailscale/hujson"

	"github.com/lzjever/mbos-wbs/internal/core"
)

const Extension = ".code-workspace"

// Folder is one entry of the folders array. Exactly one of Path or URI is set.
type Folder struct {
	Path string `json:"path,omitempty"`
	URI  string `json:"uri,omitempty"`
	Name string `json:"name,omitempty"`
}

type File struct {
	Folders  []Folder
	Settings map[string]any

	extra map[string]json.RawMessage
}

// Parse decodes a workspace file. Input may contain comments.
func Parse(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &File{Folders: []Folder{}}, nil
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parse workspace file: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(std, &raw); err != nil {
		return nil, fmt.Errorf("decode workspace file: %w", err)
	}

	f := &File{Folders: []Folder{}, extra: map[string]json.RawMessage{}}
	for k, v := range raw {
		switch k {
		case "folders":
			if err := json.Unmarshal(v, &f.Folders); err != nil {
				return nil, fmt.Errorf("decode folders: %w", err)
			}
		case "settings":
			if err := json.Unmarshal(v, &f.Settings); err != nil {
				return nil, fmt.Errorf("decode settings: %w", err)
			}
		default:
			f.extra[k] = v
		}
	}
	return f, nil
}

// Marshal encodes the file with two-space indentation.
func (f *File) Marshal() ([]byte, error) {
	keys := make([]string, 0, len(f.extra))
	for k := range f.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString("{\n")
	write := func(k string, v any, last bool) error {
		kb, _ := json.Marshal(k)
		vb, err := json.MarshalIndent(v, "  ", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		buf.WriteString("  ")
		buf.Write(kb)
		buf.WriteString(": ")
		buf.Write(vb)
		if !last {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
		return nil
	}

	folders := f.Folders
	if folders == nil {
		folders = []Folder{}
	}
	if err := write("folders", folders, f.Settings == nil && len(keys) == 0); err != nil {
		return nil, err
	}
	if f.Settings != nil {
		if err := write("settings", f.Settings, len(keys) == 0); err != nil {
			return nil, err
		}
	}
	for i, k := range keys {
		if err := write(k, f.extra[k], i == len(keys)-1); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Resolve returns the folders as locations. Relative paths resolve against
// the directory of configLocation.
func (f *File) Resolve(configLocation core.Location) []core.WorkspaceFolder {
	dir := filepath.Dir(configLocation.String())
	out := make([]core.WorkspaceFolder, 0, len(f.Folders))
	for _, e := range f.Folders {
		var loc core.Location
		switch {
		case e.URI != "":
			loc = core.Location(e.URI)
		case filepath.IsAbs(filepath.FromSlash(e.Path)):
			loc = core.Location(filepath.FromSlash(e.Path))
		default:
			loc = core.Location(filepath.Join(dir, filepath.FromSlash(e.Path)))
		}
		out = append(out, core.NewWorkspaceFolder(loc, e.Name))
	}
	return out
}

// EntryFor builds the folder entry for loc. Folders inside the workspace
// file's directory are stored relative to it when relative is true.
func EntryFor(req core.FolderCreationRequest, configLocation core.Location, relative bool, p core.Platform) Folder {
	e := Folder{Path: filepath.ToSlash(req.Location.String()), Name: req.Name}
	if !relative {
		return e
	}
	dir := core.Location(filepath.Dir(configLocation.String()))
	if !core.IsEqualOrParent(req.Location, dir, p) {
		return e
	}
	rel, err := filepath.Rel(dir.String(), req.Location.String())
	if err != nil {
		return e
	}
	e.Path = filepath.ToSlash(rel)
	return e
}

// RewriteForLocation re-expresses relative folder paths of a workspace file
// moving from one location to another. Absolute paths and URIs are unchanged.
func RewriteForLocation(data []byte, from, to core.Location) ([]byte, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	fromDir := filepath.Dir(from.String())
	toDir := filepath.Dir(to.String())
	for i, e := range f.Folders {
		if e.URI != "" || e.Path == "" || filepath.IsAbs(filepath.FromSlash(e.Path)) {
			continue
		}
		abs := filepath.Join(fromDir, filepath.FromSlash(e.Path))
		rel, err := filepath.Rel(toDir, abs)
		if err != nil {
			f.Folders[i].Path = filepath.ToSlash(abs)
			continue
		}
		f.Folders[i].Path = filepath.ToSlash(rel)
	}
	return f.Marshal()
}
