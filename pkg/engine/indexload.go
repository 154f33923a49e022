package engine

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Declaration index files are TOML documents named decls_*.toml, one module
// per file:
//
//	module = "std"
//
//	[[types]]
//	name = "Int"
//
//	  [[types.members]]
//	  name = "max"
//	  kind = "property"
//	  static = true
//	  result = "Self"
//	  doc = "The maximum representable value."

type declFile struct {
	Module string     `toml:"module"`
	Types  []declType `toml:"types"`
}

type declType struct {
	Name    string       `toml:"name"`
	Members []declMember `toml:"members"`
}

type declMember struct {
	Name      string       `toml:"name"`
	Kind      string       `toml:"kind"`
	Static    bool         `toml:"static"`
	Params    []declParam  `toml:"params"`
	Result    string       `toml:"result"`
	Protocols []string     `toml:"protocols"`
	Doc       string       `toml:"doc"`
	Foreign   *declForeign `toml:"foreign"`
}

type declParam struct {
	Label string `toml:"label"`
	Type  string `toml:"type"`
}

type declForeign struct {
	Comment          string `toml:"comment"`
	EnclosingComment string `toml:"enclosing_comment"`
}

// LoadStats summarizes an index directory load.
type LoadStats struct {
	Files   int
	Types   int
	Members int
}

// LoadIndexDir scans dirPath for decls_*.toml files and loads them into a
// fresh index. Files are loaded in name order so lookups stay
// deterministic.
func LoadIndexDir(dirPath string) (*Index, *LoadStats, error) {
	pattern := filepath.Join(dirPath, "decls_*.toml")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan for index files: %w", err)
	}
	sort.Strings(files)

	ix := NewIndex()
	stats := &LoadStats{}
	for _, file := range files {
		if err := LoadIndexFile(ix, file); err != nil {
			log.Warnf("Skipping index file %s: %v", file, err)
			continue
		}
		stats.Files++
	}
	stats.Types = ix.totalTypes
	stats.Members = ix.totalMembers

	log.Debugf("Loaded index: %d files, %d types, %d members from %s",
		stats.Files, stats.Types, stats.Members, dirPath)
	return ix, stats, nil
}

// LoadIndexFile loads one declaration file into an existing index.
func LoadIndexFile(ix *Index, path string) error {
	var df declFile
	if _, err := toml.DecodeFile(path, &df); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	if df.Module == "" {
		return fmt.Errorf("index file %s declares no module", filepath.Base(path))
	}

	for _, dt := range df.Types {
		if dt.Name == "" {
			log.Warnf("Skipping unnamed type in %s", filepath.Base(path))
			continue
		}
		ti := &TypeInfo{Type: Type{Module: df.Module, Name: dt.Name}}
		for _, dm := range dt.Members {
			decl, err := dm.toDecl()
			if err != nil {
				log.Warnf("Skipping member %s.%s: %v", dt.Name, dm.Name, err)
				continue
			}
			ti.Members = append(ti.Members, decl)
		}
		ix.AddType(ti)
	}
	return nil
}

func (dm declMember) toDecl() (*Decl, error) {
	var kind DeclKind
	switch dm.Kind {
	case "property", "":
		kind = KindProperty
	case "method":
		kind = KindMethod
	case "initializer":
		kind = KindInitializer
	default:
		return nil, fmt.Errorf("unknown member kind %q", dm.Kind)
	}

	d := &Decl{
		Name:       dm.Name,
		Kind:       kind,
		Static:     dm.Static,
		ResultType: dm.Result,
		Protocols:  dm.Protocols,
	}
	for _, p := range dm.Params {
		d.Params = append(d.Params, Param{Label: p.Label, Type: p.Type})
	}

	if dm.Foreign != nil {
		node := &ForeignNode{Comment: dm.Foreign.Comment}
		if dm.Foreign.EnclosingComment != "" {
			node.Parent = &ForeignNode{Comment: dm.Foreign.EnclosingComment}
		}
		d.Origin = ForeignOrigin{Node: node}
	} else if dm.Doc != "" {
		d.Origin = NativeOrigin{Doc: dm.Doc}
	}
	return d, nil
}
