// Package store loads, merges, and persists the pattern collections.
//
// Patterns live in two scopes: a global file in the user's home
// directory and a local file in the project root. Every hook
// invocation re-reads both files; there is no in-process cache.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/omglearn/omg/internal/constants"
	"github.com/omglearn/omg/internal/logger"
	"github.com/omglearn/omg/internal/pattern"
)

// Platform selects the host dialect, which determines where the
// pattern files live (~/.claude vs ~/.cursor and the project-local
// equivalents).
type Platform string

const (
	PlatformClaude Platform = "claude"
	PlatformCursor Platform = "cursor"
)

// Dir returns the dotfolder name for the platform.
func (p Platform) Dir() string {
	if p == PlatformCursor {
		return constants.CursorDir
	}
	return constants.ClaudeDir
}

// DetectPlatform picks a platform from the surrounding directory
// structure, defaulting to claude.
func DetectPlatform() Platform {
	home, _ := os.UserHomeDir()
	for _, p := range []Platform{PlatformClaude, PlatformCursor} {
		if _, err := os.Stat(p.Dir()); err == nil {
			return p
		}
		if home != "" {
			if _, err := os.Stat(filepath.Join(home, p.Dir())); err == nil {
				return p
			}
		}
	}
	return PlatformClaude
}

// Scope identifies which pattern collection a pattern lives in.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeLocal  Scope = "local"
)

// DocumentVersion is written into every pattern file.
const DocumentVersion = "1.0"

// Document is the persisted shape of a pattern file.
type Document struct {
	Version  string            `json:"version"`
	Patterns []pattern.Pattern `json:"patterns"`
}

// Store reads and writes the two pattern files for one platform.
// A Store is cheap to construct; its lifetime is one evaluation or
// one repository operation.
type Store struct {
	globalFile string
	localFile  string
}

// New returns a Store for the given platform, resolving the global
// and local file paths.
func New(platform Platform) *Store {
	globalDir := os.Getenv(constants.EnvGlobalDir)
	if globalDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			logger.Debug("failed to resolve home directory", "error", err)
		}
		globalDir = filepath.Join(home, platform.Dir())
	}
	return &Store{
		globalFile: filepath.Join(globalDir, constants.PatternsFileName),
		localFile:  filepath.Join(platform.Dir(), constants.PatternsFileName),
	}
}

// Path returns the file backing the given scope.
func (s *Store) Path(scope Scope) string {
	if scope == ScopeLocal {
		return s.localFile
	}
	return s.globalFile
}

// Load returns the ordered pattern list for one scope. A missing or
// unparsable file degrades to an empty list; the hook path must never
// abort because of a bad pattern file.
func (s *Store) Load(scope Scope) []pattern.Pattern {
	doc := s.read(scope)
	return doc.Patterns
}

// read parses the scope's file into a Document, degrading to an empty
// document on any error.
func (s *Store) read(scope Scope) Document {
	path := s.Path(scope)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("failed to read pattern file", "path", path, "error", err)
		}
		return Document{Version: DocumentVersion}
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Debug("failed to parse pattern file", "path", path, "error", err)
		return Document{Version: DocumentVersion}
	}
	if doc.Version == "" {
		doc.Version = DocumentVersion
	}
	return doc
}

// Save writes the pattern list for one scope atomically: the document
// is written to a temp file and renamed into place so a concurrently
// reading hook invocation never observes a partial write.
func (s *Store) Save(scope Scope, pats []pattern.Pattern) error {
	path := s.Path(scope)
	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		return err
	}

	doc := Document{Version: DocumentVersion, Patterns: pats}
	if doc.Patterns == nil {
		doc.Patterns = []pattern.Pattern{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, constants.FileMode); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Merged returns the merged pattern view: local patterns first in
// stored order, then global patterns whose id is not overridden by a
// local pattern. Patterns without an id are not merge-eligible and are
// dropped here; use Raw for unmerged iteration.
//
// Local project policy is deliberately enumerated before inherited
// global policy so that first-match-wins resolution consults it first.
func (s *Store) Merged() []pattern.Pattern {
	local := s.Load(ScopeLocal)
	global := s.Load(ScopeGlobal)

	seen := make(map[string]bool, len(local))
	merged := make([]pattern.Pattern, 0, len(local)+len(global))
	for _, p := range local {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		merged = append(merged, p)
	}
	for _, p := range global {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		merged = append(merged, p)
	}
	return merged
}

// Raw returns both collections concatenated, local then global, with
// no id de-duplication. Patterns without an id are included.
func (s *Store) Raw() []pattern.Pattern {
	local := s.Load(ScopeLocal)
	global := s.Load(ScopeGlobal)
	raw := make([]pattern.Pattern, 0, len(local)+len(global))
	raw = append(raw, local...)
	raw = append(raw, global...)
	return raw
}
