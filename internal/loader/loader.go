// Package loader maps declaration files into IR declarations.
//
// Supported formats are YAML, CUE, HCL and JSON. JSON files holding a
// JSON Schema (a "definitions" or "$defs" object) go through the schema
// mapper; other JSON files use the same document layout as YAML.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/iogen/internal/ir"
)

// Error code constants for load failures.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeScanError         = "E002" // Directory scan error
	ErrCodeNoFiles           = "E003" // No declaration files found
	ErrCodeLoadFailed        = "E004" // File could not be read
	ErrCodeNotFound          = "E005" // Path not found
	ErrCodeParseFailed       = "E006" // Syntax error in a declaration file
	ErrCodeInvalidDecl       = "E008" // Declaration does not match the expected layout
	ErrCodeInvalidType       = "E009" // Type expression could not be mapped
	ErrCodeUnsupported       = "E010" // Unsupported file extension
	ErrCodeUnsupportedSchema = "E011" // Unsupported JSON Schema construct
)

// Position is a location in a source file. The zero value means unknown.
type Position struct {
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// IsValid reports whether the position carries a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String formats the position as file:line:col.
func (p Position) String() string {
	if !p.IsValid() {
		return p.Filename
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// LoadError represents an error that occurred during loading.
type LoadError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Pos     Position `json:"pos"`
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Message)
	}
	if e.Pos.Filename != "" {
		return fmt.Sprintf("%s: %s: %s", e.Pos.Filename, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Format identifies a declaration file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
	FormatHCL  Format = "hcl"
	FormatJSON Format = "json"
)

// FormatForPath picks a format from the file extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".cue":
		return FormatCUE, true
	case ".hcl":
		return FormatHCL, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// Result contains the declarations loaded from one or more files.
type Result struct {
	Declarations []ir.Declaration
	Files        []string
}

// Parse maps src, in the given format, into declarations. filename is
// used for error positions only.
func Parse(format Format, filename string, src []byte) ([]ir.Declaration, []error) {
	switch format {
	case FormatYAML:
		return ParseYAML(filename, src)
	case FormatCUE:
		return ParseCUE(filename, src)
	case FormatHCL:
		return ParseHCL(filename, src)
	case FormatJSON:
		return ParseJSON(filename, src)
	}
	return nil, []error{&LoadError{
		Code:    ErrCodeUnsupported,
		Message: fmt.Sprintf("unsupported format %q", format),
		Pos:     Position{Filename: filename},
	}}
}

// LoadFile reads and parses one declaration file.
func LoadFile(ctx context.Context, path string) ([]ir.Declaration, []error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, []error{&LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported file extension %q", filepath.Ext(path)),
			Pos:     Position{Filename: path},
		}}
	}

	src, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}}
	}

	decls, errs := Parse(format, path, src)
	slog.DebugContext(ctx, "loaded declaration file",
		"path", path,
		"format", string(format),
		"declarations", len(decls),
		"errors", len(errs),
	)
	return decls, errs
}

// Load loads every declaration file under each path. A path may be a file
// or a directory; directories are scanned recursively. Declarations keep
// file order, and files within a directory are visited in lexical order.
func Load(ctx context.Context, paths ...string) (*Result, []error) {
	result := &Result{}
	var errs []error

	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			errs = append(errs, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)})
			continue
		}
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", path, err)})
			continue
		}

		files := []string{path}
		if info.IsDir() {
			files, err = FindFiles(path)
			if err != nil {
				errs = append(errs, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)})
				continue
			}
		}

		for _, file := range files {
			decls, fileErrs := LoadFile(ctx, file)
			result.Declarations = append(result.Declarations, decls...)
			result.Files = append(result.Files, file)
			errs = append(errs, fileErrs...)
		}
	}

	if len(result.Files) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no declaration files found in %s", strings.Join(paths, ", "))})
	}

	return result, errs
}

// FindFiles walks the directory and returns all declaration file paths in
// lexical order.
func FindFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, ok := FormatForPath(path); ok {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
