package resolver

import (
	"fmt"
	"strings"

	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/token"
)

func errAt(kind, title, label string, sp token.Span) *diagnostics.Error {
	return &diagnostics.Error{Phase: diagnostics.PhaseResolve, Kind: kind, Title: title, Label: label, Span: &sp}
}

func errFileNotFound(path string, sp token.Span) *diagnostics.Error {
	e := errAt("FileNotFound", "Module not found",
		fmt.Sprintf("cannot find module '%s'", path), sp)
	e.Help = "check that the file exists relative to the importing module"
	return e
}

func errInvalidImportPath(path string, sp token.Span) *diagnostics.Error {
	e := errAt("InvalidImportPath", "Invalid import path",
		fmt.Sprintf("'%s' is not a valid import path", path), sp)
	e.Help = "import paths must start with './' or '../'"
	return e
}

func errStandardLibraryNotSupported(path string, sp token.Span) *diagnostics.Error {
	e := errAt("StandardLibraryNotSupported", "Standard library imports are not supported",
		fmt.Sprintf("standard library imports are not yet supported: '%s'", path), sp)
	e.Help = "use a relative path like './module' instead"
	return e
}

func errCircularImport(cycle []string, sp token.Span) *diagnostics.Error {
	return errAt("CircularImport", "Circular import detected",
		fmt.Sprintf("circular import detected: %s", strings.Join(cycle, " -> ")), sp)
}

func errInvalidModuleName(path string, sp token.Span) *diagnostics.Error {
	e := errAt("InvalidModuleName", "Invalid module name",
		fmt.Sprintf("cannot derive a module name from path '%s'; module names must be valid identifiers", path), sp)
	return e
}

func errDuplicateModuleImport(path string, sp token.Span) *diagnostics.Error {
	return errAt("DuplicateModuleImport", "Duplicate module import",
		fmt.Sprintf("module '%s' is already imported in this file", path), sp)
}

func errIO(path string, cause error, sp token.Span) *diagnostics.Error {
	return errAt("IoError", "Could not read module",
		fmt.Sprintf("could not read '%s': %s", path, cause.Error()), sp)
}

// wrapSourceError attaches the offending file's filename and text to an
// error raised by lex/parse while resolving an import, so rendering opens
// the correct file instead of whatever module issued the import.
func wrapSourceError(e *diagnostics.Error, filename, source string) *diagnostics.Error {
	wrapped := *e
	wrapped.SourceFilename = filename
	wrapped.SourceContent = source
	return &wrapped
}
