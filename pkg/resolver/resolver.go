// Package resolver implements module resolution: given an entry module's
// path, it transitively loads every imported module, canonicalizes
// paths, detects import cycles, and produces a topologically ordered
// module graph (leaves before roots) ready for the semantic analyzer.
package resolver

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lak-lang/lak/pkg/ast"
	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/lexer"
	"github.com/lak-lang/lak/pkg/parser"
	"github.com/lak-lang/lak/pkg/token"
)

const sourceExtension = ".lak"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Module is one fully loaded, canonicalized module ready for analysis.
type Module struct {
	CanonicalPath string
	DerivedName   string
	AST           *ast.Module
	Source        string

	// ResolvedImports maps each import statement's written path string to
	// the canonical path of the module it resolved to. The map has no
	// order; AST.Imports keeps the imports in source order.
	ResolvedImports map[string]string
}

type resolver struct {
	cache      map[string]*Module
	activeSet  map[string]bool
	activeList []string
	order      []*Module
}

// Resolve loads entryPath and its transitive imports, returning modules in
// topological order (every module's imports appear before it). The last
// element is always the entry module.
func Resolve(entryPath string) ([]*Module, *diagnostics.Error) {
	r := &resolver{
		cache:     make(map[string]*Module),
		activeSet: make(map[string]bool),
	}

	canonical, err := canonicalize(entryPath)
	if err != nil {
		return nil, errFileNotFound(entryPath, token.Span{})
	}

	if _, derr := r.load(canonical, entryPath, token.Span{}); derr != nil {
		return nil, derr
	}

	return r.order, nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return filepath.Clean(abs), nil
}

// load reads, lexes, parses, and recursively resolves the imports of the
// module at canonicalPath. displayPath names the module in error messages
// (invalid module name, missing file, read failure). importSpan anchors resolver errors raised while
// loading this module as someone else's import.
func (r *resolver) load(canonicalPath, displayPath string, importSpan token.Span) (*Module, *diagnostics.Error) {
	if cached, ok := r.cache[canonicalPath]; ok {
		return cached, nil
	}

	if r.activeSet[canonicalPath] {
		cycle := append(append([]string{}, r.activeList...), canonicalPath)
		return nil, errCircularImport(cycle, importSpan)
	}

	name := strings.TrimSuffix(filepath.Base(canonicalPath), filepath.Ext(canonicalPath))
	if !identRe.MatchString(name) {
		return nil, errInvalidModuleName(displayPath, importSpan)
	}

	data, err := os.ReadFile(canonicalPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errFileNotFound(displayPath, importSpan)
		}
		return nil, errIO(displayPath, err, importSpan)
	}
	source := string(data)

	tokens, lerr := lexer.LexAll(source)
	if lerr != nil {
		return nil, wrapSourceError(lerr, canonicalPath, source)
	}
	fileAST, perr := parser.Parse(canonicalPath, source, tokens)
	if perr != nil {
		return nil, wrapSourceError(perr, canonicalPath, source)
	}

	r.activeSet[canonicalPath] = true
	r.activeList = append(r.activeList, canonicalPath)
	defer func() {
		delete(r.activeSet, canonicalPath)
		r.activeList = r.activeList[:len(r.activeList)-1]
	}()

	resolvedImports := make(map[string]string, len(fileAST.Imports))
	seen := make(map[string]bool, len(fileAST.Imports))
	dir := filepath.Dir(canonicalPath)

	for _, imp := range fileAST.Imports {
		targetCanonical, ierr := resolveImportPath(dir, imp.PathText, imp.PathSpan)
		if ierr != nil {
			return nil, ierr
		}

		if seen[targetCanonical] {
			return nil, errDuplicateModuleImport(imp.PathText, imp.PathSpan)
		}
		seen[targetCanonical] = true

		if _, derr := r.load(targetCanonical, imp.PathText, imp.PathSpan); derr != nil {
			return nil, derr
		}

		resolvedImports[imp.PathText] = targetCanonical
	}

	m := &Module{
		CanonicalPath:   canonicalPath,
		DerivedName:     name,
		AST:             fileAST,
		Source:          source,
		ResolvedImports: resolvedImports,
	}
	r.cache[canonicalPath] = m
	r.order = append(r.order, m)
	return m, nil
}

func resolveImportPath(fromDir, pathText string, sp token.Span) (string, *diagnostics.Error) {
	if !strings.HasPrefix(pathText, "./") && !strings.HasPrefix(pathText, "../") {
		if identRe.MatchString(pathText) {
			return "", errStandardLibraryNotSupported(pathText, sp)
		}
		return "", errInvalidImportPath(pathText, sp)
	}
	if filepath.Ext(pathText) != "" {
		return "", errInvalidImportPath(pathText, sp)
	}

	target := filepath.Join(fromDir, pathText+sourceExtension)
	canonical, err := canonicalize(target)
	if err != nil {
		return "", errFileNotFound(pathText, sp)
	}
	return canonical, nil
}
