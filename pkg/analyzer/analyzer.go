// Package analyzer implements Lak's semantic analyzer: name resolution,
// mutability tracking, integer/float literal contextual adaptation,
// operator typing, return-path analysis, and cross-module import
// validation.
//
// A Session is fully reset at the start of every Analyze call; no state
// from one program's analysis can leak into the next.
package analyzer

import (
	"github.com/lak-lang/lak/pkg/ast"
	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/resolver"
	"github.com/lak-lang/lak/pkg/token"
)

// FuncSig is a function's collected signature, shared by local-call and
// module-qualified-call resolution.
type FuncSig struct {
	Name       string
	Visibility ast.Visibility
	Parameters []ast.Parameter
	ReturnType ast.Type
	Span       token.Span
}

var builtinNames = map[string]bool{"println": true, "panic": true}

// VariableInfo describes one binding visible in the current scope stack.
type VariableInfo struct {
	Name           string
	IsMutable      bool
	Type           ast.Type
	DefinitionSpan token.Span
}

// Session holds every piece of state that must be cleared between
// analyses: the per-module function namespaces and the inferred-type
// side-channel. A Session is safe to reuse across independent programs.
type Session struct {
	moduleFuncs map[string]map[string]*FuncSig // canonical path -> name -> signature
	inferred    map[token.Span]ast.Type
}

// NewSession constructs a fresh, empty analysis session.
func NewSession() *Session {
	return &Session{}
}

// reset clears every field so this session behaves identically to a freshly
// constructed one, per the requirement that no state survive across calls.
func (s *Session) reset() {
	s.moduleFuncs = make(map[string]map[string]*FuncSig)
	s.inferred = make(map[token.Span]ast.Type)
}

// Result is the analyzer's output on success: the AST is left untouched;
// Inferred is the side-channel of concrete types keyed by `let` statement
// span.
type Result struct {
	Inferred map[token.Span]ast.Type
}

// Analyze validates modules (topologically ordered, entry module last, as
// produced by pkg/resolver) and returns the inferred-type side-channel, or
// the first structured semantic error encountered. Calling Analyze twice
// on the same Session, even with different programs, never leaks state
// between calls.
func (s *Session) Analyze(modules []*resolver.Module) (*Result, *diagnostics.Error) {
	s.reset()

	if len(modules) == 0 {
		return nil, errMissingMainFunction()
	}
	entry := modules[len(modules)-1]

	// Pass 1: collect every module's function namespace before analyzing
	// any body, so cross-module calls can see imported signatures.
	for _, m := range modules {
		sigs, err := collectFunctions(m.AST)
		if err != nil {
			return nil, wrapModuleError(err, m)
		}
		s.moduleFuncs[m.CanonicalPath] = sigs
	}

	// Pass 2: validate each module's bodies. Imported modules run in
	// library mode (no `main` check, no cross-module calls); the entry
	// module additionally requires a valid `main`.
	for _, m := range modules {
		libraryMode := m.CanonicalPath != entry.CanonicalPath

		if !libraryMode {
			if err := validateEntry(m.AST); err != nil {
				return nil, wrapModuleError(err, m)
			}
		}

		importBindings := make(map[string]string, len(m.ResolvedImports))
		for _, imp := range m.AST.Imports {
			canonical := m.ResolvedImports[imp.PathText]
			key := imp.Alias
			if key == "" {
				key = s.moduleDerivedName(canonical, modules)
			}
			importBindings[key] = canonical
		}

		mctx := &moduleCtx{
			session:        s,
			canonicalPath:  m.CanonicalPath,
			libraryMode:    libraryMode,
			localFuncs:     s.moduleFuncs[m.CanonicalPath],
			importBindings: importBindings,
		}

		for _, fn := range m.AST.Functions {
			if err := analyzeFunction(mctx, fn); err != nil {
				return nil, wrapModuleError(err, m)
			}
		}
	}

	return &Result{Inferred: s.inferred}, nil
}

func (s *Session) moduleDerivedName(canonical string, modules []*resolver.Module) string {
	for _, m := range modules {
		if m.CanonicalPath == canonical {
			return m.DerivedName
		}
	}
	return canonical
}

// wrapModuleError attaches a module's own filename/source to an error so
// multi-module diagnostics render against the file that actually failed,
// not whatever file the driver happens to be looking at.
func wrapModuleError(e *diagnostics.Error, m *resolver.Module) *diagnostics.Error {
	if e.HasSourceContext() {
		return e
	}
	wrapped := *e
	wrapped.SourceFilename = m.CanonicalPath
	wrapped.SourceContent = m.Source
	return &wrapped
}

func collectFunctions(m *ast.Module) (map[string]*FuncSig, *diagnostics.Error) {
	sigs := make(map[string]*FuncSig, len(m.Functions))
	for _, fn := range m.Functions {
		if builtinNames[fn.Name] {
			return nil, errReservedBuiltinName(fn.Name, fn.NameSpan)
		}
		if _, exists := sigs[fn.Name]; exists {
			return nil, errDuplicateFunction(fn.Name, fn.NameSpan)
		}
		sigs[fn.Name] = &FuncSig{
			Name:       fn.Name,
			Visibility: fn.Visibility,
			Parameters: fn.Parameters,
			ReturnType: fn.ReturnType,
			Span:       fn.SignatureSpan,
		}
	}
	return sigs, nil
}

func validateEntry(m *ast.Module) *diagnostics.Error {
	main := m.FunctionNamed("main")
	if main == nil {
		return errMissingMainFunction()
	}
	if len(main.Parameters) != 0 {
		return errInvalidMainSignature(main.SignatureSpan)
	}
	if p, ok := main.ReturnType.(*ast.Primitive); !ok || p.Kind != ast.Void {
		return errInvalidMainSignature(main.SignatureSpan)
	}
	return nil
}

// moduleCtx is shared read-only context for analyzing every function body
// in one module.
type moduleCtx struct {
	session        *Session
	canonicalPath  string
	libraryMode    bool
	localFuncs     map[string]*FuncSig
	importBindings map[string]string // alias-or-derived-name -> canonical path
}

func analyzeFunction(mctx *moduleCtx, fn *ast.Function) *diagnostics.Error {
	fctx := &funcCtx{
		moduleCtx: mctx,
		fn:        fn,
		scopes:    []map[string]*VariableInfo{make(map[string]*VariableInfo)},
	}

	for _, p := range fn.Parameters {
		fctx.declare(&VariableInfo{Name: p.Name, IsMutable: false, Type: p.Type, DefinitionSpan: p.NameSpan})
	}

	if err := fctx.analyzeBlock(fn.Body); err != nil {
		return err
	}

	retVoid := false
	if p, ok := fn.ReturnType.(*ast.Primitive); ok && p.Kind == ast.Void {
		retVoid = true
	}
	if !retVoid && !blockDiverges(fn.Body) {
		return errMissingReturn(fn.Name, fn.SignatureSpan)
	}

	return nil
}
