package ast

import "github.com/lak-lang/lak/pkg/token"

type Visibility int

const (
	Private Visibility = iota
	Public
)

type Parameter struct {
	Name     string
	NameSpan token.Span
	Type     Type
	Sp       token.Span
}

// Function is one `fn` definition. ReturnTypeSourceText/ReturnTypeSpan
// retain the raw identifier so diagnostics and codegen's internal-error
// messages can cite it without ever printing a mangled name.
type Function struct {
	Visibility           Visibility
	Name                 string
	NameSpan             token.Span
	Parameters           []Parameter
	ReturnType           Type
	ReturnTypeSourceText string
	ReturnTypeSpan       token.Span
	Body                 []Statement
	SignatureSpan        token.Span
	Sp                   token.Span
}

// Import is one `import "path" (as alias)?` declaration.
type Import struct {
	PathText  string
	PathSpan  token.Span
	Alias     string // empty when no alias was given
	AliasSpan token.Span
	Sp        token.Span
}

// Module is the AST of one source file, as produced by the parser. It
// never carries resolution state (canonical path, resolved imports) — that
// belongs to resolver.Module, which wraps one of these.
type Module struct {
	Path      string // filesystem path as given to the parser, for diagnostics
	Source    string
	Imports   []Import
	Functions []*Function
}

// FunctionNamed returns the function declared with the given name, or nil.
func (m *Module) FunctionNamed(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}
