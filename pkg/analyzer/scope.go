package analyzer

import (
	"github.com/lak-lang/lak/pkg/ast"
	"github.com/lak-lang/lak/pkg/diagnostics"
)

// funcCtx carries everything needed to analyze one function body: the
// enclosing module context, the function being checked, a scope stack of
// variable bindings (innermost last), and the current loop nesting depth
// for break/continue validation.
type funcCtx struct {
	*moduleCtx
	fn        *ast.Function
	scopes    []map[string]*VariableInfo
	loopDepth int
}

func (f *funcCtx) pushScope() { f.scopes = append(f.scopes, make(map[string]*VariableInfo)) }

func (f *funcCtx) popScope() { f.scopes = f.scopes[:len(f.scopes)-1] }

// declare adds v to the innermost scope. Redeclaring a name already present
// in that same scope (not an outer one — shadowing across scopes is legal)
// is a DuplicateVariable error.
func (f *funcCtx) declare(v *VariableInfo) *diagnostics.Error {
	innermost := f.scopes[len(f.scopes)-1]
	if _, exists := innermost[v.Name]; exists {
		return errDuplicateVariable(v.Name, v.DefinitionSpan)
	}
	innermost[v.Name] = v
	return nil
}

// lookup searches innermost-to-outermost scope for name.
func (f *funcCtx) lookup(name string) *VariableInfo {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if v, ok := f.scopes[i][name]; ok {
			return v
		}
	}
	return nil
}
