// Package llvmgen lowers validated modules and the analyzer's inferred-type
// side-channel into a single LLVM IR module. Emission is two-pass per the
// module set as a whole: every user function across every module is
// declared before any body is defined, so forward references and
// cross-module calls resolve regardless of declaration order.
package llvmgen

import (
	"github.com/lak-lang/lak/pkg/analyzer"
	"github.com/lak-lang/lak/pkg/ast"
	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/resolver"
	"github.com/lak-lang/lak/pkg/token"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// loopContext tracks the two basic blocks break/continue jump to for one
// enclosing while loop.
type loopContext struct {
	headBlock *ir.Block
	exitBlock *ir.Block
}

// emitter carries every piece of mutable state needed while lowering one
// module set. A fresh emitter is used per Emit call; nothing survives
// across calls.
type emitter struct {
	module  *ir.Module
	rt      *runtime
	strings map[string]*ir.Global // interned NUL-terminated string constants

	funcs    map[string]*ir.Func          // mangled name -> declared function
	sigs     map[string]*analyzer.FuncSig // mangled name -> signature
	prefixOf map[string]string            // canonical module path -> mangling prefix
	inferred map[token.Span]ast.Type

	// per-module state, set once per module in the define pass
	curPrefix         string
	curImportBindings map[string]string // alias-or-derived-name -> target module's mangling prefix
	curIsEntry        bool

	// per-function state, reset by defineFunction
	block      *ir.Block
	fn         *ir.Func
	locals     map[string]*local
	retType    ast.Type
	loops      []loopContext
	entryBlock *ir.Block
}

type local struct {
	ptr value.Value
	typ ast.Type
}

// Emit lowers modules (topologically ordered, entry last, as produced by
// pkg/resolver) plus the analyzer's inferred-type side-channel into one
// LLVM module ready for textual serialization.
func Emit(modules []*resolver.Module, analyzed *analyzer.Result) (*ir.Module, *diagnostics.Error) {
	if len(modules) == 0 {
		return nil, errInternal("codegen received an empty module set")
	}
	entry := modules[len(modules)-1]

	m := ir.NewModule()
	m.SourceFilename = entry.CanonicalPath

	e := &emitter{
		module:   m,
		rt:       declareRuntime(m),
		strings:  make(map[string]*ir.Global),
		funcs:    make(map[string]*ir.Func),
		sigs:     make(map[string]*analyzer.FuncSig),
		prefixOf: make(map[string]string),
		inferred: analyzed.Inferred,
	}

	for _, mod := range modules {
		prefix := mod.DerivedName
		if mod.CanonicalPath == entry.CanonicalPath {
			prefix = entryPrefix
		}
		e.prefixOf[mod.CanonicalPath] = prefix
	}

	// Declare pass: every user function across every module, before any
	// body is defined.
	for _, mod := range modules {
		prefix := e.prefixOf[mod.CanonicalPath]
		for _, fn := range mod.AST.Functions {
			if err := e.declareFunction(prefix, fn, mod.CanonicalPath == entry.CanonicalPath); err != nil {
				return nil, err
			}
		}
	}

	// Define pass.
	for _, mod := range modules {
		e.curPrefix = e.prefixOf[mod.CanonicalPath]
		e.curIsEntry = mod.CanonicalPath == entry.CanonicalPath

		e.curImportBindings = make(map[string]string, len(mod.AST.Imports))
		for _, imp := range mod.AST.Imports {
			targetCanonical := mod.ResolvedImports[imp.PathText]
			key := imp.Alias
			if key == "" {
				key = e.derivedNameOf(targetCanonical, modules)
			}
			e.curImportBindings[key] = e.prefixOf[targetCanonical]
		}

		for _, fn := range mod.AST.Functions {
			if err := e.defineFunction(e.curPrefix, fn, e.curIsEntry); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func (e *emitter) derivedNameOf(canonical string, modules []*resolver.Module) string {
	for _, m := range modules {
		if m.CanonicalPath == canonical {
			return m.DerivedName
		}
	}
	return canonical
}

func (e *emitter) declareFunction(prefix string, fn *ast.Function, isEntry bool) *diagnostics.Error {
	symbol := mangle(prefix, fn.Name)
	if isEntry && fn.Name == "main" {
		symbol = "main"
	}

	var params []*ir.Param
	for _, p := range fn.Parameters {
		lowered := lowerType(p.Type)
		if lowered == nil {
			return errInternalAt("parameter '"+p.Name+"' has an unresolved type", p.Sp)
		}
		params = append(params, ir.NewParam(p.Name, lowered))
	}

	var retType types.Type
	if isEntry && fn.Name == "main" {
		retType = types.I32
	} else {
		retType = lowerType(fn.ReturnType)
		if retType == nil {
			return errInternalAt("function '"+fn.Name+"' has an unresolved return type", fn.SignatureSpan)
		}
	}

	irFn := e.module.NewFunc(symbol, retType, params...)
	e.funcs[symbol] = irFn
	e.sigs[symbol] = &analyzer.FuncSig{
		Name:       fn.Name,
		Visibility: fn.Visibility,
		Parameters: fn.Parameters,
		ReturnType: fn.ReturnType,
		Span:       fn.SignatureSpan,
	}
	return nil
}

func (e *emitter) lookupFunc(prefix, name string) (*ir.Func, *analyzer.FuncSig, bool) {
	symbol := mangle(prefix, name)
	if prefix == entryPrefix && name == "main" {
		symbol = "main"
	}
	fn, ok := e.funcs[symbol]
	if !ok {
		return nil, nil, false
	}
	return fn, e.sigs[symbol], true
}

func (e *emitter) defineFunction(prefix string, fn *ast.Function, isEntry bool) *diagnostics.Error {
	symbol := mangle(prefix, fn.Name)
	if isEntry && fn.Name == "main" {
		symbol = "main"
	}
	irFn, ok := e.funcs[symbol]
	if !ok {
		return errInternalAt("function '"+fn.Name+"' was not declared before definition", fn.SignatureSpan)
	}

	e.fn = irFn
	e.locals = make(map[string]*local)
	e.retType = fn.ReturnType
	e.loops = nil

	entryBlock := irFn.NewBlock("entry")
	e.entryBlock = entryBlock
	e.block = entryBlock

	for i, p := range fn.Parameters {
		param := irFn.Params[i]
		ptr := entryBlock.NewAlloca(param.Typ)
		entryBlock.NewStore(param, ptr)
		e.locals[p.Name] = &local{ptr: ptr, typ: p.Type}
	}

	if err := e.genStatements(fn.Body); err != nil {
		return err
	}

	if e.block.Term == nil {
		if isEntry && fn.Name == "main" {
			e.block.NewRet(constant.NewInt(types.I32, 0))
		} else if isVoidType(fn.ReturnType) {
			e.block.NewRet(nil)
		} else {
			return errInternalAt("function '"+fn.Name+"' fell off its end without returning", fn.SignatureSpan)
		}
	}

	return nil
}

func (e *emitter) internedString(raw string) value.Value {
	withNul := raw + "\x00"
	g, ok := e.strings[raw]
	if !ok {
		g = e.module.NewGlobalDef("", constant.NewCharArrayFromString(withNul))
		g.Linkage = enum.LinkagePrivate
		g.Immutable = true
		e.strings[raw] = g
	}
	zero := constant.NewInt(types.I32, 0)
	arrType := types.NewArray(uint64(len(withNul)), types.I8)
	return constant.NewGetElementPtr(arrType, g, zero, zero)
}
