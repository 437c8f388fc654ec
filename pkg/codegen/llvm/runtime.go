package llvmgen

import (
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// runtime holds every extern declared against the fixed ABI in the
// runtime static archive, plus the overflow-checking intrinsics codegen
// emits checked arithmetic calls against.
type runtime struct {
	println      map[string]*ir.Func // suffix ("", "_bool", "_i8", ...) -> func
	streq        *ir.Func
	strcmp       *ir.Func
	panic        *ir.Func
	overflowAdd  map[int]*ir.Func // bit width -> llvm.sadd.with.overflow.iN
	overflowSub  map[int]*ir.Func
	overflowMul  map[int]*ir.Func
	overflowUAdd map[int]*ir.Func
	overflowUSub map[int]*ir.Func
	overflowUMul map[int]*ir.Func
}

var printlnSuffixes = []struct {
	suffix string
	param  types.Type
}{
	{"", types.I8Ptr},
	{"_bool", types.I1},
	{"_i8", types.I8}, {"_i16", types.I16}, {"_i32", types.I32}, {"_i64", types.I64},
	{"_u8", types.I8}, {"_u16", types.I16}, {"_u32", types.I32}, {"_u64", types.I64},
	{"_f32", types.Float}, {"_f64", types.Double},
}

var overflowWidths = []int{8, 16, 32, 64}

func declareRuntime(m *ir.Module) *runtime {
	rt := &runtime{
		println:      make(map[string]*ir.Func),
		overflowAdd:  make(map[int]*ir.Func),
		overflowSub:  make(map[int]*ir.Func),
		overflowMul:  make(map[int]*ir.Func),
		overflowUAdd: make(map[int]*ir.Func),
		overflowUSub: make(map[int]*ir.Func),
		overflowUMul: make(map[int]*ir.Func),
	}

	for _, p := range printlnSuffixes {
		fn := m.NewFunc("lak_println"+p.suffix, types.Void, ir.NewParam("", p.param))
		rt.println[p.suffix] = fn
	}

	rt.streq = m.NewFunc("lak_streq", types.I32, ir.NewParam("", types.I8Ptr), ir.NewParam("", types.I8Ptr))
	rt.strcmp = m.NewFunc("lak_strcmp", types.I32, ir.NewParam("", types.I8Ptr), ir.NewParam("", types.I8Ptr))
	rt.panic = m.NewFunc("lak_panic", types.Void, ir.NewParam("", types.I8Ptr))

	for _, w := range overflowWidths {
		it := intTypeForWidth(w)
		resultType := types.NewStruct(it, types.I1)

		declareOverflow := func(name string) *ir.Func {
			return m.NewFunc(name, resultType, ir.NewParam("", it), ir.NewParam("", it))
		}

		rt.overflowAdd[w] = declareOverflow(intrinsicName("sadd", w))
		rt.overflowSub[w] = declareOverflow(intrinsicName("ssub", w))
		rt.overflowMul[w] = declareOverflow(intrinsicName("smul", w))
		rt.overflowUAdd[w] = declareOverflow(intrinsicName("uadd", w))
		rt.overflowUSub[w] = declareOverflow(intrinsicName("usub", w))
		rt.overflowUMul[w] = declareOverflow(intrinsicName("umul", w))
	}

	return rt
}

func intrinsicName(op string, width int) string {
	return "llvm." + op + ".with.overflow.i" + strconv.Itoa(width)
}

func intTypeForWidth(w int) types.Type {
	switch w {
	case 8:
		return types.I8
	case 16:
		return types.I16
	case 32:
		return types.I32
	case 64:
		return types.I64
	}
	return types.I64
}
