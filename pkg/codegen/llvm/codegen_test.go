package llvmgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lak-lang/lak/pkg/analyzer"
	"github.com/lak-lang/lak/pkg/resolver"
)

func TestMangle(t *testing.T) {
	if got := mangle("entry", "main"); got != "_L5_entry_main" {
		t.Errorf("mangle(%q, %q) = %q, want %q", "entry", "main", got, "_L5_entry_main")
	}
	if got := mangle("helper", "add"); got != "_L6_helper_add" {
		t.Errorf("mangle(%q, %q) = %q, want %q", "helper", "add", got, "_L6_helper_add")
	}
}

func emitSource(t *testing.T, files map[string]string, entryName string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("could not write %s: %s", name, err)
		}
	}

	modules, rerr := resolver.Resolve(filepath.Join(dir, entryName))
	if rerr != nil {
		t.Fatalf("Resolve returned error: %s: %s", rerr.Title, rerr.Label)
	}

	result, aerr := analyzer.NewSession().Analyze(modules)
	if aerr != nil {
		t.Fatalf("Analyze returned error: %s: %s", aerr.Title, aerr.Label)
	}

	irModule, cerr := Emit(modules, result)
	if cerr != nil {
		t.Fatalf("Emit returned error: %s: %s", cerr.Title, cerr.Label)
	}

	return irModule.String()
}

func TestEmitMainUsesUnmangledSymbol(t *testing.T) {
	ir := emitSource(t, map[string]string{
		"main.lak": "fn main() -> void {\n}\n",
	}, "main.lak")

	if !strings.Contains(ir, "define i32 @main()") {
		t.Errorf("generated IR does not define an unmangled @main:\n%s", ir)
	}
}

func TestEmitUserFunctionIsMangledWithEntryPrefix(t *testing.T) {
	ir := emitSource(t, map[string]string{
		"main.lak": "fn helper() -> i32 {\n  return 1\n}\n\nfn main() -> void {\n}\n",
	}, "main.lak")

	if !strings.Contains(ir, "@"+mangle(entryPrefix, "helper")) {
		t.Errorf("generated IR is missing the mangled entry-module helper function:\n%s", ir)
	}
}

func TestEmitCrossModuleCallUsesImportedModulesMangledPrefix(t *testing.T) {
	ir := emitSource(t, map[string]string{
		"helper.lak": "pub fn add(a: i32, b: i32) -> i32 {\n  return a + b\n}\n",
		"main.lak":   "import \"./helper\"\n\nfn main() -> void {\n  let x = helper.add(1, 2)\n}\n",
	}, "main.lak")

	if !strings.Contains(ir, "@"+mangle("helper", "add")) {
		t.Errorf("generated IR is missing the mangled helper module function:\n%s", ir)
	}
	if !strings.Contains(ir, "call i32 @"+mangle("helper", "add")) {
		t.Errorf("generated IR does not call through the mangled helper symbol:\n%s", ir)
	}
}

func TestEmitReturnsI32ForMainRegardlessOfDeclaredVoid(t *testing.T) {
	ir := emitSource(t, map[string]string{
		"main.lak": "fn main() -> void {\n}\n",
	}, "main.lak")
	if !strings.Contains(ir, "ret i32 0") {
		t.Errorf("generated IR does not fall off main's end with 'ret i32 0':\n%s", ir)
	}
}

func TestEmitMaxU64LiteralProducesCorrectBitPattern(t *testing.T) {
	ir := emitSource(t, map[string]string{
		"main.lak": "fn main() -> void {\n  let x: u64 = 18446744073709551615\n}\n",
	}, "main.lak")
	// llir/llvm renders an i64 whose top bit is set using its signed
	// decimal form; -1 is the exact two's-complement bit pattern for the
	// maximum unsigned 64-bit value.
	if !strings.Contains(ir, "i64 -1") {
		t.Errorf("generated IR does not store the max u64 literal as i64 -1:\n%s", ir)
	}
}

func TestEmitStringLiteralInternsGlobalConstant(t *testing.T) {
	ir := emitSource(t, map[string]string{
		"main.lak": "fn main() -> void {\n  println(\"hello\")\n}\n",
	}, "main.lak")
	if !strings.Contains(ir, `c"hello\00"`) {
		t.Errorf("generated IR is missing the interned string constant:\n%s", ir)
	}
}
