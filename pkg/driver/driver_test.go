package driver

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func withEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("could not set %s: %s", key, err)
	}
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestDefaultOutputName(t *testing.T) {
	tests := []struct {
		entry string
		want  string
	}{
		{"main.lak", "main" + exeSuffix()},
		{"/a/b/hello.lak", "hello" + exeSuffix()},
		{"./rel/prog.lak", "prog" + exeSuffix()},
	}
	for _, tt := range tests {
		if got := defaultOutputName(tt.entry); got != tt.want {
			t.Errorf("defaultOutputName(%q) = %q, want %q", tt.entry, got, tt.want)
		}
	}
}

func TestCCToolDefaultsAndOverride(t *testing.T) {
	os.Unsetenv(ccEnvVar)
	if got := ccTool(); got != defaultCC {
		t.Errorf("ccTool() = %q, want default %q", got, defaultCC)
	}

	withEnv(t, ccEnvVar, "my-clang")
	if got := ccTool(); got != "my-clang" {
		t.Errorf("ccTool() = %q, want override %q", got, "my-clang")
	}
}

func TestLDToolDefaultsAndOverride(t *testing.T) {
	os.Unsetenv(ldEnvVar)
	if got := ldTool(); got != defaultLD {
		t.Errorf("ldTool() = %q, want default %q", got, defaultLD)
	}

	withEnv(t, ldEnvVar, "my-linker")
	if got := ldTool(); got != "my-linker" {
		t.Errorf("ldTool() = %q, want override %q", got, "my-linker")
	}
}

func TestResolveRuntimeArchiveUsesEnvOverride(t *testing.T) {
	withEnv(t, runtimeEnvVar, "/somewhere/liblak_runtime.a")

	path, err := ResolveRuntimeArchive()
	if err != nil {
		t.Fatalf("ResolveRuntimeArchive returned error: %s: %s", err.Title, err.Label)
	}
	if path != "/somewhere/liblak_runtime.a" {
		t.Errorf("ResolveRuntimeArchive() = %q, want env override path", path)
	}
}

func TestResolveRuntimeArchiveNotFoundNextToExecutable(t *testing.T) {
	os.Unsetenv(runtimeEnvVar)

	_, err := ResolveRuntimeArchive()
	if err == nil {
		t.Fatal("ResolveRuntimeArchive succeeded, want RuntimeLibraryNotFound (no archive is ever bundled next to the test binary)")
	}
	if err.Kind != "RuntimeLibraryNotFound" {
		t.Errorf("err.Kind = %q, want %q", err.Kind, "RuntimeLibraryNotFound")
	}
}

func TestCopyFileCopiesContentsAndIsExecutable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	if err := os.WriteFile(src, []byte("binary-contents"), 0o644); err != nil {
		t.Fatalf("could not write src: %s", err)
	}

	if derr := copyFile(src, dst); derr != nil {
		t.Fatalf("copyFile returned error: %s: %s", derr.Title, derr.Label)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("could not read dst: %s", err)
	}
	if string(got) != "binary-contents" {
		t.Errorf("dst contents = %q, want %q", string(got), "binary-contents")
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("could not stat dst: %s", err)
	}
	if info.Mode()&0o111 == 0 {
		t.Errorf("dst mode %v is not executable", info.Mode())
	}
}

func TestCopyFileMissingSourceIsAnError(t *testing.T) {
	dir := t.TempDir()
	err := copyFile(filepath.Join(dir, "nosuchfile"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("copyFile succeeded, want FileReadError for a missing source")
	}
	if err.Kind != "FileReadError" {
		t.Errorf("err.Kind = %q, want %q", err.Kind, "FileReadError")
	}
}

// TestExitCodeForSignalTermination spawns a process that kills itself with
// SIGTERM and checks the shell convention (128+signal) without ever
// invoking clang or a compiled Lak program.
func TestExitCodeForSignalTermination(t *testing.T) {
	cmd := exec.Command("sh", "-c", "kill -TERM $$; sleep 1")
	err := cmd.Run()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected the shell to be signal-terminated, got err = %v", err)
	}

	const sigterm = 15
	if got := exitCodeFor(exitErr); got != 128+sigterm {
		t.Errorf("exitCodeFor(SIGTERM) = %d, want %d", got, 128+sigterm)
	}
}

func TestExitCodeForNormalNonZeroExit(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 7")
	err := cmd.Run()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected a normal non-zero exit, got err = %v", err)
	}

	if got := exitCodeFor(exitErr); got != 7 {
		t.Errorf("exitCodeFor(exit 7) = %d, want 7", got)
	}
}

func TestRunMissingExecutableIsAnError(t *testing.T) {
	dir := t.TempDir()
	_, err := Run(filepath.Join(dir, "nosuchprogram"), nil)
	if err == nil {
		t.Fatal("Run succeeded, want ExecutableRunError for a missing executable")
	}
	if err.Kind != "ExecutableRunError" {
		t.Errorf("err.Kind = %q, want %q", err.Kind, "ExecutableRunError")
	}
}

func TestCompileToObjectReportsResolverErrors(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "missing.lak")

	err := CompileToObject(entry, filepath.Join(dir, "out.o"), false)
	if err == nil {
		t.Fatal("CompileToObject succeeded for a nonexistent entry file")
	}
	if err.Kind != "FileNotFound" {
		t.Errorf("err.Kind = %q, want %q", err.Kind, "FileNotFound")
	}
}

func TestBuildReportsResolverErrorsWithoutShellingOut(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "missing.lak")

	err := Build(entry, filepath.Join(dir, "out"+exeSuffix()), false)
	if err == nil {
		t.Fatal("Build succeeded for a nonexistent entry file")
	}
	if err.Kind != "FileNotFound" {
		t.Errorf("err.Kind = %q, want %q", err.Kind, "FileNotFound")
	}
}
