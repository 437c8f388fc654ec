package llvmgen

import (
	"fmt"

	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/token"
)

func errInternal(message string) *diagnostics.Error {
	return &diagnostics.Error{
		Phase: diagnostics.PhaseCodegen,
		Kind:  "InternalError",
		Title: "Internal compiler error",
		Label: fmt.Sprintf("%s. This is a compiler bug.", message),
	}
}

func errInternalAt(message string, sp token.Span) *diagnostics.Error {
	e := errInternal(message)
	e.Span = &sp
	return e
}

func errTargetError(detail string) *diagnostics.Error {
	return &diagnostics.Error{
		Phase: diagnostics.PhaseCodegen,
		Kind:  "TargetError",
		Title: "Target initialization failed",
		Label: detail,
	}
}

func errInvalidModulePath(path string) *diagnostics.Error {
	return &diagnostics.Error{
		Phase: diagnostics.PhaseCodegen,
		Kind:  "InvalidModulePath",
		Title: "Invalid module path",
		Label: fmt.Sprintf("module path '%s' cannot be turned into a symbol prefix", path),
	}
}
