package llvmgen

import "fmt"

// entryPrefix is the mangling prefix reserved for the entry module. It is
// never derived from a filename, and its '.' cannot appear in a derived
// module name (always a valid identifier), so it can never collide with an
// imported module's derived name, not even that of an imported entry.lak.
const entryPrefix = "entry."

// mangle produces the `_L<len>_<module_prefix>_<function_name>` symbol
// name for a user function. len is the byte length of prefix, which lets a
// linker-visible symbol be unambiguously split back into its module and
// function parts without needing a delimiter that could itself appear in
// either component.
func mangle(prefix, name string) string {
	return fmt.Sprintf("_L%d_%s_%s", len(prefix), prefix, name)
}
