package python

import "strings"

const (
	emptyList   = "[]"
	emptyString = "''"
)

// reservedWords are never allocated as identifiers: Python keywords, the
// soft keywords, and the builtins and modules generated code refers to.
var reservedWords = []string{
	// Keywords
	"False", "None", "True", "and", "as", "assert", "async", "await",
	"break", "class", "continue", "def", "del", "elif", "else", "except",
	"finally", "for", "from", "global", "if", "import", "in", "is",
	"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
	"while", "with", "yield",
	// Soft keywords (Python 3.10+)
	"match", "case", "type", "_",
	// Python 2 statements
	"exec", "print",
	// Builtins used by templates and helpers
	"abs", "all", "any", "bool", "dict", "enumerate", "float", "input",
	"int", "isinstance", "len", "list", "map", "max", "min", "object",
	"range", "raw_input", "reversed", "set", "sorted", "str", "sum",
	"tuple", "unicode", "zip", "NameError", "ValueError",
	// Modules
	"division", "random",
}

var quoter = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// quote renders s as a single-quoted Python string literal.
func quote(s string) string {
	return "'" + quoter.Replace(s) + "'"
}
