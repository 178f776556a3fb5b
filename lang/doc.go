// Package lang implements the axp notation: a minimal parenthesized
// data language with a lexer, a recursive descent parser, a serializer,
// and a small evaluator.
//
// # Grammar
//
// Informal EBNF:
//
//	Document → Body EOF
//	Body     → Item* | Entry+
//	Entry    → Item ':' Item
//	Item     → Atom | '(' Body ')'
//	Atom     → BareWord | QuotedString | GuardedString
//
// A body is a list when its items carry no colons and a map when every
// item is a `key: value` entry. The decision is made after the first
// item with one token of lookahead, each body decides independently of
// its parent, and mixing the two shapes within one body is an error.
// The top level of a document is a bare body, so `name: atto` is
// already a one-entry map without any parentheses.
//
// # Strings
//
// Quoted strings use backslash escapes (\" \\ \n \r \t \0 \xHH
// \u{H..H} and an escaped space). Guarded strings are raw: `#"` opens,
// the first `"#` closes, and everything between passes through
// verbatim, including literal quotes:
//
//	motto: #"He said: "Hello!" and I nodded."#
//
// A `#` not immediately followed by `"` starts a line comment.
//
// # Evaluation
//
// The same value tree doubles as code. Bare atoms are symbols resolved
// in an Environment, quoted and guarded atoms self-evaluate, a
// non-empty list applies its head to the remaining items, and a map
// re-evaluates its values while keeping keys literal. The quote, if,
// let, and fn forms intercept their arguments before the eager
// application rule applies. DefaultEnvironment supplies list access,
// string construction, numeric operators, process environment lookup,
// and PATH-style prefixing.
//
//	(let (double: (fn (n) (* n 2))) (double 21))
//
// Parsing and evaluation are bounded: the parser enforces a maximum
// nesting depth, and the evaluator accepts a call depth limit and an
// optional step budget.
package lang
