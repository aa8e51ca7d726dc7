// Package expr turns user-typed regular expressions into postfix token
// sequences.
//
// Supported syntax is deliberately small: letters and digits as symbols,
// `\e` for the empty string (ε), `\0` for the empty set (Ø), `|` for
// alternation, `*` and `+` for closures and parentheses for grouping.
// Concatenation is implicit. Validate must accept an expression before it
// is handed to Parse.
package expr
