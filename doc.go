/*
Package regfsm compiles regular expressions into finite automata and records every step of the derivation.

An expression is validated, converted to postfix and evaluated by a stack machine. Each operand becomes a
two-state elementary automaton; each operator application is followed by subset construction, partition
refinement and renaming, so every intermediate automaton is deterministic and minimal.

# Concept

The engine is a teaching tool as much as a compiler. A Result keeps the elementary automata, and for every
operator the raw operator output plus its determinized, minimized and simplified forms. Adapters (HTTP, MCP, CLI)
render any of them as Mermaid or Graphviz DOT, or as a Markdown report.

# Syntax

  - Operands: letters, digits, ε (or \e) for the empty string, Ø (or \0) for the empty language.
  - Operators: | alternation, , or implicit concatenation, * Kleene closure, + positive closure.
  - Parentheses group; whitespace and empty parentheses are ignored.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/regfsm"
	)

	func main() {
		eng, err := regfsm.New()
		if err != nil {
			log.Fatal(err)
		}
		defer eng.Close()

		res, err := eng.Compile(context.Background(), "(a|b)*abb")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Final().Format())

		verdicts, err := eng.Match(context.Background(), "(a|b)*abb", []string{"abb", "ab"})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(verdicts) // [true false]
	}
*/
package regfsm
