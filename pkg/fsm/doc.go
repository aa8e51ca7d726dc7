/*
Package fsm implements the automaton operators used to turn a postfix
expression into a minimal deterministic automaton.

Operators never modify their inputs: every function returns a new
Automaton built from immutable State values, so automata already recorded
in an earlier step stay intact.

  - FromSymbol builds the automaton of one operand.
  - Concat, Alternate, PositiveClosure and KleeneClosure combine automata.
  - Determinize, Minimize and Simplify normalize an operator's output.

Functions that create states take a *Namer, which hands out the origin tags
for a single evaluation run.
*/
package fsm
