/*
Package domain contains the automaton model shared by every other package.

It is kept pure and free of I/O, following the same hexagonal split as the
rest of the module: parsing lives in expr, the operators in fsm, and storage
and transports in adapters.

# Key Entities

  - State: an automaton node identified by a set of origin tags.
  - Automaton: states plus a source -> target -> symbols transition map.
  - Group: the four automata recorded for one operator application.
  - Result: elementary automata and groups produced by one evaluation.
*/
package domain
