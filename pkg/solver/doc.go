// Package solver defines the abstract model-builder interface the constraint
// compiler targets, plus the default backend that lowers models onto the
// gokanlogic finite-domain solver. The interface is CP-SAT shaped: 0/1 and
// bounded integer variables, linear relations, conditional enforcement, and
// maximization of a linear objective under an optional time budget.
//
// A Model instance is single-use: build it, solve it once, read the result,
// discard it.
package solver
