// Package recommend orchestrates the full recommendation flow: drive the
// candidate pipeline, compile every section set against a fresh solver
// model, maximize the total selected score, and extract a structured
// constraint solution.
package recommend
