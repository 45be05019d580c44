// Package item defines the domain-object and candidate types that flow
// through recommendation pipelines. An Object is an immutable entity with a
// URI and a nested attribute map; a Candidate wraps an Object together with
// the explanation/score trail accumulated by pipeline stages.
package item
