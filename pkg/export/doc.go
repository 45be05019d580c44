// Package export serializes constraint solutions for storage, inspection,
// and visualization. Three formats are supported: JSON (machine-readable),
// plain text (CLI-friendly summary), and SVG (sections as columns with their
// assigned candidates).
package export
