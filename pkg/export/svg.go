package export

import (
	"bytes"
	"fmt"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/slotter/pkg/constraint"
)

// SVGOptions configures SVG visualization export.
type SVGOptions struct {
	ColumnWidth int    // Width of one section column in pixels
	RowHeight   int    // Height of one candidate row in pixels
	HeaderH     int    // Height of the section header band
	Margin      int    // Canvas margin in pixels
	ShowScores  bool   // Render candidate scores inside each box
	Title       string // Optional title for the visualization
}

// DefaultSVGOptions returns sensible default SVG export options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		ColumnWidth: 220,
		RowHeight:   28,
		HeaderH:     40,
		Margin:      40,
		ShowScores:  true,
		Title:       "Constraint Solution",
	}
}

// ExportSVG renders the solution as an SVG: one column per section, with the
// assigned candidates stacked inside. Section sets are laid out top to
// bottom. Returns the SVG document as a byte slice.
func ExportSVG(sol *constraint.Solution, opts SVGOptions) ([]byte, error) {
	if sol == nil {
		return nil, fmt.Errorf("solution cannot be nil")
	}
	if opts.ColumnWidth <= 0 {
		opts.ColumnWidth = 220
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = 28
	}
	if opts.HeaderH <= 0 {
		opts.HeaderH = 40
	}
	if opts.Margin <= 0 {
		opts.Margin = 40
	}

	maxColumns, setHeights := 0, make([]int, len(sol.SectionSets))
	for i, set := range sol.SectionSets {
		if len(set.Sections) > maxColumns {
			maxColumns = len(set.Sections)
		}
		rows := 0
		for _, section := range set.Sections {
			if len(section.Candidates) > rows {
				rows = len(section.Candidates)
			}
		}
		setHeights[i] = opts.HeaderH + (rows+1)*opts.RowHeight
	}

	width := 2*opts.Margin + maxColumns*opts.ColumnWidth
	height := 2*opts.Margin + 30
	for _, h := range setHeights {
		height += h + opts.Margin
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#ffffff")

	if opts.Title != "" {
		canvas.Text(opts.Margin, opts.Margin-10,
			fmt.Sprintf("%s (score %d)", opts.Title, sol.OverallScore),
			"font-family:sans-serif;font-size:16px;font-weight:bold;fill:#1a1a2e")
	}

	y := opts.Margin + 30
	for _, set := range sol.SectionSets {
		for col, section := range set.Sections {
			x := opts.Margin + col*opts.ColumnWidth

			canvas.Rect(x, y, opts.ColumnWidth-10, opts.HeaderH,
				"fill:#2d3561;stroke:#1a1a2e;stroke-width:1")
			canvas.Text(x+8, y+opts.HeaderH-14, section.Section.URI,
				"font-family:sans-serif;font-size:12px;fill:#ffffff")
			canvas.Text(x+8, y+opts.HeaderH-2, fmt.Sprintf("score %d", section.Score),
				"font-family:sans-serif;font-size:10px;fill:#c6c8e0")

			for row, cand := range section.Candidates {
				ry := y + opts.HeaderH + row*opts.RowHeight
				canvas.Rect(x, ry, opts.ColumnWidth-10, opts.RowHeight-4,
					"fill:#eef1ff;stroke:#2d3561;stroke-width:1")
				label := cand.Object.URI
				if opts.ShowScores {
					label = fmt.Sprintf("%s  %.2f", cand.Object.URI, cand.TotalScore())
				}
				canvas.Text(x+8, ry+opts.RowHeight-12, label,
					"font-family:sans-serif;font-size:11px;fill:#1a1a2e")
			}
		}
		rows := 0
		for _, section := range set.Sections {
			if len(section.Candidates) > rows {
				rows = len(section.Candidates)
			}
		}
		y += opts.HeaderH + (rows+1)*opts.RowHeight + opts.Margin
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile exports the solution visualization to a file with 0644
// permissions.
func SaveSVGToFile(sol *constraint.Solution, filepath string, opts SVGOptions) error {
	data, err := ExportSVG(sol, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}
