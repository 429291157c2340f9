// Package output formats the lines of a rendered tree.
package output

// GlyphSet holds the connector strings drawn in front of tree entries.
type GlyphSet struct {
	Branch       string
	LastBranch   string
	Continuation string
	Blank        string
}

var (
	// UnicodeGlyphs draws box-drawing connectors.
	UnicodeGlyphs = GlyphSet{
		Branch:       "├── ",
		LastBranch:   "└── ",
		Continuation: "│   ",
		Blank:        "    ",
	}
	// ASCIIGlyphs draws connectors using plain ASCII characters.
	ASCIIGlyphs = GlyphSet{
		Branch:       "|---",
		LastBranch:   "+---",
		Continuation: "|   ",
		Blank:        "    ",
	}
)

// SelectGlyphs returns the ASCII set when ascii is true and the Unicode set otherwise.
func SelectGlyphs(ascii bool) GlyphSet {
	if ascii {
		return ASCIIGlyphs
	}
	return UnicodeGlyphs
}

// BranchFor returns the connector for an entry depending on whether it closes its sibling list.
func (glyphs GlyphSet) BranchFor(isLast bool) string {
	if isLast {
		return glyphs.LastBranch
	}
	return glyphs.Branch
}

// IndentFor returns the indentation unit below an ancestor.
func (glyphs GlyphSet) IndentFor(ancestorWasLast bool) string {
	if ancestorWasLast {
		return glyphs.Blank
	}
	return glyphs.Continuation
}
