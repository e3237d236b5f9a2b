// Package shape integrates the external text-shaping engine: it splits
// line text into shaping-safe clusters, maps them to grid cells, and
// refines fallback-font splits so composed sequences shape as one unit.
package shape

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// Cluster is one itemized span of a line: a byte offset and length plus
// the avoid-break flag for non-ASCII graphemes.
type Cluster struct {
	Offset     int
	Len        int
	AvoidBreak bool
}

// Itemizer iterates a line of text, yielding the largest clusters of
// non-whitespace graphemes that can be shaped at once without risking
// column misalignment from ambiguous-width characters. ASCII runs come
// out per-word; everything else comes out per-grapheme so combining
// marks and wide glyphs are shaped individually.
type Itemizer struct {
	line  string
	pos   int
	state int

	pushedBack bool
	pbIndex    int
	pbGrapheme string
}

// NewItemizer creates an itemizer over line.
func NewItemizer(line string) *Itemizer {
	return &Itemizer{line: line, state: -1}
}

// Next returns the next cluster. ok is false at end of line.
func (it *Itemizer) Next() (c Cluster, ok bool) {
	startIndex := -1
	avoidBreak := false
	var endIndex int

	for {
		index, g, more := it.nextGrapheme()
		if !more {
			endIndex = len(it.line)
			break
		}

		isWhitespace, isASCII := classifyGrapheme(g)

		if startIndex < 0 && !isWhitespace {
			startIndex = index
			if !isASCII {
				avoidBreak = true
				endIndex = index + len(g)
				break
			}
		} else if startIndex >= 0 && (isWhitespace || !isASCII) {
			it.pushBack(index, g)
			endIndex = index
			break
		}
	}

	if startIndex < 0 {
		return Cluster{}, false
	}
	return Cluster{Offset: startIndex, Len: endIndex - startIndex, AvoidBreak: avoidBreak}, true
}

func (it *Itemizer) nextGrapheme() (index int, g string, ok bool) {
	if it.pushedBack {
		it.pushedBack = false
		return it.pbIndex, it.pbGrapheme, true
	}
	if it.pos >= len(it.line) {
		return 0, "", false
	}
	cluster, _, _, newState := uniseg.FirstGraphemeClusterInString(it.line[it.pos:], it.state)
	index = it.pos
	it.pos += len(cluster)
	it.state = newState
	return index, cluster, true
}

func (it *Itemizer) pushBack(index int, g string) {
	it.pushedBack = true
	it.pbIndex = index
	it.pbGrapheme = g
}

// classifyGrapheme reports whether the grapheme is all whitespace and
// whether its visible content is ASCII. Non-ASCII whitespace still counts
// as whitespace.
func classifyGrapheme(g string) (isWhitespace, isASCII bool) {
	isWhitespace = true
	isASCII = true
	for _, r := range g {
		if isWhitespace {
			if unicode.IsSpace(r) {
				continue
			}
			isWhitespace = false
		}
		if r > unicode.MaxASCII {
			isASCII = false
			break
		}
	}
	return isWhitespace, isASCII
}
