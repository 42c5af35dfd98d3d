package gaprope

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/npillmayer/gaprope/chunk"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
	"golang.org/x/term"
)

var (
	innerColor = color.New(color.FgBlue)
	leafColor  = color.New(color.FgGreen)
	gapColor   = color.New(color.FgHiBlack)
)

var setupGraphemes sync.Once

// Dump writes an indented listing of the tree of a rope to w (for debugging
// purposes). Inner nodes show their summary, leaves show a preview of their
// text with the gap of the chunk rendered as '~'. Previews are cut to the
// width of the terminal, if there is one.
func Dump(r Rope, w io.Writer) {
	if r.tree == nil {
		fmt.Fprintln(w, "<empty rope>")
		return
	}
	root, ok := r.tree.Root()
	if !ok {
		fmt.Fprintln(w, "<empty rope>")
		return
	}
	setupGraphemes.Do(grapheme.SetupGraphemeClasses)
	width, context := consoleConfig()
	var dump func(n nodeRef, depth int)
	dump = func(n nodeRef, depth int) {
		indent := strings.Repeat("  ", depth)
		if leaf, ok := n.Leaf(); ok {
			head := fmt.Sprintf("%sleaf %3d ", indent, leaf.Len())
			leafColor.Fprint(w, head)
			room := width - len(head)
			first, second := previewParts(leaf, room, context)
			fmt.Fprint(w, first)
			gapColor.Fprint(w, strings.Repeat("~", min(leaf.LenGap(), max(0, room-displayWidth(first, context)))))
			fmt.Fprintln(w, second)
			return
		}
		s := n.Summary()
		innerColor.Fprintf(w, "%snode bytes=%d chars=%d lines=%d leaves=%d\n",
			indent, s.Bytes, s.Chars, s.Lines, n.LeafCount())
		for _, child := range n.Children() {
			dump(child, depth+1)
		}
	}
	dump(root, 0)
}

// previewParts renders the text of a chunk before and after its gap as a
// quoted string, cut to fit into width columns in total together with the gap.
func previewParts(leaf chunk.ChunkSlice, width int, context *uax11.Context) (string, string) {
	first := `"` + quoteSegment(leaf.FirstSegment())
	second := quoteSegment(leaf.SecondSegment()) + `"`
	first = truncate(first, width, context)
	rest := width - displayWidth(first, context) - leaf.LenGap()
	return first, truncate(second, rest, context)
}

func quoteSegment(b []byte) string {
	q := strconv.Quote(string(b))
	return q[1 : len(q)-1]
}

func displayWidth(s string, context *uax11.Context) int {
	return uax11.StringWidth(grapheme.StringFromString(s), context)
}

// truncate cuts s to at most width columns, marking a cut with '…'.
func truncate(s string, width int, context *uax11.Context) string {
	if width <= 0 {
		return ""
	}
	if displayWidth(s, context) <= width {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n >= 0; n-- {
		if cut := string(runes[:n]) + "…"; displayWidth(cut, context) <= width {
			return cut
		}
	}
	return ""
}

// consoleConfig is a simple heuristic for the usable output width and the
// character width context. If stdin is a terminal, its width and the locale
// of the environment are used, otherwise a default of 65 columns of Latin
// text.
func consoleConfig() (int, *uax11.Context) {
	if !term.IsTerminal(0) {
		return 65, uax11.LatinContext
	}
	context := uax11.ContextFromEnvironment()
	w, _, err := term.GetSize(0)
	switch {
	case err != nil:
		return 65, context
	case w > 65:
		return w - 10, context
	case w > 30:
		return w - 5, context
	case w > 10:
		return w, context
	}
	return 10, context
}
