package btree

import (
	"math/rand"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/npillmayer/gaprope/chunk"
)

type chunkMetric = Metric[chunk.ChunkSlice, chunk.Summary]

// unitMetrics returns the metrics to iterate text with. Byte units would
// cut multi-byte runes, so bytes are only used for ASCII text.
func unitMetrics(text string) map[string]chunkMetric {
	metrics := map[string]chunkMetric{
		"chars": chunk.CharMetric{},
		"lines": chunk.LineMetric{},
	}
	if utf8.RuneCountInString(text) == len(text) {
		metrics["bytes"] = chunk.ByteMetric{}
	}
	return metrics
}

type unitText struct {
	text    string
	measure uint64
}

func collectUnits(t *testing.T, tree *chunkTree, m chunkMetric, backward bool) []unitText {
	t.Helper()
	it, err := tree.Units(m)
	if err != nil {
		t.Fatalf("Units failed: %v", err)
	}
	seq := it.All()
	if backward {
		seq = it.Backward()
	}
	var units []unitText
	for u := range seq {
		units = append(units, unitText{text: sliceText(u), measure: m.Measure(u.Summary())})
	}
	if backward {
		slices.Reverse(units)
	}
	return units
}

func unitTexts(units []unitText) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.text
	}
	return out
}

func checkUnits(t *testing.T, name string, tree *chunkTree, text string, m chunkMetric, units []unitText) {
	t.Helper()
	if got := strings.Join(unitTexts(units), ""); got != text {
		t.Fatalf("%s: units concatenate to %q, want %q", name, got, text)
	}
	var sum uint64
	for i, u := range units {
		if i < len(units)-1 && u.measure != 1 {
			t.Fatalf("%s: unit %d (%q) measures %d", name, i, u.text, u.measure)
		}
		sum += u.measure
	}
	if total := m.Measure(tree.Summary()); sum != total {
		t.Fatalf("%s: units measure %d, tree measures %d", name, sum, total)
	}
}

func TestUnitsCoverContent(t *testing.T) {
	texts := []string{
		"",
		"x",
		"\n",
		"a\nb",
		"a\nb\n",
		"\n\n\n",
		sampleText,
		"no breaks at all in this rather long line of text, none at all, really none",
	}
	r := rand.New(rand.NewSource(99))
	for _, text := range texts {
		for _, degree := range []int{2, 3, 12} {
			tree := chunkTreeOf(t, degree, randomPieces(r, text)...)
			for name, m := range unitMetrics(text) {
				forward := collectUnits(t, tree, m, false)
				checkUnits(t, name, tree, text, m, forward)
				backward := collectUnits(t, tree, m, true)
				if !slices.Equal(forward, backward) {
					t.Fatalf("%s over %q: backward units %q differ from forward units %q", name, text, backward, forward)
				}
			}
		}
	}
}

func TestUnitsLines(t *testing.T) {
	tree := chunkTreeOf(t, 2, "one\ntw", "o\nthree\nf", "our", "\nfive")
	got := unitTexts(collectUnits(t, tree, chunk.LineMetric{}, false))
	want := []string{"one\n", "two\n", "three\n", "four\n", "five"}
	if !slices.Equal(got, want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	tree = chunkTreeOf(t, 2, "one\ntw", "o\n")
	got = unitTexts(collectUnits(t, tree, chunk.LineMetric{}, true))
	want = []string{"one\n", "two\n"}
	if !slices.Equal(got, want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
}

func TestUnitsAbsorbZeroMeasureSubtrees(t *testing.T) {
	pieces := []string{"a\n"}
	for range 16 {
		pieces = append(pieces, "bbbb")
	}
	pieces = append(pieces, "c\nd")
	tree := chunkTreeOf(t, 2, pieces...)
	it, err := tree.Units(chunk.LineMetric{})
	if err != nil {
		t.Fatalf("Units failed: %v", err)
	}
	if it.Remaining() != 3 {
		t.Fatalf("expected 3 units, got %d", it.Remaining())
	}
	if _, ok := it.Next(); !ok {
		t.Fatalf("expected first line")
	}
	second, ok := it.Next()
	if !ok {
		t.Fatalf("expected second line")
	}
	if want := strings.Repeat("bbbb", 16) + "c\n"; sliceText(second) != want {
		t.Fatalf("second line = %q, want %q", sliceText(second), want)
	}
	sawInner := false
	for _, n := range second.internals {
		if !n.isLeaf() {
			sawInner = true
		}
	}
	if !sawInner {
		t.Fatalf("expected zero-line subtrees to be taken whole")
	}
	last, ok := it.Next()
	if !ok || sliceText(last) != "d" || last.Summary().Lines != 0 {
		t.Fatalf("expected trailing partial line \"d\"")
	}
	for range 2 {
		if _, ok := it.Next(); ok {
			t.Fatalf("expected exhaustion")
		}
	}
}

func TestUnitsMixedEndsNeverOverlap(t *testing.T) {
	r := rand.New(rand.NewSource(31337))
	text := strings.Repeat(sampleText+"\n", 3)
	tree := chunkTreeOf(t, 3, randomPieces(r, text)...)
	for name, m := range unitMetrics(text) {
		want := unitTexts(collectUnits(t, tree, m, false))
		it, err := tree.Units(m)
		if err != nil {
			t.Fatalf("Units failed: %v", err)
		}
		var front, back []string
		for {
			var u TreeSlice[chunk.ChunkSlice, chunk.Summary]
			var ok bool
			if r.Intn(2) == 0 {
				if u, ok = it.Next(); ok {
					front = append(front, sliceText(u))
				}
			} else {
				if u, ok = it.Prev(); ok {
					back = append(back, sliceText(u))
				}
			}
			if !ok {
				break
			}
		}
		slices.Reverse(back)
		if got := append(front, back...); !slices.Equal(got, want) {
			t.Fatalf("%s: mixed iteration yielded %d units, want %d", name, len(got), len(want))
		}
	}
}

func TestUnitsOverSlice(t *testing.T) {
	tree := chunkTreeOf(t, 2, "one\ntw", "o\nthree\nf", "our", "\nfive")
	s, err := tree.Slice(chunk.ByteMetric{}, 5, 20)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	it, err := s.Units(chunk.LineMetric{})
	if err != nil {
		t.Fatalf("Units failed: %v", err)
	}
	var got []string
	for u := range it.All() {
		got = append(got, sliceText(u))
	}
	want := []string{"wo\n", "three\n", "four\n", "f"}
	if !slices.Equal(got, want) {
		t.Fatalf("units = %q, want %q", got, want)
	}
}

func TestUnitsByteMetricPanicsInsideRune(t *testing.T) {
	tree := chunkTreeOf(t, 2, "aü", "b")
	units, err := tree.Units(chunkMetric(chunk.ByteMetric{}))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := units.Next(); !ok {
		t.Fatalf("expected first byte unit")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for a byte unit ending inside a rune")
		}
	}()
	units.Next()
}
