package benchmarks

import (
	"bytes"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	godebug "github.com/kylelemons/godebug/diff"
	mb0 "github.com/mb0/diff"
	gointernal "github.com/rogpeppe/go-internal/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/htmldiff"
)

// Impl renders the difference between x and y as markup with changes wrapped in <ins> and <del>
// elements.
type Impl struct {
	Name string
	Diff func(x, y []byte) []byte
}

var Impls = []Impl{
	{
		Name: "htmldiff",
		Diff: func(x, y []byte) []byte {
			return htmldiff.Markup(x, y)
		},
	},
	{
		Name: "htmldiff-unicode",
		Diff: func(x, y []byte) []byte {
			return htmldiff.Markup(x, y, htmldiff.UnicodeWords())
		},
	},
	{
		Name: "diffmatchpatch",
		Diff: func(x, y []byte) []byte {
			// The output escapes the input and adds inline styles, it's close enough to be
			// comparable.
			dmp := diffmatchpatch.New()
			diffs := dmp.DiffMain(string(x), string(y), false)
			diffs = dmp.DiffCleanupSemantic(diffs)
			return []byte(dmp.DiffPrettyHtml(diffs))
		},
	},
	{
		Name: "udiff",
		Diff: func(x, y []byte) []byte {
			var buf bytes.Buffer
			pos := 0
			for _, e := range udiff.Strings(string(x), string(y)) {
				buf.Write(x[pos:e.Start])
				if e.New != "" {
					wrap(&buf, "ins", e.New)
				}
				if e.End > e.Start {
					wrap(&buf, "del", string(x[e.Start:e.End]))
				}
				pos = e.End
			}
			buf.Write(x[pos:])
			return buf.Bytes()
		},
	},
	{
		Name: "godebug",
		Diff: func(x, y []byte) []byte {
			// Line based.
			chunks := godebug.DiffChunks(strings.SplitAfter(string(x), "\n"), strings.SplitAfter(string(y), "\n"))
			var buf bytes.Buffer
			for _, c := range chunks {
				if len(c.Added) > 0 {
					wrap(&buf, "ins", strings.Join(c.Added, ""))
				}
				if len(c.Deleted) > 0 {
					wrap(&buf, "del", strings.Join(c.Deleted, ""))
				}
				buf.WriteString(strings.Join(c.Equal, ""))
			}
			return buf.Bytes()
		},
	},
	{
		Name: "mb0",
		Diff: func(x, y []byte) []byte {
			// Line based.
			d := mb0lines{
				x: bytes.SplitAfter(x, []byte("\n")),
				y: bytes.SplitAfter(y, []byte("\n")),
			}
			changes := mb0.Diff(len(d.x), len(d.y), d)
			var buf bytes.Buffer
			a := 0
			for _, ch := range changes {
				for ; a < ch.A; a++ {
					buf.Write(d.x[a])
				}
				if ch.Ins > 0 {
					wrap(&buf, "ins", string(bytes.Join(d.y[ch.B:ch.B+ch.Ins], nil)))
				}
				if ch.Del > 0 {
					wrap(&buf, "del", string(bytes.Join(d.x[ch.A:ch.A+ch.Del], nil)))
				}
				a += ch.Del
			}
			for ; a < len(d.x); a++ {
				buf.Write(d.x[a])
			}
			return buf.Bytes()
		},
	},
	{
		Name: "go-internal",
		Diff: func(x, y []byte) []byte {
			// Line based, equal lines outside of the unified diff context are dropped.
			var buf bytes.Buffer
			for _, line := range bytes.SplitAfter(gointernal.Diff("x", x, "y", y), []byte("\n")) {
				switch {
				case bytes.HasPrefix(line, []byte("+++ ")), bytes.HasPrefix(line, []byte("--- ")), bytes.HasPrefix(line, []byte("@@")), bytes.HasPrefix(line, []byte(`\`)):
					// Header.
				case bytes.HasPrefix(line, []byte("+")):
					wrap(&buf, "ins", string(line[1:]))
				case bytes.HasPrefix(line, []byte("-")):
					wrap(&buf, "del", string(line[1:]))
				case len(line) > 0:
					buf.Write(line[1:])
				}
			}
			return buf.Bytes()
		},
	},
}

func wrap(buf *bytes.Buffer, tag, text string) {
	buf.WriteString("<" + tag + ">")
	buf.WriteString(text)
	buf.WriteString("</" + tag + ">")
}

type mb0lines struct {
	x [][]byte
	y [][]byte
}

func (d mb0lines) Equal(i, j int) bool { return bytes.Equal(d.x[i], d.y[j]) }
