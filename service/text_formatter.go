package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/ludo-technologies/treediff/domain"
)

// textWriter renders human readable reports. The first write error sticks
// and is returned by the entry points.
type textWriter struct {
	w   io.Writer
	p   palette
	err error
}

func newTextWriter(w io.Writer, p palette) *textWriter {
	return &textWriter{w: w, p: p}
}

func (t *textWriter) printf(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) diff(resp *domain.DiffResponse) error {
	t.printf("%s\n", t.p.header.Sprintf("%s -> %s", resp.SrcPath, resp.DstPath))
	t.printf("%s\n\n", t.p.faint.Sprintf("generator %s, pipeline %s (%s)",
		resp.Generator, resp.Pipeline, strings.Join(resp.Stages, ", ")))

	if len(resp.Actions) == 0 {
		t.printf("No differences.\n\n")
	}
	for _, a := range resp.Actions {
		t.action(a, "")
	}
	if len(resp.Actions) > 0 {
		t.printf("\n")
	}

	t.printf("%s\n", diffSummaryTable(resp.Summary))
	t.printf("Nodes: %s src, %s dst, %s mapped\n",
		humanize.Comma(int64(resp.Summary.SrcNodes)),
		humanize.Comma(int64(resp.Summary.DstNodes)),
		humanize.Comma(int64(resp.Summary.Mapped)))
	if resp.Verified {
		t.printf("Script verified: replaying it on the source rebuilds the destination.\n")
	}
	return t.err
}

func (t *textWriter) action(a domain.ActionInfo, prefix string) {
	kind := t.kindColor(a.Kind).Sprintf("%-12s", a.Kind)
	switch {
	case a.Kind == "update-node":
		t.printf("%s%s %s  %s\n", prefix, kind, nodeText(a.Node), t.labelDiff(a.Node.Label, a.Value))
	case a.Position != nil:
		parent := "root"
		if a.Parent != nil {
			parent = nodeText(*a.Parent)
		}
		t.printf("%s%s %s to %s at %d\n", prefix, kind, nodeText(a.Node), parent, *a.Position)
	default:
		t.printf("%s%s %s\n", prefix, kind, nodeText(a.Node))
	}
}

func (t *textWriter) kindColor(kind string) *color.Color {
	switch kind {
	case "insert-node", "insert-tree":
		return t.p.insert
	case "delete-node", "delete-tree":
		return t.p.delete
	case "update-node":
		return t.p.update
	default:
		return t.p.move
	}
}

// labelDiff renders the character level difference of two labels as
// [-removed-]{+added+} runs
func (t *textWriter) labelDiff(from, to string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, false))

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString(t.p.delete.Sprintf("[-%s-]", d.Text))
		case diffmatchpatch.DiffInsert:
			sb.WriteString(t.p.insert.Sprintf("{+%s+}", d.Text))
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}

func nodeText(n domain.NodeRef) string {
	var sb strings.Builder
	sb.WriteString(n.Type)
	if n.Label != "" {
		sb.WriteString(": ")
		sb.WriteString(n.Label)
	}
	fmt.Fprintf(&sb, " [%d,%d]", n.Pos, n.End)
	if n.Line > 0 {
		fmt.Fprintf(&sb, " line %d", n.Line)
	}
	return sb.String()
}

func diffSummaryTable(s domain.DiffSummary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Action", "Count"})
	tw.AppendRow(table.Row{"insert-node", s.Inserts})
	tw.AppendRow(table.Row{"delete-node", s.Deletes})
	tw.AppendRow(table.Row{"update-node", s.Updates})
	tw.AppendRow(table.Row{"move-tree", s.Moves})
	if s.InsertTrees > 0 || s.DeleteTrees > 0 {
		tw.AppendRow(table.Row{"insert-tree", s.InsertTrees})
		tw.AppendRow(table.Row{"delete-tree", s.DeleteTrees})
	}
	tw.AppendFooter(table.Row{"Total", s.Total})
	return tw.Render()
}

func (t *textWriter) dirDiff(resp *domain.DirDiffResponse) error {
	t.printf("%s\n\n", t.p.header.Sprintf("%s -> %s", resp.SrcDir, resp.DstDir))

	for _, f := range resp.Files {
		switch f.Status {
		case domain.FileAdded:
			t.printf("%s %s\n", t.p.insert.Sprint("A"), f.Path)
		case domain.FileDeleted:
			t.printf("%s %s\n", t.p.delete.Sprint("D"), f.Path)
		case domain.FileModified:
			m := t.p.update.Sprint("M")
			switch {
			case f.Skipped:
				t.printf("%s %s %s\n", m, f.Path, t.p.faint.Sprint("(no tree generator)"))
			case f.Error != "":
				t.printf("%s %s %s\n", m, f.Path, t.p.delete.Sprintf("error: %s", f.Error))
			case f.Diff != nil:
				t.printf("%s %s (%s)\n", m, f.Path, pluralize(f.Diff.Summary.Total, "action"))
				for _, a := range f.Diff.Actions {
					t.action(a, "    ")
				}
			}
		}
	}
	if len(resp.Files) > 0 {
		t.printf("\n")
	}

	s := resp.Summary
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Files", "Count"})
	tw.AppendRow(table.Row{"added", s.Added})
	tw.AppendRow(table.Row{"deleted", s.Deleted})
	tw.AppendRow(table.Row{"modified", s.Modified})
	tw.AppendRow(table.Row{"unchanged", s.Unchanged})
	tw.AppendRow(table.Row{"diffed", s.Diffed})
	tw.AppendRow(table.Row{"skipped", s.Skipped})
	tw.AppendRow(table.Row{"failed", s.Failed})
	tw.AppendFooter(table.Row{"Actions", humanize.Comma(int64(s.Actions))})
	t.printf("%s\n", tw.Render())
	return t.err
}

func (t *textWriter) parse(resp *domain.ParseResponse) error {
	t.printf("%s\n", t.p.header.Sprint(resp.Path))
	t.printf("%s\n\n", t.p.faint.Sprintf("generator %s, %s nodes, height %d, %s",
		resp.Generator, humanize.Comma(int64(resp.Nodes)), resp.Height, pluralize(resp.Types, "type")))
	t.treeNode(resp.Root, 0)
	return t.err
}

func (t *textWriter) treeNode(n *domain.TreeNode, level int) {
	label := ""
	if n.Label != "" {
		label = ": " + n.Label
	}
	t.printf("%s%s%s %s\n", indent(level), n.Type, label,
		t.p.faint.Sprintf("[%d,%d]", n.Pos, n.Pos+n.Length))
	for _, c := range n.Children {
		t.treeNode(c, level+1)
	}
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}
