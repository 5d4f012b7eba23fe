package service

import (
	"fmt"
	"io"

	"github.com/ludo-technologies/treediff/domain"
)

// lispWriter renders reports as s-expressions
type lispWriter struct {
	w   io.Writer
	err error
}

func newLispWriter(w io.Writer) *lispWriter {
	return &lispWriter{w: w}
}

func (l *lispWriter) printf(format string, args ...interface{}) {
	if l.err != nil {
		return
	}
	_, l.err = fmt.Fprintf(l.w, format, args...)
}

func (l *lispWriter) diff(resp *domain.DiffResponse) error {
	l.printf("((src %s) (dst %s) (generator %s) (pipeline %s)\n",
		lispAtom(resp.SrcPath), lispAtom(resp.DstPath), lispAtom(resp.Generator), lispAtom(resp.Pipeline))
	l.actions(resp.Actions, 1)
	l.printf(")\n")
	return l.err
}

func (l *lispWriter) actions(actions []domain.ActionInfo, level int) {
	l.printf("%s(actions", indent(level))
	for _, a := range actions {
		l.printf("\n%s(%s %s", indent(level+1), a.Kind, lispNode(a.Node))
		if a.Position != nil {
			parent := "root"
			if a.Parent != nil {
				parent = lispNode(*a.Parent)
			}
			l.printf(" (parent %s) (at %d)", parent, *a.Position)
		}
		if a.Kind == "update-node" {
			l.printf(" (value %s)", lispAtom(a.Value))
		}
		l.printf(")")
	}
	l.printf(")")
}

func lispNode(n domain.NodeRef) string {
	return fmt.Sprintf("(%s %s (%d %d))", lispAtom(n.Type), lispAtom(n.Label), n.Pos, n.End)
}

func (l *lispWriter) dirDiff(resp *domain.DirDiffResponse) error {
	l.printf("((src %s) (dst %s)\n", lispAtom(resp.SrcDir), lispAtom(resp.DstDir))
	l.printf("%s(files", indent(1))
	for _, f := range resp.Files {
		l.printf("\n%s(%s %s", indent(2), f.Status, lispAtom(f.Path))
		switch {
		case f.Skipped:
			l.printf(" (skipped)")
		case f.Error != "":
			l.printf(" (error %s)", lispAtom(f.Error))
		case f.Diff != nil:
			l.printf("\n")
			l.actions(f.Diff.Actions, 3)
		}
		l.printf(")")
	}
	l.printf("))\n")
	return l.err
}

func (l *lispWriter) parse(resp *domain.ParseResponse) error {
	l.tree(resp.Root, 0)
	l.printf("\n")
	return l.err
}

// tree writes (type label (pos length) children...)
func (l *lispWriter) tree(n *domain.TreeNode, level int) {
	if level > 0 {
		l.printf("\n")
	}
	l.printf("%s(%s %s (%d %d)", indent(level), lispAtom(n.Type), lispAtom(n.Label), n.Pos, n.Length)
	for _, c := range n.Children {
		l.tree(c, level+1)
	}
	l.printf(")")
}
