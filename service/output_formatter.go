package service

import (
	"io"

	"github.com/fatih/color"

	"github.com/ludo-technologies/treediff/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	colorMode domain.ColorMode
}

// NewOutputFormatter creates a formatter with automatic color detection
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{colorMode: domain.ColorAuto}
}

// SetColorMode selects colored text output
func (f *OutputFormatterImpl) SetColorMode(mode domain.ColorMode) {
	f.colorMode = mode
}

// WriteDiff writes a diff report
func (f *OutputFormatterImpl) WriteDiff(response *domain.DiffResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return newTextWriter(writer, f.palette(writer)).diff(response)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatLisp:
		return newLispWriter(writer).diff(response)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteDirDiff writes a directory comparison report
func (f *OutputFormatterImpl) WriteDirDiff(response *domain.DirDiffResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return newTextWriter(writer, f.palette(writer)).dirDiff(response)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatLisp:
		return newLispWriter(writer).dirDiff(response)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteParse writes a generated tree. The JSON and YAML forms are tree
// files that can be diffed again.
func (f *OutputFormatterImpl) WriteParse(response *domain.ParseResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return newTextWriter(writer, f.palette(writer)).parse(response)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response.Root)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response.Root)
	case domain.OutputFormatLisp:
		return newLispWriter(writer).parse(response)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// palette holds the colors of text output
type palette struct {
	insert *color.Color
	delete *color.Color
	update *color.Color
	move   *color.Color
	header *color.Color
	faint  *color.Color
}

func (f *OutputFormatterImpl) palette(w io.Writer) palette {
	p := palette{
		insert: color.New(color.FgGreen),
		delete: color.New(color.FgRed),
		update: color.New(color.FgYellow),
		move:   color.New(color.FgCyan),
		header: color.New(color.Bold),
		faint:  color.New(color.Faint),
	}
	enabled := f.colorMode.Enabled(IsInteractiveWriter(w))
	for _, c := range []*color.Color{p.insert, p.delete, p.update, p.move, p.header, p.faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}
