// Command bdoc converts annotated documents between the formats the bdoc
// registry knows about, prints document summaries, and renders viewer pages.
package main

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/zoobzio/bdoc"
)

const version = "0.1.0"

// CLI defines the command-line interface for bdoc.
var CLI struct {
	Convert ConvertCmd       `cmd:"" help:"Convert a document between formats"`
	Info    InfoCmd          `cmd:"" help:"Print a summary of a document"`
	View    ViewCmd          `cmd:"" help:"Render a document as an HTML annotation viewer page"`
	Version kong.VersionFlag `help:"Print version information"`
}

// ConvertCmd loads a document and saves it in another format.
type ConvertCmd struct {
	In         string `arg:"" help:"Input path or URL"`
	Out        string `arg:"" help:"Output path"`
	From       string `help:"Input format token (default: resolve from extension)"`
	To         string `help:"Output format token (default: resolve from extension)"`
	Gzip       bool   `help:"Wrap the output in gzip"`
	OffsetType string `name:"offset-type" help:"Offset convention to write: p (code points) or j (UTF-16 units)" enum:",p,j" default:""`
}

func (c *ConvertCmd) Run() error {
	ctx := context.Background()
	var loadOpts []bdoc.Option
	if c.From != "" {
		loadOpts = append(loadOpts, bdoc.WithFormat(c.From))
	}
	doc, err := bdoc.Load(ctx, c.In, loadOpts...)
	if err != nil {
		return err
	}
	var saveOpts []bdoc.Option
	if c.To != "" {
		saveOpts = append(saveOpts, bdoc.WithFormat(c.To))
	}
	if c.Gzip {
		saveOpts = append(saveOpts, bdoc.WithGZip())
	}
	if c.OffsetType != "" {
		saveOpts = append(saveOpts, bdoc.WithOffsetType(bdoc.OffsetType(c.OffsetType)))
	}
	return bdoc.Save(ctx, doc, c.Out, saveOpts...)
}

// InfoCmd prints a short summary of a document.
type InfoCmd struct {
	In   string `arg:"" help:"Input path or URL"`
	From string `help:"Input format token (default: resolve from extension)"`
}

func (c *InfoCmd) Run() error {
	ctx := context.Background()
	var loadOpts []bdoc.Option
	if c.From != "" {
		loadOpts = append(loadOpts, bdoc.WithFormat(c.From))
	}
	doc, err := bdoc.Load(ctx, c.In, loadOpts...)
	if err != nil {
		return err
	}
	fmt.Printf("text: %d characters (offset type %s)\n", len([]rune(doc.Text())), doc.OffsetType())
	fmt.Printf("document features: %d\n", len(doc.Features()))
	names := doc.SetNames()
	fmt.Printf("annotation sets: %d\n", len(names))
	for _, name := range names {
		set := doc.AnnSet(name)
		display := name
		if display == "" {
			display = "[default]"
		}
		fmt.Printf("  %s: %d annotations (next id %d)\n", display, set.Len(), set.NextID())
	}
	return nil
}

// ViewCmd renders a document as a self-contained HTML viewer page.
type ViewCmd struct {
	In       string `arg:"" help:"Input path or URL"`
	Out      string `arg:"" help:"Output HTML path"`
	From     string `help:"Input format token (default: resolve from extension)"`
	Notebook bool   `help:"Emit an embeddable fragment instead of a full page"`
	Offline  bool   `help:"Inline the viewer script instead of referencing a CDN"`
}

func (c *ViewCmd) Run() error {
	ctx := context.Background()
	var loadOpts []bdoc.Option
	if c.From != "" {
		loadOpts = append(loadOpts, bdoc.WithFormat(c.From))
	}
	doc, err := bdoc.Load(ctx, c.In, loadOpts...)
	if err != nil {
		return err
	}
	saveOpts := []bdoc.Option{bdoc.WithFormat(bdoc.FormatHTMLViewer)}
	if c.Notebook {
		saveOpts = append(saveOpts, bdoc.WithNotebook())
	}
	if c.Offline {
		saveOpts = append(saveOpts, bdoc.WithOffline())
	}
	return bdoc.Save(ctx, doc, c.Out, saveOpts...)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("bdoc"),
		kong.Description("Annotated document conversion and inspection."),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(ctx.Run())
}
