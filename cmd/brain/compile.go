package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"
)

// patternList collects repeated or comma-separated -only values.
type patternList []string

func (p *patternList) String() string { return strings.Join(*p, ",") }

func (p *patternList) Set(v string) error {
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			*p = append(*p, s)
		}
	}
	return nil
}

func (c *cli) runCompile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	format := fs.String("format", c.cfg.Node.Format, "render format")
	out := fs.String("out", c.cfg.Node.OutputDir, "output directory")
	var only patternList
	fs.Var(&only, "only", "glob of agent IDs to compile (repeatable, comma-separated)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.cfg.Node.OutputDir = *out

	a, err := c.newApp(ctx, appOptions{telemetry: true})
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.builder.Build(ctx, *format, only...)
	if err != nil {
		return err
	}
	for _, f := range res.Files {
		if f.Changed {
			fmt.Fprintf(c.stdout, "wrote %s\n", f.Path)
		}
	}
	fmt.Fprintf(c.stderr, "compiled %d documents, %d changed (build %s)\n", len(res.Documents), res.Changed(), res.BuildID)
	return nil
}

func (c *cli) runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	format := fs.String("format", c.cfg.Node.Format, "render format")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: brain show [-format f] <id>")
	}

	a, err := c.newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.compiler.Compile(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	data, _, err := a.render.Render(ctx, doc, *format)
	if err != nil {
		return err
	}
	_, err = c.stdout.Write(data)
	return err
}

func (c *cli) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := c.newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	descWidth := c.columnBudget(60)
	w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tARCHETYPE\tINCLUDES\tSECTIONS\tDESCRIPTION")
	for _, d := range a.agents.List() {
		desc, _ := d.MetaValue("description")
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			d.ID, d.Archetype, len(d.Includes), len(d.Sections), truncate(desc, descWidth))
	}
	return w.Flush()
}

func (c *cli) runListIncludes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list:includes", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := c.newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)

	if fs.NArg() == 1 {
		doc, err := a.compiler.Compile(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w, "#\tBUNDLE\tGROUP")
		for i, name := range doc.Includes {
			group := "?"
			if b, ok := a.bundles.Bundle(name); ok {
				group = string(b.Group)
			}
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, name, group)
		}
		return w.Flush()
	}

	descWidth := c.columnBudget(80)
	_, _ = fmt.Fprintln(w, "NAME\tGROUP\tSECTIONS\tSOURCE\tDESCRIPTION")
	for _, b := range a.bundles.List() {
		source := "builtin"
		if !b.Builtin {
			source = "custom"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			b.Name, b.Group, len(b.Sections), source, truncate(b.Description, descWidth))
	}
	return w.Flush()
}

// columnBudget returns how many characters the trailing description column
// may use: the terminal width minus reserved, or 0 (unlimited) when stdout
// is not a terminal.
func (c *cli) columnBudget(reserved int) int {
	f, ok := c.stdout.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width-reserved < 20 {
		return 20
	}
	return width - reserved
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

