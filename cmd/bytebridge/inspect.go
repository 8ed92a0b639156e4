package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/bytebridge/internal/layout"
	"github.com/wippyai/bytebridge/schema"
)

func (a *app) runInspect(args []string) error {
	fs := a.flagSet("inspect", "<schema.yaml>...")
	typeName := fs.StringP("type", "t", "", "show only this type")
	interactive := fs.BoolP("interactive", "i", false, "pick a type and decode pasted hex in a TUI")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := loadSchemas(fs.Args())
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if *interactive {
		if !a.tty {
			return usageError("inspect -i needs a terminal")
		}
		return runInteractive(s, strings.Join(fs.Args(), ", "))
	}

	defs := s.Types
	if *typeName != "" {
		td := s.Lookup(*typeName)
		if td == nil {
			return usageError("type %q is not declared", *typeName)
		}
		defs = []*schema.TypeDef{td}
	}

	fp, err := s.Fingerprint()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "package %s\nfingerprint %s\n", s.Package, fp)
	widths := layout.NewCalculator(s)
	for _, td := range defs {
		fmt.Fprintln(a.stdout)
		writeTypeDef(a.stdout, widths, td)
	}
	return nil
}

// writeTypeDef prints one declaration with the minimum encoded width of
// each part. Fields are listed in wire order.
func writeTypeDef(w io.Writer, widths *layout.Calculator, td *schema.TypeDef) {
	fmt.Fprintf(w, "%s %s (min %d bytes)\n", td.Kind, td.Name, widths.MinWidth(schema.Named(td.Name)))
	if td.Docs != "" {
		fmt.Fprintf(w, "  # %s\n", firstLine(td.Docs))
	}
	if td.Kind == schema.DefUnion {
		for i, v := range td.Variants {
			fmt.Fprintf(w, "  %d %s\n", i, v.Name)
			writeFields(w, widths, v.Fields, "      ")
		}
		return
	}
	writeFields(w, widths, td.Fields, "  ")
}

func writeFields(w io.Writer, widths *layout.Calculator, fields []*schema.Field, indent string) {
	for _, f := range fields {
		fmt.Fprintf(w, "%s%s: %s", indent, f.Name, f.Type)
		if c := f.Constraints.String(); c != "" {
			fmt.Fprintf(w, " [%s]", c)
		}
		if f.Default != nil {
			fmt.Fprintf(w, " = %s", f.Default)
		}
		fmt.Fprintf(w, " (min %d)\n", widths.MinWidth(f.Type))
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
