package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/humblelang/humble/humblegen"
	"github.com/humblelang/humble/humblegen/diag"
	"github.com/humblelang/humble/humblegen/sink"
)

type GenCmd struct {
	Files []string `arg:"" help:"Schema files to compile." type:"existingfile"`

	Out                   string `help:"Output directory for generated files." short:"o" default:"."`
	Config                string `help:"Path to a humble.yaml config file." short:"c"`
	Package               string `help:"Go package name for generated files." short:"p"`
	RuntimeImport         string `help:"Import path of the runtime library."`
	DisallowUnknownFields bool   `help:"Generated decoders reject unknown JSON fields."`
	NoFormat              bool   `help:"Skip formatting of generated source."`
}

func (c *GenCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	applyFlags(cfg, c.Package, c.RuntimeImport, c.DisallowUnknownFields, c.NoFormat)
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := sink.NewFilesystemSink(c.Out)
	failed := false
	for _, file := range c.Files {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		res := humblegen.Compile(file, src, cfg)
		printDiagnostics(res.Diagnostics)
		if !res.Ok() {
			failed = true
			continue
		}

		for _, f := range res.Files {
			if err := out.WriteFile(f.Path, f.Content); err != nil {
				return fmt.Errorf("write %s: %w", f.Path, err)
			}
		}
	}

	if failed {
		return errors.New("compilation failed")
	}
	return nil
}

// applyFlags overlays non-zero CLI flags on a config loaded from file.
func applyFlags(cfg *humblegen.Config, pkg, runtimeImport string, disallowUnknown, noFormat bool) {
	if pkg != "" {
		cfg.Package = pkg
	}
	if runtimeImport != "" {
		cfg.RuntimeImport = runtimeImport
	}
	if disallowUnknown {
		cfg.DisallowUnknownFields = true
	}
	if noFormat {
		cfg.NoFormat = true
	}
}

func loadConfig(path string) (*humblegen.Config, error) {
	if path == "" {
		if _, err := os.Stat("humble.yaml"); err == nil {
			path = "humble.yaml"
		} else {
			return &humblegen.Config{Package: "schema"}, nil
		}
	}
	return humblegen.LoadConfig(path)
}

func printDiagnostics(diags diag.List) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.Error())
		for _, rel := range d.Related {
			fmt.Fprintf(os.Stderr, "  %s: note: %s\n", rel.Pos, rel.Note)
		}
	}
}
