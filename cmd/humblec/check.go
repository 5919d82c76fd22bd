package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/humblelang/humble/humblegen/ir"
	"github.com/humblelang/humble/humblegen/resolve"
	"github.com/humblelang/humble/humblegen/syntax"
)

type CheckCmd struct {
	Files []string `arg:"" help:"Schema files to validate." type:"existingfile"`
}

func (c *CheckCmd) Run() error {
	failed := false
	for _, file := range c.Files {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		if !check(file, src) {
			failed = true
		}
	}
	if failed {
		return errors.New("check failed")
	}
	return nil
}

// check runs parsing and resolution without code generation.
func check(file string, src []byte) bool {
	tree, err := syntax.Parse(file, string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	_, diags := resolve.Resolve(ir.Build(tree))
	printDiagnostics(diags)
	return !diags.HasErrors()
}
