package main

import (
	"flag"
	"fmt"
	"oomph/pkg/ast"
	"oomph/pkg/lexer"
	"oomph/pkg/parser"
	"os"

	"github.com/kr/pretty"
)

func main() {
	dump := flag.Bool("dump", false, "print every node with its fields")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: go run ./cmd/debug_parser [-dump] '<code>'")
		os.Exit(1)
	}

	input := flag.Arg(0)
	l := lexer.New(input)
	p := parser.New(l)

	program := p.ParseProgram()

	if len(p.Errors()) != 0 {
		fmt.Println("Parser errors:")
		for _, msg := range p.Errors() {
			fmt.Printf("  %s\n", msg)
		}
		if p.Incomplete() {
			fmt.Println("  (input is incomplete)")
		}
		fmt.Println()
	}

	if program == nil || program.Body == nil {
		return
	}

	fmt.Println("Statements:")
	for i, stmt := range ast.Flatten(program.Body) {
		fmt.Printf("  %2d  %-20T %s\n", i+1, stmt, stmt.String())
		if *dump {
			pretty.Println(stmt)
		}
	}
}
