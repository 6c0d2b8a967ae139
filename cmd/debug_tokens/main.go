package main

import (
	"fmt"
	"oomph/pkg/lexer"
	"oomph/pkg/token"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/debug_tokens '<code>'")
		os.Exit(1)
	}

	input := os.Args[1]
	l := lexer.New(input)

	fmt.Printf("Input: %s\n\n", input)
	fmt.Println("Tokens:")
	fmt.Println("-------")

	for {
		tok := l.NextToken()
		literal := strings.ReplaceAll(tok.Literal, "\n", `\n`)
		fmt.Printf("%-15s %-20s (line %d, col %d)\n", tok.Type, fmt.Sprintf("'%s'", literal), tok.Line, tok.Column)

		if tok.Type == token.EOF {
			break
		}
	}
}
