package eval

import (
	"io"
	"log/slog"
	"oomph/pkg/ast"
	"oomph/pkg/lexer"
	"oomph/pkg/parser"
	"os"
	"strings"
)

// DefaultMaxCallDepth bounds nested calls unless overridden.
const DefaultMaxCallDepth = 100000

// Interpreter evaluates syntax trees. It owns the output sink, the input
// source and the call depth counter; it is not safe for concurrent use.
type Interpreter struct {
	out      io.Writer
	in       InputSource
	logger   *slog.Logger
	depth    int
	maxDepth int
}

type Option func(*Interpreter)

// WithOutput sets the sink `print` writes to.
func WithOutput(w io.Writer) Option {
	return func(it *Interpreter) { it.out = w }
}

// WithInput sets the source `input` reads from.
func WithInput(in InputSource) Option {
	return func(it *Interpreter) { it.in = in }
}

func WithLogger(logger *slog.Logger) Option {
	return func(it *Interpreter) { it.logger = logger }
}

// WithMaxCallDepth limits nested calls; 0 disables the limit.
func WithMaxCallDepth(n int) Option {
	return func(it *Interpreter) { it.maxDepth = n }
}

func New(opts ...Option) *Interpreter {
	it := &Interpreter{
		out:      os.Stdout,
		in:       NewReaderInput(os.Stdin),
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Eval evaluates node in env and returns its value together with the
// environment subsequent evaluations should use. A failure aborts the whole
// evaluation; bindings made before it stay in env.
func (it *Interpreter) Eval(node ast.Node, env *Environment) (Object, *Environment, error) {
	if env == nil {
		env = NewEnvironment()
	}
	it.depth = 0

	result, newEnv, err := it.eval(node, env)
	if err != nil {
		if sig, ok := err.(*controlSignal); ok {
			err = strayControl(sig)
		}
		it.logger.Debug("Evaluation failed", slog.String("error", err.Error()))
		return nil, env, err
	}
	return result, newEnv, nil
}

// ParseError reports syntax errors in source text.
type ParseError struct {
	Messages []string
	// Incomplete is set when more input could complete the program.
	Incomplete bool
}

func (pe *ParseError) Error() string {
	return "syntax error: " + strings.Join(pe.Messages, "; ")
}

// Parse turns source text into a program.
func Parse(source string) (*ast.Program, error) {
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, &ParseError{Messages: errs, Incomplete: p.Incomplete()}
	}
	return program, nil
}

// EvalSource parses and evaluates source text.
func (it *Interpreter) EvalSource(source string, env *Environment) (Object, *Environment, error) {
	program, err := Parse(source)
	if err != nil {
		return nil, env, err
	}
	return it.Eval(program, env)
}
