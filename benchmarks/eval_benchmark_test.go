package benchmarks

import (
	"io"
	"oomph/pkg/ast"
	"oomph/pkg/eval"
	"testing"
)

var result eval.Object

func parse(b *testing.B, input string) *ast.Program {
	b.Helper()
	program, err := eval.Parse(input)
	if err != nil {
		b.Fatal(err)
	}
	return program
}

func run(b *testing.B, input string) {
	program := parse(b, input)
	it := eval.New(eval.WithOutput(io.Discard))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		obj, _, err := it.Eval(program, eval.NewEnvironment())
		if err != nil {
			b.Fatal(err)
		}
		result = obj
	}
}

func BenchmarkTreeWalkAddition(b *testing.B) {
	run(b, `
5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5
`)
}

func BenchmarkTreeWalkComparison(b *testing.B) {
	run(b, "1 < 2")
}

func BenchmarkTreeWalkLoop(b *testing.B) {
	run(b, `
i := 0
sum := 0
while i < 1000 do {
  sum := sum + i
  i := i + 1
}
sum
`)
}

func BenchmarkTreeWalkFibonacci(b *testing.B) {
	run(b, `
def fib(n): { if n < 2 then n else fib(n - 1) + fib(n - 2) }
fib(15)
`)
}

func BenchmarkMethodDispatch(b *testing.B) {
	run(b, `
class Counter {
  private n := 0
  def inc(): { this.n := this.n + 1 }
  def get(): { this.n }
}
class Loud(Counter) {
  def inc(): { super.inc(); super.inc() }
}
c := Loud()
i := 0
while i < 200 do { c.inc(); i := i + 1 }
c.get()
`)
}

func BenchmarkDictionaryUpdates(b *testing.B) {
	run(b, `
d := {}
i := 0
while i < 500 do { d[(i, i)] := [i]; i := i + 1 }
d[(499, 499)][0]
`)
}

// Go native loop for comparison
func BenchmarkGoLoop(b *testing.B) {
	var sum int64
	for i := 0; i < b.N; i++ {
		sum = 0
		for j := int64(0); j < 1000; j++ {
			sum += j
		}
	}
	_ = sum
}
