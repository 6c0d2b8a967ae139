package eval

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// InputSource supplies the integers read by `input`.
type InputSource interface {
	ReadInt() (int64, error)
}

// ReaderInput reads whitespace separated integers from a reader.
type ReaderInput struct {
	scanner *bufio.Scanner
}

func NewReaderInput(r io.Reader) *ReaderInput {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return &ReaderInput{scanner: s}
}

func (ri *ReaderInput) ReadInt() (int64, error) {
	if !ri.scanner.Scan() {
		if err := ri.scanner.Err(); err != nil {
			return 0, fmt.Errorf("reading input: %w", err)
		}
		return 0, io.EOF
	}
	word := ri.scanner.Text()
	n, err := strconv.ParseInt(word, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("input %q is not an integer: %w", word, err)
	}
	return n, nil
}

// QueueInput hands out a fixed list of integers, then reports io.EOF.
type QueueInput struct {
	values []int64
}

func NewQueueInput(values ...int64) *QueueInput {
	return &QueueInput{values: values}
}

func (q *QueueInput) ReadInt() (int64, error) {
	if len(q.values) == 0 {
		return 0, io.EOF
	}
	n := q.values[0]
	q.values = q.values[1:]
	return n, nil
}

// InputFunc adapts a function to InputSource.
type InputFunc func() (int64, error)

func (f InputFunc) ReadInt() (int64, error) { return f() }

var errNoInput = errors.New("no input source")
