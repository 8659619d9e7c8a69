package wavefront

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/trackmaker/pkg/diag"
	"github.com/Faultbox/trackmaker/pkg/encoding"
)

// maxLineSize bounds a single source line.
const maxLineSize = 1 << 20

// ParseOptions configures a parse.
type ParseOptions struct {
	// Source names the input in errors and diagnostics.
	Source string
	// Sink receives ignored-directive diagnostics. Nil discards them.
	Sink diag.Sink
}

func (o ParseOptions) sink() diag.Sink {
	return diag.OrDiscard(o.Sink)
}

func (o ParseOptions) source() string {
	if o.Source == "" {
		return "<stream>"
	}
	return o.Source
}

// eachLine calls fn with the 1-based line number and the space-separated
// tokens of every non-blank line. Comment lines are skipped. Lines are
// converted to UTF-8 first.
func eachLine(r io.Reader, source string, fn func(lineNum int, tokens []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		tokens := Tokenize(encoding.ToUTF8(scanner.Bytes()))
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}
		if err := fn(lineNum, tokens); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s after line %d: %w", source, lineNum, err)
	}
	return nil
}

// Tokenize splits a line on single spaces, dropping empty tokens and any
// trailing carriage return.
func Tokenize(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	return strings.FieldsFunc(line, func(r rune) bool { return r == ' ' })
}

// parseFloats parses exactly n leading components after the directive.
// Extra trailing components (e.g. the optional w of "v") are ignored.
func parseFloats(tokens []string, n int) ([3]float32, error) {
	var out [3]float32
	if len(tokens)-1 < n {
		return out, fmt.Errorf("expected %d components; got %d", n, len(tokens)-1)
	}
	for i := 0; i < n; i++ {
		v, err := ParseFloat32(tokens[i+1])
		if err != nil {
			return out, fmt.Errorf("component %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// ParseFloat32 parses a finite float32. NaN and infinities are rejected so
// they never reach vertex data or bounds.
func ParseFloat32(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	f := float32(v)
	if math32.IsNaN(f) || math32.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return f, nil
}
