package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/Faultbox/trackmaker/pkg/diag"
	"github.com/Faultbox/trackmaker/pkg/encoding"
	"github.com/Faultbox/trackmaker/pkg/math"
	"github.com/Faultbox/trackmaker/pkg/wavefront"
)

// UnnamedAttachment is the name of an attachment that never received NAME.
const UnnamedAttachment = "<unknown>"

// Attachment is a named connection point on a model.
type Attachment struct {
	Name     string
	IsFirst  bool
	IsFemale bool
	// Transform holds the MATab fields: key MATab is stored at (row b, col a).
	Transform math.Mat4
}

// WorldTransform composes the attachment transform with a parent transform
// (Transform * parent).
func (a Attachment) WorldTransform(parent math.Mat4) math.Mat4 {
	return a.Transform.Mul(parent)
}

// Position returns the translation part of the transform, read from row 3
// (fields MAT03, MAT13, MAT23).
func (a Attachment) Position() math.Vec3 {
	return math.Vec3{X: a.Transform.At(3, 0), Y: a.Transform.At(3, 1), Z: a.Transform.At(3, 2)}
}

func (a Attachment) String() string {
	return a.Name
}

// Attachment record keys, in case-folded form.
const (
	keyName     = "name"
	keyIsFirst  = "isfirst"
	keyIsFemale = "isfemale"
	keyEnd      = "end"
)

type matrixCell struct {
	row, col int
}

// matrixKeys maps the case-folded key "matab" to matrix cell (row b, col a).
var matrixKeys = func() map[string]matrixCell {
	m := make(map[string]matrixCell, 16)
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			m[fmt.Sprintf("mat%d%d", a, b)] = matrixCell{row: b, col: a}
		}
	}
	return m
}()

// LoadAttachments reads an attachment companion file. A missing file is not an
// error and yields no attachments.
func LoadAttachments(path string, sink diag.Sink) ([]Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ParseAttachments(f, wavefront.ParseOptions{Source: path, Sink: sink})
}

// ParseAttachments parses "KEY: VALUE" lines into attachments. Each END line
// commits the record built so far and starts a fresh one. A final record
// without END is dropped and reported as UnterminatedRecord.
func ParseAttachments(r io.Reader, opts wavefront.ParseOptions) ([]Attachment, error) {
	source := opts.Source
	if source == "" {
		source = "<stream>"
	}

	b := attachmentBuilder{
		source: source,
		sink:   diag.OrDiscard(opts.Sink),
		fold:   cases.Fold(),
	}
	b.reset()

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := b.processLine(lineNum, encoding.ToUTF8(scanner.Bytes())); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s after line %d: %w", source, lineNum, err)
	}

	b.finish()
	return b.out, nil
}

// attachmentBuilder accumulates one in-progress record at a time.
type attachmentBuilder struct {
	source string
	sink   diag.Sink
	fold   cases.Caser

	cur     Attachment
	dirty   bool // cur received at least one field
	dirtyAt int  // line of the first field of cur
	out     []Attachment
}

func (b *attachmentBuilder) reset() {
	b.cur = Attachment{Name: UnnamedAttachment}
	b.dirty = false
	b.dirtyAt = 0
}

func (b *attachmentBuilder) touch(lineNum int) {
	if !b.dirty {
		b.dirty = true
		b.dirtyAt = lineNum
	}
}

func (b *attachmentBuilder) commit() {
	b.out = append(b.out, b.cur)
	b.reset()
}

func (b *attachmentBuilder) finish() {
	if !b.dirty {
		return
	}
	b.sink.Report(diag.Event{
		Kind:   diag.UnterminatedRecord,
		Source: b.source,
		Line:   b.dirtyAt,
		Detail: fmt.Sprintf("attachment %q has no END line and was dropped", b.cur.Name),
	})
}

func (b *attachmentBuilder) processLine(lineNum int, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	// The value is the field after the key; anything past a second colon
	// is dropped, so "NAME: a:b" names the attachment "a".
	rawKey, rest, _ := strings.Cut(line, ":")
	value, _, _ := strings.Cut(rest, ":")
	rawKey = strings.TrimSpace(rawKey)
	value = strings.TrimSpace(value)
	key := b.fold.String(rawKey)

	switch key {
	case keyEnd:
		b.commit()
		return nil
	case keyName:
		b.cur.Name = value
	case keyIsFirst:
		n, err := strconv.Atoi(value)
		if err != nil {
			return b.malformed(lineNum, rawKey, err)
		}
		b.cur.IsFirst = n != 0
	case keyIsFemale:
		b.cur.IsFemale = value == "1"
	default:
		cell, ok := matrixKeys[key]
		if !ok {
			b.sink.Report(diag.Event{
				Kind:   diag.IgnoredDirective,
				Source: b.source,
				Line:   lineNum,
				Detail: strconv.Quote(rawKey),
			})
			return nil
		}
		v, err := wavefront.ParseFloat32(value)
		if err != nil {
			return b.malformed(lineNum, rawKey, err)
		}
		b.cur.Transform.Set(cell.row, cell.col, v)
	}

	b.touch(lineNum)
	return nil
}

func (b *attachmentBuilder) malformed(lineNum int, key string, err error) error {
	return &wavefront.RecordError{
		Source:    b.source,
		Line:      lineNum,
		Directive: key,
		Err:       err,
	}
}
