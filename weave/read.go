package weave

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ruonli/rsure/attr"
	"github.com/ruonli/rsure/errs"
)

// ReadHeaders returns every delta header recorded at the top of the
// weave file at path, without reading its body. It is the primitive
// behind store's weave-version listing.
func ReadHeaders(path string) ([]DeltaHeader, error) {
	headers, _, err := readWeaveFile(path)
	return headers, err
}

// Extract returns the content kept at the given target delta number
// in the weave file at path.
func Extract(path string, target int) ([]string, error) {
	_, body, err := readWeaveFile(path)
	if err != nil {
		return nil, err
	}
	return extractDelta(body, target)
}

// readWeaveFile splits a weave file into its header records and the
// raw body lines that follow (every control and content line,
// verbatim, in file order). It does not interpret the body.
func readWeaveFile(path string) ([]DeltaHeader, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errs.NewIoError(path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var headers []DeltaHeader
	var body []string
	var cur *DeltaHeader
	inHeader := true
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if inHeader {
			kind, op, _, _ := classify(line)
			if kind == lineHeader {
				switch op {
				case opStart:
					h, err := parseStartLine(line, lineNo)
					if err != nil {
						return nil, nil, err
					}
					cur = h
				case opTag:
					if cur == nil {
						return nil, nil, errs.NewFormatError(errs.FormatWeave, lineNo, "tag line outside a header record")
					}
					k, v, err := parseTagLine(line, lineNo)
					if err != nil {
						return nil, nil, err
					}
					cur.Tags[k] = v
				case opTerm:
					if cur == nil {
						return nil, nil, errs.NewFormatError(errs.FormatWeave, lineNo, "terminator without an open header record")
					}
					headers = append(headers, *cur)
					cur = nil
				}
				continue
			}
			inHeader = false
		}
		body = append(body, line)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, errs.NewIoError(path, err)
	}
	if cur != nil {
		return nil, nil, errs.NewFormatError(errs.FormatWeave, lineNo, "truncated header record")
	}
	return headers, body, nil
}

func parseStartLine(line string, lineNo int) (*DeltaHeader, error) {
	fields := strings.Fields(line[2:])
	if len(fields) != 3 {
		return nil, errs.NewFormatError(errs.FormatWeave, lineNo, fmt.Sprintf("malformed s record %q", line))
	}
	n, err1 := strconv.Atoi(fields[0])
	l, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return nil, errs.NewFormatError(errs.FormatWeave, lineNo, fmt.Sprintf("malformed s record %q", line))
	}
	return &DeltaHeader{Number: n, Len: l, Random: fields[2], Tags: Tags{}}, nil
}

func parseTagLine(line string, lineNo int) (string, string, error) {
	rest := strings.TrimPrefix(line[2:], " ")
	fields := strings.SplitN(rest, " ", 2)
	if fields[0] == "" {
		return "", "", errs.NewFormatError(errs.FormatWeave, lineNo, fmt.Sprintf("malformed t record %q", line))
	}
	valField := ""
	if len(fields) == 2 {
		valField = fields[1]
	}
	val, err := attr.Unescape(valField)
	if err != nil {
		return "", "", err
	}
	return fields[0], string(val), nil
}

// maxDeltaNumber returns the highest delta number recorded in headers,
// or 0 if headers is empty.
func maxDeltaNumber(headers []DeltaHeader) int {
	max := 0
	for _, h := range headers {
		if h.Number > max {
			max = h.Number
		}
	}
	return max
}

// extractDelta replays body with target, returning the content kept
// at that delta.
func extractDelta(body []string, target int) ([]string, error) {
	sink := &collectSink{}
	p := NewParser(strings.NewReader(strings.Join(body, "\n")), sink, target)
	if _, err := p.ParseTo(0); err != nil {
		return nil, err
	}
	return sink.lines, nil
}

type collectSink struct {
	BaseSink
	lines []string
}

func (s *collectSink) Plain(text string, keep bool) error {
	if keep {
		s.lines = append(s.lines, text)
	}
	return nil
}
