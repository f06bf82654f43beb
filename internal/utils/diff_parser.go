package utils

import (
	"bytes"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

const diffContext = 3

type LineRange struct {
	Start int
	Count int
}

type lineOp struct {
	kind   byte // ' ', '-' or '+'
	text   string
	origNo int
	newNo  int
}

// RewriteDiff returns the unified diff of a submission against its rewritten
// version. Identical inputs produce a FileDiff without hunks.
func RewriteDiff(name, original, rewritten string) *diff.FileDiff {
	fd := &diff.FileDiff{
		OrigName: "a/" + name,
		NewName:  "b/" + name,
	}

	ops := lineDiff(splitLines(original), splitLines(rewritten))
	for i := 0; i < len(ops); {
		if ops[i].kind == ' ' {
			i++
			continue
		}

		start := max(0, i-diffContext)
		end := i + 1
		for j := end; j < len(ops); {
			if ops[j].kind != ' ' {
				end = j + 1
				j++
				continue
			}
			k := j
			for k < len(ops) && ops[k].kind == ' ' {
				k++
			}
			if k == len(ops) || k-j > 2*diffContext {
				break
			}
			j = k
		}
		stop := min(len(ops), end+diffContext)

		fd.Hunks = append(fd.Hunks, buildHunk(ops[start:stop]))
		i = stop
	}
	return fd
}

// FormatRewriteDiff prints fd in unified format, or "" when nothing changed.
func FormatRewriteDiff(fd *diff.FileDiff) (string, error) {
	if fd == nil || len(fd.Hunks) == 0 {
		return "", nil
	}
	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DiffStat counts the added and removed lines of fd.
func DiffStat(fd *diff.FileDiff) (added, removed int) {
	if fd == nil {
		return 0, 0
	}
	for _, h := range fd.Hunks {
		for _, line := range bytes.Split(h.Body, []byte{'\n'}) {
			if len(line) == 0 {
				continue
			}
			switch line[0] {
			case '+':
				added++
			case '-':
				removed++
			}
		}
	}
	return added, removed
}

// ChangedLines returns the rewritten-side line range of every hunk.
func ChangedLines(fd *diff.FileDiff) []LineRange {
	if fd == nil {
		return nil
	}
	ranges := make([]LineRange, 0, len(fd.Hunks))
	for _, h := range fd.Hunks {
		ranges = append(ranges, LineRange{Start: int(h.NewStartLine), Count: int(h.NewLines)})
	}
	return ranges
}

func buildHunk(ops []lineOp) *diff.Hunk {
	var body bytes.Buffer
	var origLines, newLines int
	for _, op := range ops {
		body.WriteByte(op.kind)
		body.WriteString(op.text)
		body.WriteByte('\n')
		if op.kind != '+' {
			origLines++
		}
		if op.kind != '-' {
			newLines++
		}
	}

	origStart := ops[0].origNo
	if origLines == 0 {
		origStart--
	}
	newStart := ops[0].newNo
	if newLines == 0 {
		newStart--
	}

	return &diff.Hunk{
		OrigStartLine: int32(origStart),
		OrigLines:     int32(origLines),
		NewStartLine:  int32(newStart),
		NewLines:      int32(newLines),
		Body:          body.Bytes(),
	}
}

// lineDiff computes a longest-common-subsequence edit script. Deletions are
// emitted before insertions at the same position.
func lineDiff(a, b []string) []lineOp {
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]lineOp, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		op := lineOp{origNo: i + 1, newNo: j + 1}
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			op.kind, op.text = ' ', a[i]
			i++
			j++
		case j == len(b) || (i < len(a) && lcs[i+1][j] >= lcs[i][j+1]):
			op.kind, op.text = '-', a[i]
			i++
		default:
			op.kind, op.text = '+', b[j]
			j++
		}
		ops = append(ops, op)
	}
	return ops
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
