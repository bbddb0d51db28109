// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"io"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// streamExtractor decodes page text directly from pdfcpu content streams.
// It is the fallback tier for pages the primary extractor cannot read.
type streamExtractor struct {
	ctx *model.Context
}

// openStreamExtractor parses the PDF at path with pdfcpu. A nil-context
// extractor is returned on failure; its pageText then yields empty strings,
// which the caller treats as "no text layer".
func openStreamExtractor(path string) *streamExtractor {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return &streamExtractor{}
	}
	return &streamExtractor{ctx: ctx}
}

func (s *streamExtractor) pageText(pageNr int) string {
	if s.ctx == nil {
		return ""
	}
	r, err := pdfcpu.ExtractPageContent(s.ctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return decodeContentStream(data)
}

// decodeContentStream pulls text-showing operators (Tj, TJ, ') out of a raw
// PDF content stream and maps positioning operators (Td, TD, T*) to
// whitespace, yielding an approximation of the page's reading order.
func decodeContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, lit := range stringLiterals(line) {
				sb.WriteString(lit)
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.ContainsRune(line, '('):
			sb.WriteByte('\n')
			for _, lit := range stringLiterals(line) {
				sb.WriteString(lit)
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return normalizeStreamText(sb.String())
}

// stringLiterals returns the decoded contents of every parenthesized string
// literal on the line.
func stringLiterals(line []byte) []string {
	var out []string
	for i := 0; i < len(line); i++ {
		if line[i] != '(' {
			continue
		}
		end := closingParen(line, i)
		if end < 0 {
			break
		}
		if lit := decodeLiteral(line[i+1 : end]); lit != "" {
			out = append(out, lit)
		}
		i = end
	}
	return out
}

// closingParen finds the unescaped ')' matching the '(' at start.
func closingParen(line []byte, start int) int {
	for i := start + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case ')':
			return i
		}
	}
	return -1
}

// decodeLiteral resolves PDF string escapes, including octal codes.
func decodeLiteral(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch c := raw[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(c)
		default:
			if c < '0' || c > '7' {
				sb.WriteByte(c)
				break
			}
			val := int(c - '0')
			for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}

// normalizeStreamText collapses runs of blank lines and strips non-printable
// runes left over from operator decoding.
func normalizeStreamText(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var sb strings.Builder
		for _, r := range line {
			if unicode.IsPrint(r) || r == '\t' {
				sb.WriteRune(r)
			}
		}
		trimmed := strings.TrimRight(sb.String(), " \t")
		if trimmed == "" && len(out) > 0 && out[len(out)-1] == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
