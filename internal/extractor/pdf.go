// Package extractor pulls statement text out of PDF files.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrNoReadableText is returned when no extraction method yields text that
// looks like a bank statement. Scanned and image-only PDFs end up here.
var ErrNoReadableText = errors.New("no readable text in PDF")

// columnGap is the horizontal distance, in points, treated as a column break.
const columnGap = 15

// method is one way of reading page text out of a parsed PDF.
type method struct {
	name    string
	extract func(r *pdf.Reader) []string
}

var methods = []method{
	{"rows", extractByRow},
	{"content", extractByContent},
	{"plain", extractByPlainText},
}

// ExtractFile reads the PDF at path and returns its text, one line per
// visual row and a blank line between pages.
func ExtractFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("ExtractFile: %w", err)
	}
	return Extract(data)
}

// Extract returns the text of a PDF held in memory. Methods are tried in
// order until one produces readable statement text.
func Extract(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Extract: PDF reader panicked: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("Extract: open PDF: %w", err)
	}
	if r.NumPage() == 0 {
		return "", fmt.Errorf("Extract: %w: PDF has no pages", ErrNoReadableText)
	}

	for _, m := range methods {
		pages := m.extract(r)
		if isReadableText(pages) {
			return strings.Join(pages, "\n\n"), nil
		}
	}
	return "", fmt.Errorf("Extract: %w", ErrNoReadableText)
}

// extractByRow uses the library's own row grouping.
func extractByRow(r *pdf.Reader) []string {
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent rebuilds rows from raw text positions. Pieces sharing a
// rounded Y coordinate form a row, ordered left to right.
func extractByContent(r *pdf.Reader) []string {
	type piece struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rows := make(map[int][]piece)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], piece{x: t.X, s: t.S})
		}

		// PDF Y grows upwards, so the top row has the largest Y.
		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		var lines []string
		for _, y := range ys {
			pieces := rows[y]
			sort.Slice(pieces, func(a, b int) bool { return pieces[a].x < pieces[b].x })

			var sb strings.Builder
			for j, p := range pieces {
				if j > 0 && p.x-pieces[j-1].x > columnGap {
					sb.WriteString("  ")
				}
				sb.WriteString(p.s)
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByPlainText reads the whole document as one page.
func extractByPlainText(r *pdf.Reader) []string {
	reader, err := r.GetPlainText()
	if err != nil {
		return nil
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil
	}
	return []string{text}
}

// statementWords appear in virtually every bank statement.
var statementWords = []string{
	"bank", "account", "balance", "date", "payment", "statement",
	"total", "amount", "credit", "debit", "transaction", "sort code",
	"money", "paid", "opening", "closing", "transfer", "direct",
	"number", "page", "period",
}

// isReadableText reports whether pages hold more than 50 characters, are
// mostly printable ASCII and mention at least one statement word.
func isReadableText(pages []string) bool {
	total, readable, length := 0, 0, 0
	for _, page := range pages {
		length += len(strings.TrimSpace(page))
		for _, r := range page {
			total++
			if readableRune(r) {
				readable++
			}
		}
	}
	if length <= 50 || float64(readable) <= 0.6*float64(total) {
		return false
	}

	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// readableRune accepts ASCII letters, digits, whitespace and the punctuation
// found on statements. unicode.IsLetter is too broad here: garbage from
// identity-encoded fonts decodes to accented letters.
func readableRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case unicode.IsSpace(r):
		return true
	}
	return strings.ContainsRune(".,-/:;()'\"£$€%&@#!?+=*", r)
}
