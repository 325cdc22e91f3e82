// Package gloss derives an ordered uppercase content-token sequence from a
// transcript, a lexical proxy for sign-language annotation.
package gloss

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Extractor filters transcript tokens against a fixed stopword table. The
// table is loaded once at startup and never mutated afterwards.
type Extractor struct {
	stopwords map[string]struct{}
}

func NewExtractor(stopwords []string) *Extractor {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Extractor{stopwords: set}
}

// NewExtractorFromFile reads one stopword per line; blank lines and lines
// starting with '#' are skipped.
func NewExtractorFromFile(path string) (*Extractor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopwords file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stopwords file: %w", err)
	}
	return NewExtractor(words), nil
}

// Extract lowercases the transcript, splits it into word tokens, drops tokens
// that are not purely alphabetic or that are stopwords, and uppercases the
// rest. Source order and duplicates are preserved. An empty transcript yields
// an empty list.
func (e *Extractor) Extract(transcript string) []string {
	lowered := strings.ToLower(strings.TrimSpace(transcript))
	if lowered == "" {
		return []string{}
	}

	tokens := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !isAlphabetic(t) {
			continue
		}
		if _, stop := e.stopwords[t]; stop {
			continue
		}
		out = append(out, strings.ToUpper(t))
	}
	return out
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
