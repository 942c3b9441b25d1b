// Package parse extracts diagnostics from raw compiler output.
//
// Three line formats are recognized: GCC/Clang ("file:line:col: error: msg"),
// MSVC ("file(line): error C1234: msg") and Unity C#
// ("file(line,col): error CS1234: msg"). Lines that match none of them are
// ignored, so whole build logs can be fed in unfiltered.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Severity distinguishes errors from warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one parsed compiler message. Line is 1-based; Col is 0 when
// the format does not carry a column (MSVC).
type Diagnostic struct {
	File     string
	Line     int
	Col      int
	Code     string
	Message  string
	Severity Severity
}

// Parser matches compiler output lines against the known formats.
// The zero value is not usable; use New.
type Parser struct {
	gcc   *regexp.Regexp
	msvc  *regexp.Regexp
	unity *regexp.Regexp
}

// New compiles the format patterns.
func New() *Parser {
	return &Parser{
		gcc:   regexp.MustCompile(`^(.+?):(\d+):(\d+):\s*(error|warning):\s*(.+)$`),
		msvc:  regexp.MustCompile(`^(.+?)\((\d+)\):\s*(error|warning)\s+(\w+):\s*(.+)$`),
		unity: regexp.MustCompile(`^(.+?)\((\d+),(\d+)\):\s*(error|warning)\s+(\w+):\s*(.+)$`),
	}
}

// Parse scans output line by line and returns the diagnostics found, in
// input order. Empty output yields an empty slice, not an error.
func (p *Parser) Parse(output string) []Diagnostic {
	var diags []Diagnostic

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if d, ok := p.tryGCC(line); ok {
			diags = append(diags, d)
		} else if d, ok := p.tryUnity(line); ok {
			diags = append(diags, d)
		} else if d, ok := p.tryMSVC(line); ok {
			diags = append(diags, d)
		}
	}

	return diags
}

func (p *Parser) tryGCC(line string) (Diagnostic, bool) {
	m := p.gcc.FindStringSubmatch(line)
	if m == nil {
		return Diagnostic{}, false
	}
	ln, err := strconv.Atoi(m[2])
	if err != nil {
		return Diagnostic{}, false
	}
	col, err := strconv.Atoi(m[3])
	if err != nil {
		return Diagnostic{}, false
	}
	return Diagnostic{
		File:     m[1],
		Line:     ln,
		Col:      col,
		Message:  m[5],
		Severity: Severity(m[4]),
	}, true
}

func (p *Parser) tryMSVC(line string) (Diagnostic, bool) {
	m := p.msvc.FindStringSubmatch(line)
	if m == nil {
		return Diagnostic{}, false
	}
	ln, err := strconv.Atoi(m[2])
	if err != nil {
		return Diagnostic{}, false
	}
	return Diagnostic{
		File:     m[1],
		Line:     ln,
		Code:     m[4],
		Message:  m[5],
		Severity: Severity(m[3]),
	}, true
}

func (p *Parser) tryUnity(line string) (Diagnostic, bool) {
	m := p.unity.FindStringSubmatch(line)
	if m == nil {
		return Diagnostic{}, false
	}
	ln, err := strconv.Atoi(m[2])
	if err != nil {
		return Diagnostic{}, false
	}
	col, err := strconv.Atoi(m[3])
	if err != nil {
		return Diagnostic{}, false
	}
	return Diagnostic{
		File:     m[1],
		Line:     ln,
		Col:      col,
		Code:     m[5],
		Message:  m[6],
		Severity: Severity(m[4]),
	}, true
}
