// Package analyze discovers symbol references around compiler error locations.
//
// The scanner parses the file named by a diagnostic with tree-sitter and
// inspects the region around the error line. Call expressions, type usages,
// includes and base classes found there are resolved against definitions in
// the same file and reported as symbol references for graph construction.
//
// Resolution is intentionally best-effort: a name that cannot be resolved to
// a definition in the parsed file is dropped silently. The resulting graph
// shows what can be derived from the source alone, without a full compiler
// frontend.
package analyze

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"

	"relaymap/pkg/builder"
	"relaymap/pkg/parse"
	"relaymap/pkg/relay"
)

// DefaultContextLines is how far above and below the error line the scanner
// looks for references.
const DefaultContextLines = 2

// maxFileSize bounds the source files the scanner will parse (10MB).
const maxFileSize = 10 * 1024 * 1024

// Scanner extracts symbol references from C and C++ sources.
// It implements builder.ReferenceSource.
//
// A Scanner is safe for concurrent use; each call creates its own
// tree-sitter parser instance.
type Scanner struct {
	root    string
	context int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithContextLines sets how many lines around the error line are inspected.
func WithContextLines(n int) Option {
	return func(s *Scanner) {
		if n >= 0 {
			s.context = n
		}
	}
}

// NewScanner creates a scanner that resolves diagnostic file paths relative
// to root. An empty root uses paths as-is.
func NewScanner(root string, opts ...Option) *Scanner {
	s := &Scanner{root: root, context: DefaultContextLines}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// References parses the diagnostic's file and returns the symbol references
// found near the error line.
func (s *Scanner) References(ctx context.Context, d parse.Diagnostic) ([]builder.SymbolRef, error) {
	path := d.File
	if s.root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", d.File, err)
	}
	if len(src) > maxFileSize {
		return nil, fmt.Errorf("source %s too large (%d bytes)", d.File, len(src))
	}

	parser := sitter.NewParser()
	parser.SetLanguage(languageFor(path))

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse source %s: %w", d.File, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, nil
	}

	sc := &fileScan{
		file:      d.File,
		src:       src,
		errorRow:  uint32(d.Line - 1),
		window:    uint32(s.context),
		functions: make(map[string]location),
		types:     make(map[string]location),
		variables: make(map[string]location),
	}
	sc.collectDefinitions(root)
	sc.collectReferences(root)
	return sc.refs, nil
}

// languageFor picks the grammar by file extension. Anything that is not
// clearly C is treated as C++, which parses C headers acceptably.
func languageFor(path string) *sitter.Language {
	if strings.EqualFold(filepath.Ext(path), ".c") {
		return c.GetLanguage()
	}
	return cpp.GetLanguage()
}

type location struct {
	row uint32
	col uint32
}

// fileScan holds per-file state for a single References call.
type fileScan struct {
	file     string
	src      []byte
	errorRow uint32
	window   uint32

	functions map[string]location
	types     map[string]location
	variables map[string]location

	refs []builder.SymbolRef
}

// nearError reports whether row falls inside the inspection window.
func (sc *fileScan) nearError(row uint32) bool {
	lo := uint32(0)
	if sc.errorRow > sc.window {
		lo = sc.errorRow - sc.window
	}
	return row >= lo && row <= sc.errorRow+sc.window
}

// collectDefinitions walks the whole tree once and records where functions,
// types and file-scope variables are defined.
func (sc *fileScan) collectDefinitions(n *sitter.Node) {
	switch n.Type() {
	case "function_definition":
		if name, loc, ok := sc.functionName(n); ok {
			if _, seen := sc.functions[name]; !seen {
				sc.functions[name] = loc
			}
		}
	case "class_specifier", "struct_specifier", "enum_specifier", "union_specifier":
		if name := n.ChildByFieldName("name"); name != nil {
			key := name.Content(sc.src)
			if _, seen := sc.types[key]; !seen {
				sc.types[key] = nodeLocation(name)
			}
		}
	case "type_definition":
		if decl := n.ChildByFieldName("declarator"); decl != nil && decl.Type() == "type_identifier" {
			key := decl.Content(sc.src)
			if _, seen := sc.types[key]; !seen {
				sc.types[key] = nodeLocation(decl)
			}
		}
	case "declaration":
		// Only file-scope variables; locals are rarely useful graph nodes.
		if parent := n.Parent(); parent != nil && parent.Type() == "translation_unit" {
			sc.recordVariable(n)
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		sc.collectDefinitions(n.NamedChild(i))
	}
}

// functionName unwraps the declarator chain of a function_definition down to
// the identifier.
func (sc *fileScan) functionName(n *sitter.Node) (string, location, bool) {
	decl := n.ChildByFieldName("declarator")
	for decl != nil {
		switch decl.Type() {
		case "identifier", "field_identifier", "qualified_identifier", "destructor_name", "operator_name":
			return decl.Content(sc.src), nodeLocation(decl), true
		case "function_declarator", "pointer_declarator", "reference_declarator":
			decl = decl.ChildByFieldName("declarator")
		default:
			return "", location{}, false
		}
	}
	return "", location{}, false
}

func (sc *fileScan) recordVariable(n *sitter.Node) {
	decl := n.ChildByFieldName("declarator")
	for decl != nil {
		switch decl.Type() {
		case "identifier":
			key := decl.Content(sc.src)
			if _, seen := sc.variables[key]; !seen {
				sc.variables[key] = nodeLocation(decl)
			}
			return
		case "init_declarator", "pointer_declarator", "array_declarator", "reference_declarator":
			decl = decl.ChildByFieldName("declarator")
		default:
			return
		}
	}
}

// collectReferences walks the tree and emits references for nodes inside the
// inspection window. Includes are always emitted regardless of position
// since they shape the whole translation unit.
func (sc *fileScan) collectReferences(n *sitter.Node) {
	switch n.Type() {
	case "preproc_include":
		sc.emitInclude(n)
	case "call_expression":
		if sc.nearError(n.StartPoint().Row) {
			sc.emitCall(n)
		}
	case "type_identifier":
		if sc.nearError(n.StartPoint().Row) {
			sc.emitTypeUse(n)
		}
	case "identifier":
		if sc.nearError(n.StartPoint().Row) {
			sc.emitVariableUse(n)
		}
	case "base_class_clause":
		if sc.nearError(n.StartPoint().Row) {
			sc.emitBaseClasses(n)
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		sc.collectReferences(n.NamedChild(i))
	}
}

func (sc *fileScan) emitInclude(n *sitter.Node) {
	pathNode := n.ChildByFieldName("path")
	if pathNode == nil {
		return
	}
	header := strings.Trim(pathNode.Content(sc.src), `"<>`)
	if header == "" {
		return
	}
	sc.refs = append(sc.refs, builder.SymbolRef{
		File:     header,
		Line:     1,
		Col:      1,
		Name:     header,
		Kind:     relay.NodeInclude,
		Relation: relay.EdgeInclude,
		Direct:   n.StartPoint().Row == sc.errorRow,
	})
}

func (sc *fileScan) emitCall(n *sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	name := fn.Content(sc.src)
	loc, ok := sc.functions[name]
	if !ok {
		return
	}
	sc.refs = append(sc.refs, builder.SymbolRef{
		File:     sc.file,
		Line:     int(loc.row) + 1,
		Col:      int(loc.col) + 1,
		Name:     name,
		Kind:     relay.NodeFunction,
		Relation: relay.EdgeCall,
		Direct:   n.StartPoint().Row == sc.errorRow,
	})
}

func (sc *fileScan) emitTypeUse(n *sitter.Node) {
	name := n.Content(sc.src)
	loc, ok := sc.types[name]
	if !ok {
		return
	}
	// Skip the definition itself.
	if loc.row == n.StartPoint().Row && loc.col == n.StartPoint().Column {
		return
	}
	sc.refs = append(sc.refs, builder.SymbolRef{
		File:     sc.file,
		Line:     int(loc.row) + 1,
		Col:      int(loc.col) + 1,
		Name:     name,
		Kind:     relay.NodeType,
		Relation: relay.EdgeReference,
		Direct:   n.StartPoint().Row == sc.errorRow,
	})
}

func (sc *fileScan) emitVariableUse(n *sitter.Node) {
	// Identifiers inside call expressions are handled by emitCall.
	if parent := n.Parent(); parent != nil && parent.Type() == "call_expression" {
		return
	}
	name := n.Content(sc.src)
	loc, ok := sc.variables[name]
	if !ok {
		return
	}
	if loc.row == n.StartPoint().Row && loc.col == n.StartPoint().Column {
		return
	}
	sc.refs = append(sc.refs, builder.SymbolRef{
		File:     sc.file,
		Line:     int(loc.row) + 1,
		Col:      int(loc.col) + 1,
		Name:     name,
		Kind:     relay.NodeVariable,
		Relation: relay.EdgeReference,
		Direct:   n.StartPoint().Row == sc.errorRow,
	})
}

func (sc *fileScan) emitBaseClasses(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		base := n.NamedChild(i)
		if base.Type() != "type_identifier" && base.Type() != "qualified_identifier" {
			continue
		}
		name := base.Content(sc.src)
		loc, ok := sc.types[name]
		if !ok {
			continue
		}
		sc.refs = append(sc.refs, builder.SymbolRef{
			File:     sc.file,
			Line:     int(loc.row) + 1,
			Col:      int(loc.col) + 1,
			Name:     name,
			Kind:     relay.NodeType,
			Relation: relay.EdgeInherit,
			Direct:   base.StartPoint().Row == sc.errorRow,
		})
	}
}

func nodeLocation(n *sitter.Node) location {
	return location{row: n.StartPoint().Row, col: n.StartPoint().Column}
}

var _ builder.ReferenceSource = (*Scanner)(nil)
