package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Section markers recognised by line prefix.
const (
	VerticesMarker = "*Vertices"
	EdgesMarker    = "*Edges"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// section tracks which part of the file the parser is in.
type section int

const (
	sectionHeader   section = iota // before *Vertices
	sectionVertices                // reading the declared vertex records
	sectionGap                     // vertex block complete, waiting for *Edges
	sectionEdges                   // reading edge records until EOF
)

// Load opens the file at path and parses it with Parse. Errors opening
// the file are returned wrapped, so errors.Is(err, fs.ErrNotExist) holds.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening graph file: %w", err)
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse reads a network in the form
//
//	*Vertices N
//	<id> <name>      (exactly N records, ids 1..N)
//	*Edges
//	<u> <v>          (until EOF)
//
// Every edge is stored in both directions. Blank lines are ignored.
// Any malformed record stops parsing with a *ParseError.
func Parse(r io.Reader) (*Graph, error) {
	p := parser{
		g: &Graph{
			Vertices:  make(VertexTable),
			Adjacency: make(AdjacencyMap),
		},
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		p.line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if err := p.consume(text); err != nil {
			return nil, &ParseError{Line: p.line, Text: text, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading graph: %w", err)
	}

	switch p.sec {
	case sectionHeader:
		return nil, &ParseError{Line: p.line, Err: ErrMissingHeader}
	case sectionVertices:
		return nil, &ParseError{
			Line: p.line,
			Err:  fmt.Errorf("%w: declared %d, got %d", ErrVertexCount, p.g.N, p.g.Vertices.Len()),
		}
	}
	return p.g, nil
}

type parser struct {
	g    *Graph
	sec  section
	line int
}

func (p *parser) consume(text string) error {
	switch {
	case strings.HasPrefix(text, VerticesMarker):
		return p.header(text)
	case strings.HasPrefix(text, EdgesMarker):
		switch p.sec {
		case sectionHeader:
			return ErrMissingHeader
		case sectionVertices:
			return fmt.Errorf("%w: declared %d, got %d", ErrVertexCount, p.g.N, p.g.Vertices.Len())
		}
		p.sec = sectionEdges
		return nil
	}

	switch p.sec {
	case sectionHeader:
		return ErrMissingHeader
	case sectionVertices:
		return p.vertex(text)
	case sectionGap:
		return fmt.Errorf("%w: more than %d vertex records", ErrVertexCount, p.g.N)
	default:
		return p.edge(text)
	}
}

func (p *parser) header(text string) error {
	if p.sec != sectionHeader {
		return fmt.Errorf("%w: repeated %s marker", ErrMalformedLine, VerticesMarker)
	}
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return fmt.Errorf("%w: want %s <count>", ErrMalformedLine, VerticesMarker)
	}
	n, err := atoi(fields[1])
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative count %d", ErrVertexCount, n)
	}
	p.g.N = n
	p.sec = sectionVertices
	if n == 0 {
		p.sec = sectionGap
	}
	return nil
}

func (p *parser) vertex(text string) error {
	idTok, rest := text, ""
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		idTok, rest = text[:i], text[i+1:]
	}
	id, err := atoi(idTok)
	if err != nil {
		return err
	}
	name, err := parseName(rest)
	if err != nil {
		return err
	}
	if id < 1 || id > p.g.N {
		return fmt.Errorf("%w: vertex %d not in 1..%d", ErrVertexOutOfRange, id, p.g.N)
	}
	if _, dup := p.g.Vertices[id]; dup {
		return fmt.Errorf("%w: %d", ErrDuplicateVertex, id)
	}
	p.g.Vertices[id] = name
	if p.g.Vertices.Len() == p.g.N {
		p.sec = sectionGap
	}
	return nil
}

// parseName accepts a single bare token or one double-quoted name.
func parseName(rest string) (string, error) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", fmt.Errorf("%w: vertex record needs <id> <name>", ErrMalformedLine)
	}
	if strings.HasPrefix(rest, `"`) {
		end := strings.Index(rest[1:], `"`)
		if end < 0 || strings.TrimSpace(rest[end+2:]) != "" || end == 0 {
			return "", fmt.Errorf("%w: bad quoted name", ErrMalformedLine)
		}
		return rest[1 : end+1], nil
	}
	if len(strings.Fields(rest)) != 1 {
		return "", fmt.Errorf("%w: vertex record needs <id> <name>", ErrMalformedLine)
	}
	return rest, nil
}

func (p *parser) edge(text string) error {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return fmt.Errorf("%w: edge record needs <u> <v>", ErrMalformedLine)
	}
	u, err := atoi(fields[0])
	if err != nil {
		return err
	}
	v, err := atoi(fields[1])
	if err != nil {
		return err
	}
	for _, id := range [2]int{u, v} {
		if id < 1 || id > p.g.N {
			return fmt.Errorf("%w: edge endpoint %d not in 1..%d", ErrVertexOutOfRange, id, p.g.N)
		}
	}
	p.g.Adjacency.link(u, v)
	p.g.edges++
	return nil
}

func atoi(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadInteger, tok)
	}
	return n, nil
}
