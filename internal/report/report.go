// Package report renders a ranked list of people as text, TOML, or JSON
// and persists it to the results file.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/newsrank/internal/rank"
)

// DefaultPath is the results file written by the rank command.
const DefaultPath = "page_rank_scores.txt"

// ErrUnknownFormat is returned for an unrecognised output format name.
var ErrUnknownFormat = errors.New("report: unknown format")

// Format selects the rendering of a ranked list.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatTOML, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q (want text, toml or json)", ErrUnknownFormat, s)
}

// FormatScore renders a score with the fewest digits that round-trip.
func FormatScore(s float64) string {
	return strconv.FormatFloat(s, 'g', -1, 64)
}

// Line renders one entry as "Person: <name>    Score: <score>".
func Line(e rank.Entry) string {
	return "Person: " + e.Name + "    Score: " + FormatScore(e.Score)
}

// person is the structured form of an entry.
type person struct {
	Rank  int     `toml:"rank" json:"rank"`
	ID    int     `toml:"id" json:"id"`
	Name  string  `toml:"name" json:"name"`
	Score float64 `toml:"score" json:"score"`
}

type document struct {
	People []person `toml:"people" json:"people"`
}

func toDocument(list rank.List) document {
	doc := document{People: make([]person, len(list))}
	for i, e := range list {
		doc.People[i] = person{Rank: i + 1, ID: e.ID, Name: e.Name, Score: e.Score}
	}
	return doc
}

// Write renders list to w in the given format.
func Write(w io.Writer, list rank.List, f Format) error {
	switch f {
	case FormatText, "":
		for _, e := range list {
			if _, err := io.WriteString(w, Line(e)+"\n"); err != nil {
				return fmt.Errorf("report: write: %w", err)
			}
		}
		return nil
	case FormatTOML:
		data, err := toml.Marshal(toDocument(list))
		if err != nil {
			return fmt.Errorf("report: marshal toml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(toDocument(list)); err != nil {
			return fmt.Errorf("report: encode json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteFile writes list to path atomically (write temp + rename).
func WriteFile(path string, list rank.List, f Format) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("report: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := Write(tmp, list, f); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("report: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("report: rename results file: %w", err)
	}
	return nil
}
