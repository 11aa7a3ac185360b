// Package casefile loads proof cases from line-oriented text files.
//
// The first non-comment line holds `threshold, prob_cutoff, max_depth,
// denominator`. Each following line is one directive: Bounds(i, lb, ub),
// Subcase(r1, r2, ...), ProvesBound(target, delta), ProvesSum((c0, ...), bound),
// Contradiction, or any restriction. Blank lines and lines starting with '#'
// are skipped.
package casefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"radbound/domain/core"
	"radbound/domain/proofcase"
	"radbound/domain/restriction"
)

// Extension is appended to a case name to locate its file.
const Extension = ".txt"

// Store reads cases from a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory cases are read from.
func (s *Store) Dir() string { return s.dir }

// Path returns the file a case name maps to.
func (s *Store) Path(name core.CaseName) string {
	return filepath.Join(s.dir, string(name)+Extension)
}

// Load reads and parses the named case.
func (s *Store) Load(name core.CaseName) (*proofcase.Case, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrCaseNotFound, name)
		}
		return nil, fmt.Errorf("open case %s: %w", name, err)
	}
	defer f.Close()

	return Parse(name, f)
}

// List returns the names of all cases in the store, sorted.
func (s *Store) List() ([]core.CaseName, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+Extension))
	if err != nil {
		return nil, err
	}
	names := make([]core.CaseName, 0, len(matches))
	for _, m := range matches {
		names = append(names, core.CaseName(strings.TrimSuffix(filepath.Base(m), Extension)))
	}
	return names, nil
}

type parser struct {
	c         *proofcase.Case
	boundsFor map[int][]restriction.Interval
	maxIndex  int
	delta     bool
	contra    bool
}

// Parse builds a validated Case from its text description.
func Parse(name core.CaseName, r io.Reader) (*proofcase.Case, error) {
	p := &parser{
		c:         &proofcase.Case{Name: name},
		boundsFor: make(map[int][]restriction.Interval),
		maxIndex:  -1,
	}

	scanner := bufio.NewScanner(r)
	lineNo, headerSeen := 0, false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var err error
		if !headerSeen {
			err = p.header(line)
			headerSeen = true
		} else {
			err = p.directive(line)
		}
		if err != nil {
			return nil, core.NewParseError(lineNo, line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read case %s: %w", name, err)
	}
	if !headerSeen {
		return nil, fmt.Errorf("%w: case %s has no header line", core.ErrParse, name)
	}

	p.finishBounds()
	if err := p.c.Validate(); err != nil {
		return nil, err
	}
	return p.c, nil
}

func (p *parser) header(line string) error {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return fmt.Errorf("%w: header needs threshold, prob_cutoff, max_depth, denominator", core.ErrArity)
	}
	var err error
	if p.c.Threshold, err = restriction.ParseFloat(fields[0]); err != nil {
		return err
	}
	if p.c.ProbCutoff, err = restriction.ParseFloat(fields[1]); err != nil {
		return err
	}
	if p.c.MaxDepth, err = parseInt(fields[2]); err != nil {
		return err
	}
	if p.c.Denominator, err = parseInt(fields[3]); err != nil {
		return err
	}
	return nil
}

func (p *parser) directive(line string) error {
	name, args, err := restriction.ParseFunctionLike(line)
	if err != nil {
		return err
	}

	switch name {
	case "subcase":
		rs, err := restriction.ParseList(args)
		if err != nil {
			return err
		}
		p.c.Subcases = append(p.c.Subcases, proofcase.Subcase{Restrictions: rs})

	case "provesbound":
		if err := restriction.ExpectArity(name, args, 2); err != nil {
			return err
		}
		if p.delta || p.contra {
			return core.ErrDuplicateHypothesis
		}
		target, err := restriction.ParseFloat(args[0])
		if err != nil {
			return err
		}
		delta, err := restriction.ParseFloat(args[1])
		if err != nil {
			return err
		}
		p.delta = true
		p.c.Hypotheses = append(p.c.Hypotheses, proofcase.DeltaBound{Target: target, Delta: delta})

	case "provessum":
		if err := restriction.ExpectArity(name, args, 2); err != nil {
			return err
		}
		coefs, err := restriction.ParseTuple(args[0])
		if err != nil {
			return err
		}
		bound, err := restriction.ParseFloat(args[1])
		if err != nil {
			return err
		}
		p.c.Hypotheses = append(p.c.Hypotheses, proofcase.SumLowerBound{Coefficients: coefs, Bound: bound})

	case "contradiction":
		if len(args) != 0 {
			return fmt.Errorf("%w: contradiction takes no arguments", core.ErrArity)
		}
		if p.delta || p.contra {
			return core.ErrDuplicateHypothesis
		}
		p.contra = true
		p.c.Hypotheses = append(p.c.Hypotheses, proofcase.Contradiction{})

	default:
		r, err := restriction.Parse(line)
		if err != nil {
			return err
		}
		if b, ok := r.(restriction.Bounds); ok {
			p.boundsFor[b.Index] = append(p.boundsFor[b.Index], b.Interval)
			p.maxIndex = max(p.maxIndex, b.Index)
			return nil
		}
		p.c.Restrictions = append(p.c.Restrictions, r)
	}
	return nil
}

// finishBounds intersects every Bounds directive into the per-index intervals.
// Indices never mentioned stay at Unit.
func (p *parser) finishBounds() {
	if p.maxIndex < 0 {
		return
	}
	p.c.Bounds = make([]restriction.Interval, p.maxIndex+1)
	for i := range p.c.Bounds {
		p.c.Bounds[i] = restriction.Unit
		for _, iv := range p.boundsFor[i] {
			p.c.Bounds[i].Tighten(iv)
		}
	}
}

func parseInt(text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid integer %q", core.ErrParse, text)
	}
	return v, nil
}
