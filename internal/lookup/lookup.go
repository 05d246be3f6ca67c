// Package lookup runs the full pipeline for one request: expand the crate,
// tokenize the expanded text, locate the declaration, serialize it and format
// the result.
package lookup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/maypok86/otter"
	"github.com/mvp-joe/macrolens/internal/expand"
	"github.com/mvp-joe/macrolens/internal/format"
	"github.com/mvp-joe/macrolens/internal/lexer"
	"github.com/mvp-joe/macrolens/internal/locate"
	"github.com/mvp-joe/macrolens/internal/token"
)

// ErrNotFound means the expanded code holds no declaration matching the request.
var ErrNotFound = errors.New("declaration not found")

// DefaultCacheSize is the number of token trees kept when Options.CacheSize is unset.
const DefaultCacheSize = 64

// Tokenizer turns expanded text into a token tree.
type Tokenizer interface {
	Tokenize(source []byte) ([]token.Token, error)
}

// Result is the outcome of one lookup.
type Result struct {
	RunID   string
	Request locate.Request
	// Message is the status line, e.g. "Expanding struct: Foo".
	Message string
	// Code is the formatted declaration. It equals Raw when formatting failed.
	Code string
	// Raw is the serialized token sequence before formatting.
	Raw  string
	Took time.Duration
}

// Options configures a Service.
type Options struct {
	Keywords  locate.Keywords
	CacheSize int
	// Tokenizer defaults to the tree-sitter lexer.
	Tokenizer Tokenizer
	Verbose   bool
}

// Service looks up declarations. It is safe for concurrent use.
type Service struct {
	source    expand.Source
	formatter format.Formatter
	tokenizer Tokenizer
	locator   *locate.Locator
	trees     otter.Cache[string, []token.Token]
	verbose   bool
}

// New creates a Service.
func New(source expand.Source, formatter format.Formatter, opts Options) (*Service, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Tokenizer == nil {
		opts.Tokenizer = lexer.New()
	}
	if len(opts.Keywords.TypeDefinition) == 0 && opts.Keywords.Function == "" {
		opts.Keywords = locate.DefaultKeywords()
	}

	trees, err := otter.MustBuilder[string, []token.Token](opts.CacheSize).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create token cache: %w", err)
	}

	return &Service{
		source:    source,
		formatter: formatter,
		tokenizer: opts.Tokenizer,
		locator:   locate.New(opts.Keywords),
		trees:     trees,
		verbose:   opts.Verbose,
	}, nil
}

// Close releases the token cache.
func (s *Service) Close() {
	s.trees.Close()
}

// Look expands the crate and locates req in the result.
//
// Errors match expand.ErrExpansionFailed, ErrNotFound, lexer.ErrUnbalanced or
// format.ErrFormattingFailed. On a formatting failure the returned Result is
// still usable: it carries the unformatted code.
func (s *Service) Look(ctx context.Context, req locate.Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.source == nil {
		return nil, fmt.Errorf("no expansion source configured")
	}

	start := time.Now()
	expanded, err := s.source.Expand(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.LookSource(ctx, expanded, req)
	if res != nil {
		res.Took = time.Since(start)
	}
	return res, err
}

// LookSource locates req in text that has already been expanded.
func (s *Service) LookSource(ctx context.Context, expanded string, req locate.Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Result{
		RunID:   uuid.New().String(),
		Request: req,
		Message: req.Describe(),
	}

	tree, err := s.tokens(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize expanded code: %w", err)
	}

	found, ok := s.locator.Locate(tree, req)
	if !ok {
		s.logf(res.RunID, "no match for %q in %d top-level tokens", req.Name, len(tree))
		return nil, fmt.Errorf("%s: %w", describeTarget(req), ErrNotFound)
	}

	res.Raw = token.Serialize(found)
	res.Code = res.Raw

	formatted, err := s.formatter.Format(ctx, res.Raw)
	res.Took = time.Since(start)
	if err != nil {
		s.logf(res.RunID, "formatting failed: %v", err)
		return res, err
	}
	res.Code = formatted

	s.logf(res.RunID, "%s located in %s", describeTarget(req), res.Took)
	return res, nil
}

// tokens returns the token tree for expanded, reusing the cached tree when
// the same text was tokenized before.
func (s *Service) tokens(expanded string) ([]token.Token, error) {
	sum := sha256.Sum256([]byte(expanded))
	key := hex.EncodeToString(sum[:])

	if tree, ok := s.trees.Get(key); ok {
		return tree, nil
	}

	tree, err := s.tokenizer.Tokenize([]byte(expanded))
	if err != nil {
		return nil, err
	}
	s.trees.Set(key, tree)
	return tree, nil
}

func (s *Service) logf(runID, format string, args ...any) {
	if !s.verbose {
		return
	}
	log.Printf("[%s] "+format, append([]any{runID}, args...)...)
}

func describeTarget(req locate.Request) string {
	switch req.Kind {
	case locate.KindInterfaceImpl:
		if req.ImplementingType != "" {
			return fmt.Sprintf("impl of %s for %s", req.Name, req.ImplementingType)
		}
		return fmt.Sprintf("impl of %s", req.Name)
	case locate.KindFunction:
		return fmt.Sprintf("function %s", req.Name)
	default:
		return fmt.Sprintf("type %s", req.Name)
	}
}
