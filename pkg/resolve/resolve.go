// Package resolve turns extracted citations into law identifiers, links and
// article content. Each citation is resolved independently; a citation that
// cannot be resolved is reported on its Resolution and never fails the batch.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kimjonghyeok62/law-citation-search/pkg/citation"
	"github.com/kimjonghyeok62/law-citation-search/pkg/lawapi"
	"github.com/kimjonghyeok62/law-citation-search/pkg/render"
)

// DefaultConcurrency bounds in-flight resolutions.
const DefaultConcurrency = 4

// ErrNoContent reports that a law was found but none of the content sources
// produced the cited article.
var ErrNoContent = errors.New("article content unavailable")

// Source names where a resolution's content came from.
type Source string

const (
	SourceJSON     Source = "json"
	SourceFullText Source = "full_html"
	SourcePublic   Source = "public"
	SourceNone     Source = "none"
)

// LawService is the remote law database. *lawapi.Client implements it.
type LawService interface {
	SearchLaw(ctx context.Context, query string) (lawapi.LawRow, error)
	FetchArticle(ctx context.Context, lawID string, numbering citation.Numbering) (lawapi.Article, error)
	FullTextSnippet(ctx context.Context, lawID string, numbering citation.Numbering) (string, error)
	PublicSnippet(ctx context.Context, lawName string, numbering citation.Numbering) (string, error)
	ArticleURL(lawID string, numbering citation.Numbering) string
	FullTextURL(lawID string) string
}

// Resolution is the outcome of resolving one citation.
type Resolution struct {
	Citation    citation.Citation `json:"citation" yaml:"citation"`
	Law         *lawapi.LawRow    `json:"law,omitempty" yaml:"law,omitempty"`
	ArticleURL  string            `json:"article_url,omitempty" yaml:"article_url,omitempty"`
	FullTextURL string            `json:"full_text_url,omitempty" yaml:"full_text_url,omitempty"`
	PublicURL   string            `json:"public_url" yaml:"public_url"`

	// Content is sanitized HTML, ready to embed.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
	Source  Source `json:"source" yaml:"source"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Resolved reports whether the citation's law was found.
func (r Resolution) Resolved() bool {
	return r.Law != nil
}

// Config holds configuration for a Resolver.
type Config struct {
	// Concurrency bounds in-flight resolutions. Default: DefaultConcurrency.
	Concurrency int

	// Logger receives per-citation failures. Nil disables logging.
	Logger *zap.Logger
}

// Resolver resolves citations against a LawService.
type Resolver struct {
	laws        LawService
	concurrency int
	logger      *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(laws LawService, config Config) *Resolver {
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{laws: laws, concurrency: concurrency, logger: logger}
}

// Resolve resolves every citation, returning results in input order. The
// only error returned is the context's.
func (resolver *Resolver) Resolve(ctx context.Context, cites []citation.Citation) ([]Resolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]Resolution, len(cites))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(resolver.concurrency)

	for i, cite := range cites {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = resolver.ResolveOne(groupCtx, cite)
			return groupCtx.Err()
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// ResolveOne resolves a single citation: it looks the law up, then takes
// content from the first source that yields it, in the order article JSON,
// full-text HTML, public page.
func (resolver *Resolver) ResolveOne(ctx context.Context, cite citation.Citation) Resolution {
	lawName := cite.LawName()
	resolution := Resolution{
		Citation:  cite,
		PublicURL: lawapi.PublicURL(lawName),
		Source:    SourceNone,
	}

	row, err := resolver.laws.SearchLaw(ctx, lawName)
	if err != nil {
		resolver.logger.Warn("law lookup failed",
			zap.String("law", lawName),
			zap.Error(err),
		)
		resolution.Error = err.Error()
		return resolution
	}

	resolution.Law = &row
	resolution.ArticleURL = resolver.laws.ArticleURL(row.ID, cite.Numbering)
	resolution.FullTextURL = resolver.laws.FullTextURL(row.ID)

	content, source, err := resolver.content(ctx, cite, row)
	if err != nil {
		resolver.logger.Warn("article content unavailable",
			zap.String("law", lawName),
			zap.String("law_id", row.ID),
			zap.String("article", cite.Numbering.String()),
			zap.Error(err),
		)
		resolution.Error = err.Error()
		return resolution
	}

	resolution.Content = content
	resolution.Source = source
	return resolution
}

func (resolver *Resolver) content(ctx context.Context, cite citation.Citation, row lawapi.LawRow) (string, Source, error) {
	label := render.Label(cite)

	article, articleErr := resolver.laws.FetchArticle(ctx, row.ID, cite.Numbering)
	if articleErr == nil {
		return render.Sanitize(render.ArticleHTML(render.Header(label, render.NoteJSON), article)), SourceJSON, nil
	}
	resolver.logger.Debug("falling back to full text",
		zap.String("law_id", row.ID),
		zap.Error(articleErr),
	)

	snippet, fullTextErr := resolver.laws.FullTextSnippet(ctx, row.ID, cite.Numbering)
	if fullTextErr == nil {
		return render.Sanitize(render.SnippetHTML(render.Header(label, render.NoteFullText), snippet)), SourceFullText, nil
	}
	resolver.logger.Debug("falling back to public page",
		zap.String("law_id", row.ID),
		zap.Error(fullTextErr),
	)

	snippet, publicErr := resolver.laws.PublicSnippet(ctx, cite.LawName(), cite.Numbering)
	if publicErr == nil {
		return render.Sanitize(render.SnippetHTML(render.Header(label, render.NotePublic), snippet)), SourcePublic, nil
	}

	return "", SourceNone, fmt.Errorf("%w: %w", ErrNoContent, errors.Join(articleErr, fullTextErr, publicErr))
}
