package resolver

import (
	"fmt"
	"strings"

	"FinSight/internal/model"
)

// Directory supplies the company snapshot lookups run against. Implementations
// must return a set that is immutable for the lifetime of the call.
type Directory interface {
	Companies() []model.Company
}

// NotFoundError reports a query that matched nothing. It carries the original
// query text for user-facing messages.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no company matches %q", e.Query)
}

// Resolver maps free-text queries (ticker, company name, alias, partial name)
// to a directory company. Pure lookup, safe for concurrent use.
type Resolver struct {
	dir Directory
}

// New creates a resolver over the given directory.
func New(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve finds the company for a free-text query. Matching runs in priority
// order, first hit wins: exact ticker, curated alias, exact company name,
// then substring over names and aliases preferring the shortest company name
// (directory order breaks ties).
func (r *Resolver) Resolve(query string) (model.Company, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return model.Company{}, &NotFoundError{Query: query}
	}
	companies := r.dir.Companies()

	// Exact ticker
	ticker := strings.ToUpper(normalized)
	for _, c := range companies {
		if c.Ticker == ticker {
			return c, nil
		}
	}

	// Curated alias
	if aliased, ok := tickerAliases[normalized]; ok {
		for _, c := range companies {
			if c.Ticker == aliased {
				return c, nil
			}
		}
	}

	// Exact company name
	for _, c := range companies {
		if strings.ToLower(c.Name) == normalized {
			return c, nil
		}
	}

	// Substring over names and aliases; shortest company name wins,
	// earlier directory position breaks ties.
	var best model.Company
	found := false
	for _, c := range companies {
		if !matchesSubstring(c, normalized) {
			continue
		}
		if !found || len(c.Name) < len(best.Name) {
			best = c
			found = true
		}
	}
	if found {
		return best, nil
	}
	return model.Company{}, &NotFoundError{Query: query}
}

func matchesSubstring(c model.Company, normalized string) bool {
	if strings.Contains(strings.ToLower(c.Name), normalized) {
		return true
	}
	for _, alias := range c.Aliases {
		if strings.Contains(alias, normalized) {
			return true
		}
	}
	return false
}
