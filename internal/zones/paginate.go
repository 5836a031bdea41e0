package zones

import (
	"context"
	"fmt"
)

// PageFunc fetches one page of zone names. token is empty for the first
// request; next is empty when no further page exists.
type PageFunc func(ctx context.Context, token string) (names []string, next string, err error)

// Collect follows continuation tokens until the provider stops returning one
// and concatenates every page in order. A failure on any page fails the whole
// enumeration; a partial list is never returned.
func Collect(ctx context.Context, provider string, fetch PageFunc, cfg RetryConfig) ([]string, error) {
	type page struct {
		names []string
		next  string
	}

	var (
		all   []string
		token string
		seen  = map[string]bool{}
	)
	for {
		p, err := retry(ctx, cfg, func() (page, error) {
			names, next, err := fetch(ctx, token)
			return page{names: names, next: next}, err
		})
		if err != nil {
			return nil, asTyped(provider, err)
		}
		all = append(all, p.names...)

		if p.next == "" {
			return all, nil
		}
		if seen[p.next] {
			return nil, &TransportError{Provider: provider, Err: fmt.Errorf("continuation token %q repeated", p.next)}
		}
		seen[p.next] = true
		token = p.next
	}
}
