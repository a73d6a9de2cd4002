// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"regexp"
	"sort"
)

// DefaultHost is the code-hosting platform scanned when no host is configured.
const DefaultHost = "github.com"

// trailingJunk matches everything from the first character that cannot be part
// of a repository name (markdown punctuation, anchors, query strings).
var trailingJunk = regexp.MustCompile(`[^\w\-.].*$`)

// Reference identifies a repository as an owner/name pair.
type Reference struct {
	Owner string
	Name  string
}

// String renders the reference as "owner/name".
func (r Reference) String() string {
	return r.Owner + "/" + r.Name
}

// URL returns the browser URL of the repository on host.
func (r Reference) URL(host string) string {
	if host == "" {
		host = DefaultHost
	}
	return fmt.Sprintf("https://%s/%s", host, r)
}

func referencePattern(host string) *regexp.Regexp {
	if host == "" {
		host = DefaultHost
	}
	return regexp.MustCompile(`https://` + regexp.QuoteMeta(host) + `/([^/\s)]+)/([^/\s)]+)`)
}

// ExtractReferences finds every https://host/owner/repo URL in text and returns
// the unique references, sorted by "owner/name".
// A positive limit only considers the first limit URLs found in the text.
func ExtractReferences(text, host string, limit int) []Reference {
	matches := referencePattern(host).FindAllStringSubmatch(text, -1)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	seen := make(map[Reference]struct{}, len(matches))
	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		name := trailingJunk.ReplaceAllString(m[2], "")
		if name == "" {
			continue
		}
		ref := Reference{Owner: m[1], Name: name}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].String() < refs[j].String()
	})
	return refs
}
