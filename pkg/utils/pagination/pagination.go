package pagination

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Cursors maps the four link relations GitHub paginates with to page
// numbers. A nil entry means the server did not supply that relation,
// e.g. there is no prev on the first page.
type Cursors struct {
	First *int
	Prev  *int
	Next  *int
	Last  *int
}

// IsZero reports whether no relation is present
func (c Cursors) IsZero() bool {
	return c.First == nil && c.Prev == nil && c.Next == nil && c.Last == nil
}

var linkEntry = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="([a-z]+)"`)

// Parse extracts pagination cursors from a Link response header. The
// header is treated as opaque apart from the rel names and the page
// query parameter; malformed entries and unknown relations are
// skipped. An empty header yields empty cursors.
func Parse(linkHeader string) Cursors {
	var cursors Cursors

	for _, part := range strings.Split(linkHeader, ",") {
		match := linkEntry.FindStringSubmatch(part)
		if match == nil {
			continue
		}

		target, err := url.Parse(match[1])
		if err != nil {
			continue
		}

		page, err := strconv.Atoi(target.Query().Get("page"))
		if err != nil {
			continue
		}

		switch match[2] {
		case "first":
			cursors.First = &page
		case "prev":
			cursors.Prev = &page
		case "next":
			cursors.Next = &page
		case "last":
			cursors.Last = &page
		}
	}

	return cursors
}
