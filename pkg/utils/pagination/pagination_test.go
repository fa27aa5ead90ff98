package pagination_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/relpanel/relpanel/pkg/utils/pagination"
)

func TestParse(t *testing.T) {
	t.Run("first page has next and last only", func(t *testing.T) {
		header := `<https://api.github.com/repositories/1/releases?per_page=10&page=2>; rel="next", ` +
			`<https://api.github.com/repositories/1/releases?per_page=10&page=5>; rel="last"`

		cursors := pagination.Parse(header)

		gt.Nil(t, cursors.First)
		gt.Nil(t, cursors.Prev)
		gt.NotNil(t, cursors.Next)
		gt.Equal(t, *cursors.Next, 2)
		gt.NotNil(t, cursors.Last)
		gt.Equal(t, *cursors.Last, 5)
	})

	t.Run("middle page has all four relations", func(t *testing.T) {
		header := `<https://api.github.com/repositories/1/releases?page=2>; rel="prev", ` +
			`<https://api.github.com/repositories/1/releases?page=4>; rel="next", ` +
			`<https://api.github.com/repositories/1/releases?page=5>; rel="last", ` +
			`<https://api.github.com/repositories/1/releases?page=1>; rel="first"`

		cursors := pagination.Parse(header)

		gt.Equal(t, *cursors.First, 1)
		gt.Equal(t, *cursors.Prev, 2)
		gt.Equal(t, *cursors.Next, 4)
		gt.Equal(t, *cursors.Last, 5)
	})

	t.Run("empty header yields empty cursors", func(t *testing.T) {
		gt.True(t, pagination.Parse("").IsZero())
	})

	t.Run("entries without a page parameter are skipped", func(t *testing.T) {
		header := `<https://api.github.com/repositories/1/releases>; rel="next"`

		gt.True(t, pagination.Parse(header).IsZero())
	})

	t.Run("malformed entries are skipped", func(t *testing.T) {
		header := `garbage, <https://api.github.com/repositories/1/releases?page=3>; rel="next"`

		cursors := pagination.Parse(header)
		gt.Equal(t, *cursors.Next, 3)
	})
}
