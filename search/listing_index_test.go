package search

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"giveboard/domain"
)

func openIndex(t *testing.T) *ListingIndex {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "bluge"), slog.Default(), 10)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestListingIndex_Search_Matches_Title_And_Description(t *testing.T) {
	req := require.New(t)
	idx := openIndex(t)
	ctx := context.Background()

	listings := []domain.Listing{
		{ID: "l1", Title: "Wooden bookshelf", Description: "Solid oak, five shelves", City: "Lyon"},
		{ID: "l2", Title: "Baby stroller", Description: "Foldable, includes rain cover", City: "Lyon"},
		{ID: "l3", Title: "Office chair", Description: "A bookshelf ladder comes with it", City: "Paris"},
	}
	for _, l := range listings {
		req.NoError(idx.Index(l))
	}

	hits, total, err := idx.Search(ctx, "bookshelf", "", 0)
	req.NoError(err)
	req.Equal(uint64(2), total)
	req.Len(hits, 2)
	for _, h := range hits {
		req.NotEqual("l2", h.ID)
	}
}

func TestListingIndex_Search_Is_Case_Insensitive(t *testing.T) {
	req := require.New(t)
	idx := openIndex(t)
	ctx := context.Background()

	req.NoError(idx.Index(domain.Listing{ID: "l1", Title: "Kubernetes handbook", City: "Nantes"}))

	for _, q := range []string{"kubernetes", "KUBERNETES", "Kubernetes"} {
		hits, total, err := idx.Search(ctx, q, "", 0)
		req.NoError(err, "query: %s", q)
		req.Equal(uint64(1), total, "query: %s", q)
		req.Len(hits, 1, "query: %s", q)
	}
}

func TestListingIndex_Search_City_Isolation(t *testing.T) {
	req := require.New(t)
	idx := openIndex(t)
	ctx := context.Background()

	req.NoError(idx.Index(domain.Listing{ID: "l1", Title: "Mountain bike", City: "Lyon"}))
	req.NoError(idx.Index(domain.Listing{ID: "l2", Title: "Mountain bike", City: "Paris"}))

	hits, total, err := idx.Search(ctx, "bike", "Lyon", 0)
	req.NoError(err)
	req.Equal(uint64(1), total)
	req.Len(hits, 1)
	req.Equal("l1", hits[0].ID)
}

func TestListingIndex_Reindex_Replaces_Previous_Entry(t *testing.T) {
	req := require.New(t)
	idx := openIndex(t)
	ctx := context.Background()

	req.NoError(idx.Index(domain.Listing{ID: "l1", Title: "Broken lamp", City: "Lille"}))
	req.NoError(idx.Index(domain.Listing{ID: "l1", Title: "Working lamp", City: "Lille"}))

	hits, total, err := idx.Search(ctx, "lamp", "", 0)
	req.NoError(err)
	req.Equal(uint64(1), total)
	req.Len(hits, 1)
	req.Equal("Working lamp", hits[0].Title)
}
