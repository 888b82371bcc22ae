// Package search maintains a full-text index over listings so the
// marketplace can be searched by free text, optionally narrowed to a
// city. Title and description are analyzed; the remaining fields are
// stored for display only.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blugelabs/bluge"

	"giveboard/domain"
)

type ListingIndex struct {
	writer   *bluge.Writer
	log      *slog.Logger
	pageSize int
}

func Open(path string, log *slog.Logger, pageSize int) (*ListingIndex, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ListingIndex{writer: writer, log: log, pageSize: pageSize}, nil
}

func (i *ListingIndex) Close() error {
	return i.writer.Close()
}

// Index upserts one listing. Re-posting under the same id replaces
// the previous entry.
func (i *ListingIndex) Index(l domain.Listing) error {
	doc := bluge.NewDocument(l.ID).
		AddField(bluge.NewTextField("title", l.Title).StoreValue()).
		AddField(bluge.NewTextField("description", l.Description).StoreValue()).
		AddField(bluge.NewKeywordField("city", l.City).StoreValue()).
		AddField(bluge.NewKeywordField("category", l.Category).StoreValue()).
		AddField(bluge.NewStoredOnlyField("price", []byte(l.Price))).
		AddField(bluge.NewStoredOnlyField("image", []byte(l.Image)))
	return i.writer.Update(doc.ID(), doc)
}

// Search runs a match query over title and description. city narrows
// the result set when non-empty; page is zero-based.
func (i *ListingIndex) Search(ctx context.Context, terms, city string, page int) ([]domain.Listing, uint64, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, 0, fmt.Errorf("opening index reader: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	text := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(terms).SetField("title")).
		AddShould(bluge.NewMatchQuery(terms).SetField("description"))

	var query bluge.Query = text
	if city != "" {
		query = bluge.NewBooleanQuery().
			AddMust(text).
			AddMust(bluge.NewTermQuery(city).SetField("city"))
	}

	request := bluge.NewTopNSearch(i.pageSize, query).
		SetFrom(page * i.pageSize).
		WithStandardAggregations()

	iter, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	var hits []domain.Listing
	for {
		match, err := iter.Next()
		if err != nil {
			return nil, 0, err
		}
		if match == nil {
			break
		}
		var hit domain.Listing
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID = string(value)
			case "title":
				hit.Title = string(value)
			case "description":
				hit.Description = string(value)
			case "city":
				hit.City = string(value)
			case "category":
				hit.Category = string(value)
			case "price":
				hit.Price = string(value)
			case "image":
				hit.Image = string(value)
			}
			return true
		})
		if err != nil {
			i.log.Error("skipping unreadable hit", "err", err)
			continue
		}
		if strings.TrimSpace(hit.ID) != "" {
			hits = append(hits, hit)
		}
	}
	return hits, iter.Aggregations().Count(), nil
}
