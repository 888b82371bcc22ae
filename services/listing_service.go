package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"

	"giveboard/domain"
	apperrors "giveboard/errors"
	"giveboard/search"
	"giveboard/store"
)

type IListingService interface {
	PostListing(ctx context.Context, cmd domain.PostListingCommand) (string, error)
	LatestListings(ctx context.Context, limit int) ([]domain.Listing, error)
	ListingsByCategory(ctx context.Context, category string) ([]domain.Listing, error)
	ListingsByCity(ctx context.Context, city string) ([]domain.Listing, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Sliders(ctx context.Context) ([]domain.Slider, error)
	SubscribeLatest(ctx context.Context) *store.Subscription
	Search(ctx context.Context, terms, city string, page int) ([]domain.Listing, uint64, error)
}

type ListingService struct {
	store store.Store
	index *search.ListingIndex
	log   *slog.Logger
}

// NewListingService wires the listing catalog. index may be nil when
// full-text search is disabled.
func NewListingService(st store.Store, index *search.ListingIndex, log *slog.Logger) *ListingService {
	return &ListingService{store: st, index: index, log: log}
}

// PostListing validates and persists a donated item. When raw image
// bytes are attached their type is sniffed and anything that is not
// an image is rejected before the store is touched.
func (s *ListingService) PostListing(ctx context.Context, cmd domain.PostListingCommand) (string, error) {
	if err := validate.Struct(cmd); err != nil {
		return "", apperrors.Validation(err)
	}
	if cmd.PostedBy.ID == "" {
		return "", apperrors.Validation(apperrors.ErrMissingIdentity)
	}
	if len(cmd.Image) > 0 {
		detected := mimetype.Detect(cmd.Image)
		if !strings.HasPrefix(detected.String(), "image/") {
			return "", apperrors.Validation(fmt.Errorf("%w: %s", apperrors.ErrUnsupportedImage, detected.String()))
		}
	}

	id, err := s.store.Insert(ctx, CollectionListings, map[string]any{
		fieldTitle:       cmd.Title,
		fieldDescription: cmd.Description,
		fieldCategory:    cmd.Category,
		fieldPrice:       cmd.Price,
		fieldAddress:     cmd.Address,
		fieldCity:        cmd.City,
		fieldImage:       cmd.ImageURL,
		fieldUserID:      cmd.PostedBy.ID,
		fieldUserName:    cmd.PostedBy.DisplayName,
		fieldUserAvatar:  cmd.PostedBy.AvatarURL,
		fieldUserEmail:   cmd.PostedBy.ContactEmail,
		fieldCreatedAt:   store.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("listing insert: %w", err)
	}

	if s.index != nil {
		listing := domain.Listing{
			ID:          id,
			Title:       cmd.Title,
			Description: cmd.Description,
			Category:    cmd.Category,
			Price:       cmd.Price,
			City:        cmd.City,
			Image:       cmd.ImageURL,
		}
		// Indexing is best effort; the listing is already persisted.
		if err := s.index.Index(listing); err != nil {
			s.log.Error("listing indexing failed", "listing", id, "err", err)
		}
	}
	return id, nil
}

func (s *ListingService) LatestListings(ctx context.Context, limit int) ([]domain.Listing, error) {
	docs, err := s.store.Get(ctx, CollectionListings, store.Query{
		Orders: []store.Order{{Field: fieldCreatedAt, Direction: store.Descending}},
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("latest listings: %w", err)
	}
	return lo.Map(docs, func(d store.Document, _ int) domain.Listing {
		return ListingFromDocument(d)
	}), nil
}

func (s *ListingService) ListingsByCategory(ctx context.Context, category string) ([]domain.Listing, error) {
	return s.listingsBy(ctx, store.Eq(fieldCategory, category))
}

func (s *ListingService) ListingsByCity(ctx context.Context, city string) ([]domain.Listing, error) {
	return s.listingsBy(ctx, store.Eq(fieldCity, city))
}

func (s *ListingService) listingsBy(ctx context.Context, filter store.Filter) ([]domain.Listing, error) {
	docs, err := s.store.Get(ctx, CollectionListings, store.Query{
		Filters: []store.Filter{filter},
		Orders:  []store.Order{{Field: fieldCreatedAt, Direction: store.Descending}},
	})
	if err != nil {
		return nil, fmt.Errorf("listing query: %w", err)
	}
	return lo.Map(docs, func(d store.Document, _ int) domain.Listing {
		return ListingFromDocument(d)
	}), nil
}

func (s *ListingService) Categories(ctx context.Context) ([]domain.Category, error) {
	docs, err := s.store.Get(ctx, CollectionCategories, store.Query{})
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return lo.Map(docs, func(d store.Document, _ int) domain.Category {
		return CategoryFromDocument(d)
	}), nil
}

func (s *ListingService) Sliders(ctx context.Context) ([]domain.Slider, error) {
	docs, err := s.store.Get(ctx, CollectionSliders, store.Query{})
	if err != nil {
		return nil, fmt.Errorf("sliders: %w", err)
	}
	return lo.Map(docs, func(d store.Document, _ int) domain.Slider {
		return SliderFromDocument(d)
	}), nil
}

// SubscribeLatest feeds the home screen with the newest listings.
func (s *ListingService) SubscribeLatest(ctx context.Context) *store.Subscription {
	sub, err := s.store.Subscribe(ctx, CollectionListings, store.Query{
		Orders: []store.Order{{Field: fieldCreatedAt, Direction: store.Descending}},
	})
	if err != nil {
		s.log.Error("latest listings subscription failed", "err", err)
		return store.Noop()
	}
	return sub
}

func (s *ListingService) Search(ctx context.Context, terms, city string, page int) ([]domain.Listing, uint64, error) {
	if s.index == nil {
		return nil, 0, fmt.Errorf("full-text search is not enabled")
	}
	return s.index.Search(ctx, terms, city, page)
}
