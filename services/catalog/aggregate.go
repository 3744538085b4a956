package catalog

import (
	"context"
	"strconv"

	"github.com/sourcegraph/conc/pool"

	"cinefeed/models"
)

// pageFetch loads one page of a paginated upstream listing.
type pageFetch func(ctx context.Context, page int) ([]models.CatalogItem, error)

// aggregatePages fetches pages 1..pages concurrently and merges them: pages
// are joined back into request order, ids are de-duplicated keeping the first
// occurrence, and items without their required image are dropped. Any page
// failing fails the whole aggregation.
//
// Known limitation: if upstream pagination shifts items between pages while
// the concurrent requests are in flight, the first occurrence of an id (and
// therefore the merged output) can differ between renders.
func aggregatePages(ctx context.Context, pages int, fetch pageFetch) ([]models.CatalogItem, error) {
	if pages < 1 {
		pages = 1
	}

	results := make([][]models.CatalogItem, pages)
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i := 0; i < pages; i++ {
		idx := i
		p.Go(func(ctx context.Context) error {
			items, err := fetch(ctx, idx+1)
			if err != nil {
				return err
			}
			results[idx] = items
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return mergeListings(results), nil
}

func mergeListings(pages [][]models.CatalogItem) []models.CatalogItem {
	seen := make(map[string]struct{})
	merged := make([]models.CatalogItem, 0)
	for _, page := range pages {
		for _, item := range page {
			if requiredImagePath(item) == "" {
				continue
			}
			key := item.MediaType + ":" + strconv.FormatInt(item.ID, 10)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, item)
		}
	}
	return merged
}

// requiredImagePath returns the image field a listing card cannot render
// without: the profile for people, the poster for titles.
func requiredImagePath(item models.CatalogItem) string {
	if item.MediaType == models.MediaTypePerson {
		return item.ProfilePath
	}
	return item.PosterPath
}
