package handlers

import (
	"context"

	"requisition-api-server/internal/cache"
	"requisition-api-server/internal/metrics"
	"requisition-api-server/internal/models"
)

const catalogCacheKey = "items_list"

// CatalogReader đọc danh mục hàng (sắp theo tên) qua cache TTL.
// Mọi thao tác ghi item phải gọi Invalidate.
type CatalogReader struct {
	Items ItemRepository
	Cache *cache.Cache[[]models.Item]
}

// Load đọc catalog qua cache. Invalidate chạy xen giữa lúc đọc DB và lúc Set có thể làm
// bản cũ nằm lại trong cache tối đa một TTL.
func (r *CatalogReader) Load(ctx context.Context) ([]models.Item, error) {
	if items, ok := r.Cache.Get(catalogCacheKey); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return items, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	items, err := r.Items.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	r.Cache.Set(catalogCacheKey, items)
	return items, nil
}

func (r *CatalogReader) Invalidate() {
	r.Cache.Clear()
}
