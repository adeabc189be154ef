package impl

import "storefront/config"

const (
	fallbackDefaultPageSize = 10
	fallbackMaxPageSize     = 100
)

// normalizePage clamps page and pageSize to the configured bounds and returns
// the normalized values together with the SQL limit and offset.
func normalizePage(cfg *config.PaginationConfig, page, pageSize int) (normPage, normSize, limit, offset int) {
	defaultSize := fallbackDefaultPageSize
	maxSize := fallbackMaxPageSize
	if cfg != nil {
		if cfg.DefaultPageSize > 0 {
			defaultSize = cfg.DefaultPageSize
		}
		if cfg.MaxPageSize > 0 {
			maxSize = cfg.MaxPageSize
		}
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}

	return page, pageSize, pageSize, (page - 1) * pageSize
}
