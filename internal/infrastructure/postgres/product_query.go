package postgres

import (
	"strconv"
	"strings"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	"github.com/oksasatya/marketplace-api/internal/domain/repository"
)

// whereBuilder accumulates AND-ed predicates with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

// arg registers v and returns its placeholder.
func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereBuilder) add(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// buildProductWhere turns a filter into a WHERE clause over products aliased p.
// ActiveOnly pins the listing to active, approved products regardless of Status.
func buildProductWhere(f repository.ProductFilter) (string, []any) {
	w := &whereBuilder{}

	if f.ActiveOnly {
		w.add("p.is_active = TRUE")
		w.add("p.status = " + w.arg(string(entity.StatusApproved)))
	} else if f.Status != "" {
		w.add("p.status = " + w.arg(string(f.Status)))
	}

	if f.SellerID != "" {
		w.add("p.seller_id = " + w.arg(f.SellerID))
	}

	if f.Category != "" {
		w.add("p.category = " + w.arg(string(f.Category)))
	}

	if f.MinPrice != nil {
		w.add("p.price >= " + w.arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		w.add("p.price <= " + w.arg(*f.MaxPrice))
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		q := w.arg(s)
		w.add("(to_tsvector('english', p.name || ' ' || p.description) @@ plainto_tsquery('english', " + q +
			") OR lower(" + q + ") = ANY(p.tags))")
	}

	return w.sql(), w.args
}

var sortColumns = map[repository.SortField]string{
	repository.SortCreatedAt: "p.created_at",
	repository.SortPrice:     "p.price",
	repository.SortRating:    "p.rating",
	repository.SortName:      "p.name",
}

// productOrderBy returns a whitelisted ORDER BY clause; id breaks ties so paging is stable.
func productOrderBy(f repository.ProductFilter) string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns[repository.SortCreatedAt]
	}
	dir := "DESC"
	if f.SortAsc {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir + ", p.id " + dir
}
