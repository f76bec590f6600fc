package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javajoker/furniture-backend/internal/models"
)

var ErrCategoryCycle = errors.New("category parent references form a cycle")

type CategoryNode struct {
	*models.Category
	Children []*CategoryNode `json:"children"`
}

// BuildCategoryTree links categories through their parent ids. Categories whose
// parent does not exist are returned as roots. Input order is kept among siblings.
func BuildCategoryTree(categories []*models.Category) ([]*CategoryNode, error) {
	if err := checkCycles(categories); err != nil {
		return nil, err
	}

	nodes := make(map[string]*CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &CategoryNode{Category: c, Children: []*CategoryNode{}}
	}

	roots := []*CategoryNode{}
	for _, c := range categories {
		node := nodes[c.ID]
		parent, ok := nodes[c.ParentID]
		if c.ParentID == "" || !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots, nil
}

func checkCycles(categories []*models.Category) error {
	parents := make(map[string]string, len(categories))
	for _, c := range categories {
		parents[c.ID] = c.ParentID
	}

	// ok holds ids already known to reach a root.
	ok := make(map[string]bool, len(categories))
	for _, c := range categories {
		path := []string{}
		onPath := map[string]bool{}
		for id := c.ID; id != "" && !ok[id]; id = parents[id] {
			if _, exists := parents[id]; !exists {
				break
			}
			if onPath[id] {
				return fmt.Errorf("%w: %s", ErrCategoryCycle, strings.Join(append(path, id), " -> "))
			}
			onPath[id] = true
			path = append(path, id)
		}
		for _, id := range path {
			ok[id] = true
		}
	}
	return nil
}

// Related lists products for a product page: the explicit relatedProducts
// first, in their stored order, then products of the same collection.
// A limit of zero or less means no limit.
func Related(product *models.Product, products []*models.Product, limit int) []*models.Product {
	byID := make(map[string]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := []*models.Product{}
	seen := map[string]bool{product.ID: true}
	add := func(p *models.Product) bool {
		if p == nil || seen[p.ID] {
			return true
		}
		seen[p.ID] = true
		out = append(out, p)
		return limit <= 0 || len(out) < limit
	}

	for _, id := range product.RelatedProducts {
		if !add(byID[id]) {
			return out
		}
	}
	if product.Collection != "" {
		for _, p := range products {
			if p.Collection == product.Collection && !add(p) {
				return out
			}
		}
	}
	return out
}
