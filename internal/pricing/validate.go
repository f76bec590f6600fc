package pricing

import (
	"errors"
	"fmt"

	"github.com/javajoker/furniture-backend/internal/models"
)

var ErrInvalidQuantityBounds = errors.New("invalid set item quantity bounds")

// ItemError describes why one set item failed validation.
type ItemError struct {
	Index     int    `json:"index"`
	ProductID string `json:"productId"`
	Reason    string `json:"reason"`
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d (%s): %s", e.Index, e.ProductID, e.Reason)
}

func (e *ItemError) Unwrap() error {
	return ErrInvalidQuantityBounds
}

// ValidateSetItem checks min <= default <= max and that a required item
// cannot be configured down to zero.
func ValidateSetItem(index int, item models.SetItem) error {
	fail := func(format string, args ...interface{}) error {
		return &ItemError{Index: index, ProductID: item.ProductID, Reason: fmt.Sprintf(format, args...)}
	}

	switch {
	case item.MinQuantity < 0 || item.DefaultQuantity < 0 || item.MaxQuantity < 0:
		return fail("quantities must not be negative")
	case item.MinQuantity > item.DefaultQuantity:
		return fail("minQuantity %d exceeds defaultQuantity %d", item.MinQuantity, item.DefaultQuantity)
	case item.DefaultQuantity > item.MaxQuantity:
		return fail("defaultQuantity %d exceeds maxQuantity %d", item.DefaultQuantity, item.MaxQuantity)
	case item.Required && item.MinQuantity < 1:
		return fail("required item must have minQuantity of at least 1")
	}
	return nil
}

// ValidateSet validates every item and rejects duplicate product references.
// All problems are returned joined.
func ValidateSet(set *models.ProductSet) error {
	var errs []error
	seen := make(map[string]bool, len(set.Items))
	for i, item := range set.Items {
		if seen[item.ProductID] {
			errs = append(errs, &ItemError{Index: i, ProductID: item.ProductID, Reason: "duplicate product in set"})
			continue
		}
		seen[item.ProductID] = true
		if err := ValidateSetItem(i, item); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ItemErrors flattens the result of ValidateSet for API responses.
func ItemErrors(err error) []*ItemError {
	if err == nil {
		return nil
	}
	var out []*ItemError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, ItemErrors(e)...)
		}
		return out
	}
	var itemErr *ItemError
	if errors.As(err, &itemErr) {
		out = append(out, itemErr)
	}
	return out
}
