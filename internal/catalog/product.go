package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Product is the central catalog entity. The remote service owns every field
// except IsFavorite, which is local-only: the remote API has no notion of
// favorites, so the flag is never sent upstream and never arrives downstream.
type Product struct {
	Name       string  `json:"product_name"`
	Type       string  `json:"product_type"`
	Price      float64 `json:"price"`
	Tax        float64 `json:"tax"`
	Image      string  `json:"image,omitempty"`
	IsFavorite bool    `json:"is_favorite"`
}

// Product names are the natural key: the cache keys on them and favorite
// state is joined on them. There is no generated identifier.

const (
	TypeProduct     = "Product"
	TypeService     = "Service"
	TypeElectronics = "Electronics"
	TypeClothing    = "Clothing"
	TypeOthers      = "Others"
	TypeGroceries   = "Groceries"
)

// ProductTypes lists the selectable product types. The value is stored as
// free text, so unknown types coming back from the remote are accepted as-is.
var ProductTypes = []string{
	TypeProduct,
	TypeService,
	TypeElectronics,
	TypeClothing,
	TypeOthers,
	TypeGroceries,
}

// ValidationError reports which submission field failed and carries the
// user-facing message for it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

var (
	errNameRequired = &ValidationError{Field: "product_name", Message: "Product name is required"}
	errInvalidPrice = &ValidationError{Field: "price", Message: "Invalid price"}
	errInvalidTax   = &ValidationError{Field: "tax", Message: "Invalid tax rate"}
)

// AddProductInput carries the raw submission fields. Price and tax arrive as
// strings, exactly as the form presents them; parsing is part of validation.
type AddProductInput struct {
	Name  string
	Type  string
	Price string
	Tax   string
}

// Validate checks the input and, when it passes, returns the Product ready to
// submit. Validation happens before any network call: an empty name, a price
// that is not a positive number, or a tax that is not a non-negative number
// each block submission with a field-specific message.
func (in AddProductInput) Validate() (Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Product{}, errNameRequired
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if err != nil || price <= 0 {
		return Product{}, errInvalidPrice
	}

	tax, err := strconv.ParseFloat(strings.TrimSpace(in.Tax), 64)
	if err != nil || tax < 0 {
		return Product{}, errInvalidTax
	}

	typ := strings.TrimSpace(in.Type)
	if typ == "" {
		typ = TypeProduct
	}

	return Product{
		Name:  name,
		Type:  typ,
		Price: price,
		Tax:   tax,
	}, nil
}

// AsValidation unwraps err as a *ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
