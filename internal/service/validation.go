package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"importexport-hub/internal/model"
	"importexport-hub/internal/repository"

	"github.com/go-playground/validator/v10"
)

const (
	defaultCatalogRating = 0
	defaultExportRating  = 4.5
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks v against its validate tags and reports failures per field
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return newValidationError(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// productRules is the shape every stored product must satisfy
type productRules struct {
	Name              string  `json:"name" validate:"required"`
	Image             string  `json:"image" validate:"required,url"`
	Price             float64 `json:"price" validate:"gte=0"`
	OriginCountry     string  `json:"originCountry" validate:"required"`
	Rating            float64 `json:"rating" validate:"gte=0,lte=5"`
	AvailableQuantity int     `json:"availableQuantity" validate:"gte=0"`
}

func validateProduct(p *model.Product) error {
	return Validate(productRules{
		Name:              p.Name,
		Image:             p.Image,
		Price:             p.Price,
		OriginCountry:     p.OriginCountry,
		Rating:            p.Rating,
		AvailableQuantity: p.AvailableQuantity,
	})
}

// ProductInput is the body accepted when a product is created.
// Country is accepted as an alias of OriginCountry.
type ProductInput struct {
	Name              string   `json:"name"`
	Image             string   `json:"image"`
	Price             *float64 `json:"price"`
	OriginCountry     string   `json:"originCountry"`
	Country           string   `json:"country"`
	Rating            *float64 `json:"rating"`
	AvailableQuantity *float64 `json:"availableQuantity"`
}

func (in ProductInput) origin() string {
	if s := strings.TrimSpace(in.OriginCountry); s != "" {
		return s
	}
	return strings.TrimSpace(in.Country)
}

// toProduct builds and validates a new product. Rating falls back to
// defaultRating when omitted, or also when zero if zeroIsOmitted is set.
func (in ProductInput) toProduct(defaultRating float64, zeroIsOmitted bool) (*model.Product, error) {
	fields := map[string]string{}

	p := &model.Product{
		Name:          strings.TrimSpace(in.Name),
		Image:         strings.TrimSpace(in.Image),
		OriginCountry: in.origin(),
		Rating:        defaultRating,
	}
	if in.Price == nil {
		fields["price"] = "price is required"
	} else {
		p.Price = *in.Price
	}
	if in.Rating != nil && !(zeroIsOmitted && *in.Rating == 0) {
		p.Rating = *in.Rating
	}
	if in.AvailableQuantity != nil {
		qty, ok := wholeNumber(*in.AvailableQuantity)
		if !ok {
			fields["availableQuantity"] = "availableQuantity must be an integer"
		}
		p.AvailableQuantity = qty
	}

	if err := validateProduct(p); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		for k, v := range verr.Fields {
			if _, seen := fields[k]; !seen {
				fields[k] = v
			}
		}
	}
	if err := newValidationError(fields); err != nil {
		return nil, err
	}
	return p, nil
}

// ProductPatch carries a partial product update; nil fields are left unchanged
type ProductPatch struct {
	Name              *string  `json:"name"`
	Image             *string  `json:"image"`
	Price             *float64 `json:"price"`
	OriginCountry     *string  `json:"originCountry"`
	Country           *string  `json:"country"`
	Rating            *float64 `json:"rating"`
	AvailableQuantity *float64 `json:"availableQuantity"`
}

// applyTo merges the patch into p and returns the fields it changed. With
// skipZero, provided fields holding a zero value are treated as omitted.
func (in ProductPatch) applyTo(p *model.Product, skipZero bool) (repository.ProductChanges, error) {
	var ch repository.ProductChanges
	setString := func(dst *string, src *string) *string {
		if src == nil {
			return nil
		}
		v := strings.TrimSpace(*src)
		if skipZero && v == "" {
			return nil
		}
		*dst = v
		return &v
	}
	setFloat := func(dst *float64, src *float64) *float64 {
		if src == nil || (skipZero && *src == 0) {
			return nil
		}
		v := *src
		*dst = v
		return &v
	}

	ch.Name = setString(&p.Name, in.Name)
	ch.Image = setString(&p.Image, in.Image)
	if in.OriginCountry != nil {
		ch.OriginCountry = setString(&p.OriginCountry, in.OriginCountry)
	} else {
		ch.OriginCountry = setString(&p.OriginCountry, in.Country)
	}
	ch.Price = setFloat(&p.Price, in.Price)
	ch.Rating = setFloat(&p.Rating, in.Rating)

	if in.AvailableQuantity != nil && !(skipZero && *in.AvailableQuantity == 0) {
		qty, ok := wholeNumber(*in.AvailableQuantity)
		if !ok {
			return ch, newValidationError(map[string]string{
				"availableQuantity": "availableQuantity must be an integer",
			})
		}
		p.AvailableQuantity = qty
		ch.AvailableQuantity = &qty
	}
	return ch, validateProduct(p)
}

func wholeNumber(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// ImportInput is the body accepted when stock is imported
type ImportInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}
