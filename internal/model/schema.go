package model

import (
	"fmt"
	"slices"
	"strings"
)

// CustomizationOptions are the choices a product offers. Stored as JSONB.
type CustomizationOptions struct {
	Colors    []string `json:"colors,omitempty"`
	Sizes     []string `json:"sizes,omitempty"`
	Materials []string `json:"materials,omitempty"`
}

// Customization is the set of choices made for one cart or order line.
type Customization struct {
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	Material  string `json:"material,omitempty"`
	Placement string `json:"placement,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// CheckAgainst reports the first choice that the product does not offer. A
// product that offers a dimension requires a choice for it; a product that
// does not offer one rejects any choice for it.
func (c Customization) CheckAgainst(opts CustomizationOptions) error {
	if err := checkChoice("color", c.Color, opts.Colors); err != nil {
		return err
	}
	if err := checkChoice("size", c.Size, opts.Sizes); err != nil {
		return err
	}
	return checkChoice("material", c.Material, opts.Materials)
}

func checkChoice(field, value string, allowed []string) error {
	switch {
	case len(allowed) == 0 && value != "":
		return fmt.Errorf("%s is not customizable", field)
	case len(allowed) > 0 && value == "":
		return fmt.Errorf("%s is required", field)
	case len(allowed) > 0 && !slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, value) }):
		return fmt.Errorf("%s %q is not offered", field, value)
	}
	return nil
}

type SocialLinks struct {
	Website   string `json:"website,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Behance   string `json:"behance,omitempty"`
}

type ShippingAddress struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}
