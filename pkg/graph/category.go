package graph

import "strings"

// Category is the closed set of entity kinds a node can belong to.
// Adding a category means adding a constant here and a case in [StyleOf].
type Category int

const (
	// Unknown is the fallback for categories outside the known set.
	Unknown Category = iota
	Module
	Contact
	Company
	Asset
	Deal
	User
	Agent
	Product
	Service
	Infrastructure
)

var categoryNames = [...]string{
	Unknown:        "unknown",
	Module:         "module",
	Contact:        "contact",
	Company:        "company",
	Asset:          "asset",
	Deal:           "deal",
	User:           "user",
	Agent:          "agent",
	Product:        "product",
	Service:        "service",
	Infrastructure: "infrastructure",
}

// Categories returns the known categories in legend order.
func Categories() []Category {
	return []Category{Module, Contact, Company, Asset, Deal, User, Agent, Product, Service, Infrastructure}
}

// ParseCategory maps a name to a Category, ignoring case and surrounding
// space. Unrecognized names map to Unknown.
func ParseCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range categoryNames {
		if name == s {
			return Category(c)
		}
	}
	return Unknown
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return categoryNames[Unknown]
	}
	return categoryNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It never fails.
func (c *Category) UnmarshalText(b []byte) error {
	*c = ParseCategory(string(b))
	return nil
}

// Style is the default appearance of a category.
type Style struct {
	Color  string  // hex color, #rrggbb
	Radius float64 // world units
}

// StyleOf returns the default style for c.
func StyleOf(c Category) Style {
	switch c {
	case Module:
		return Style{Color: "#6366f1", Radius: 20}
	case Contact:
		return Style{Color: "#22c55e", Radius: 12}
	case Company:
		return Style{Color: "#f59e0b", Radius: 16}
	case Asset:
		return Style{Color: "#14b8a6", Radius: 12}
	case Deal:
		return Style{Color: "#ec4899", Radius: 12}
	case User:
		return Style{Color: "#3b82f6", Radius: 12}
	case Agent:
		return Style{Color: "#a855f7", Radius: 14}
	case Product:
		return Style{Color: "#ef4444", Radius: 14}
	case Service:
		return Style{Color: "#06b6d4", Radius: 16}
	case Infrastructure:
		return Style{Color: "#84cc16", Radius: 18}
	case Unknown:
		return Style{Color: "#64748b", Radius: 12}
	}
	return StyleOf(Unknown)
}
