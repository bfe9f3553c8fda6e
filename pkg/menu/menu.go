// Package menu serves the restaurant and bar menu guests order from.
package menu

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Category groups menu items on the menu page.
type Category string

const (
	CategoryAll    Category = "all"
	CategoryFood   Category = "food"
	CategoryDrinks Category = "drinks"
	CategorySnacks Category = "snacks"
)

// Currency is the code prices are expressed in, in whole francs.
const Currency = "RWF"

// Item is a dish or drink on the menu. Price is in minor currency units.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory"`
	Popular     bool     `json:"popular,omitempty"`
}

// ErrNotFound indicates no menu item has the requested id.
var ErrNotFound = errors.New("menu item not found")

//go:embed menu.json
var seed []byte

// Catalog is a read-only, ordered set of menu items.
type Catalog struct {
	items []Item
	byID  map[string]int
}

// New builds a catalog. Item ids must be unique and prices non-negative.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{items: make([]Item, 0, len(items)), byID: make(map[string]int, len(items))}
	for _, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("menu item %q has no id", it.Name)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("duplicate menu item id %q", it.ID)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("menu item %q has negative price", it.ID)
		}
		c.byID[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return c, nil
}

// Default returns the park's current menu.
func Default() *Catalog {
	var items []Item
	if err := json.Unmarshal(seed, &items); err != nil {
		panic(fmt.Sprintf("menu seed: %v", err))
	}
	c, err := New(items)
	if err != nil {
		panic(fmt.Sprintf("menu seed: %v", err))
	}
	return c
}

// Get returns the item with the given id.
func (c *Catalog) Get(id string) (Item, error) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return c.items[i], nil
}

// List returns the items of a category in menu order. An empty category or
// CategoryAll lists everything.
func (c *Catalog) List(category Category) []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if category == "" || category == CategoryAll || it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// Popular returns the items flagged as popular.
func (c *Catalog) Popular() []Item {
	var out []Item
	for _, it := range c.items {
		if it.Popular {
			out = append(out, it)
		}
	}
	return out
}

// Categories returns the filters shown above the menu.
func Categories() []Category {
	return []Category{CategoryAll, CategoryFood, CategoryDrinks, CategorySnacks}
}

var printer = message.NewPrinter(language.English)

// FormatPrice renders an amount the way the menu displays it, e.g. "8,500 RWF".
func FormatPrice(amount int64) string {
	return printer.Sprintf("%d %s", amount, Currency)
}
