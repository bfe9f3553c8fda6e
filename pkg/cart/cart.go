// Package cart holds the items a guest is about to order.
package cart

import "sync"

// Item is what gets added to a cart, usually a projection of a menu item.
type Item struct {
	ID    string
	Name  string
	Price int64
}

// Line is one menu item and its ordered quantity. Name and UnitPrice are
// captured when the item is first added.
type Line struct {
	ItemID    string `json:"itemId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// Total returns UnitPrice * Quantity.
func (l Line) Total() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart is the single source of truth for what is being ordered in a session.
// Lines keep insertion order for display. Totals are computed on every read.
type Cart struct {
	mu       sync.Mutex
	lines    map[string]*Line
	order    []string
	table    string
	customer string
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{lines: make(map[string]*Line)}
}

// AddItem increments the quantity of the item's line, creating the line with
// quantity 1 when the item is not in the cart yet. The resulting line is
// returned so the caller can acknowledge the add.
func (c *Cart) AddItem(item Item) Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.lines[item.ID]; ok {
		l.Quantity++
		return *l
	}
	l := &Line{ItemID: item.ID, Name: item.Name, UnitPrice: item.Price, Quantity: 1}
	c.lines[item.ID] = l
	c.order = append(c.order, item.ID)
	return *l
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. It reports whether the item was in the cart.
func (c *Cart) UpdateQuantity(id string, quantity int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if quantity <= 0 {
		return c.remove(id)
	}
	l, ok := c.lines[id]
	if !ok {
		return false
	}
	l.Quantity = quantity
	return true
}

// RemoveItem deletes the line for id and reports whether it existed.
func (c *Cart) RemoveItem(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(id)
}

func (c *Cart) remove(id string) bool {
	if _, ok := c.lines[id]; !ok {
		return false
	}
	delete(c.lines, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear empties all lines. Table number and customer name are kept.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
}

func (c *Cart) clear() {
	c.lines = make(map[string]*Line)
	c.order = nil
}

// Reset empties the cart and clears the table number and customer name.
func (c *Cart) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
	c.table = ""
	c.customer = ""
}

// SetTableNumber stores the free-text table identifier as given.
func (c *Cart) SetTableNumber(v string) {
	c.mu.Lock()
	c.table = v
	c.mu.Unlock()
}

// SetCustomerName stores the optional customer name as given.
func (c *Cart) SetCustomerName(v string) {
	c.mu.Lock()
	c.customer = v
	c.mu.Unlock()
}

// TableNumber returns the table identifier.
func (c *Cart) TableNumber() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table
}

// CustomerName returns the customer name, empty when not set.
func (c *Cart) CustomerName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.customer
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Line returns the line for id.
func (c *Cart) Line(id string) (Line, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.lines[id]
	if !ok {
		return Line{}, false
	}
	return *l, true
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLines()
}

func (c *Cart) copyLines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// TotalItemCount returns the sum of all quantities.
func (c *Cart) TotalItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice returns the sum of quantity * unit price over all lines.
func (c *Cart) TotalPrice() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPrice()
}

func (c *Cart) totalPrice() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Total()
	}
	return total
}
