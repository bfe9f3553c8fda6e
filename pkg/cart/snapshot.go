package cart

// Snapshot is an immutable copy of a cart taken at one instant.
type Snapshot struct {
	TableNumber  string
	CustomerName string
	Lines        []Line
	TotalPrice   int64
}

// ItemCount returns the sum of the snapshot's quantities.
func (s Snapshot) ItemCount() int {
	n := 0
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}

// Snapshot copies the current cart contents.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		TableNumber:  c.table,
		CustomerName: c.customer,
		Lines:        c.copyLines(),
		TotalPrice:   c.totalPrice(),
	}
}

// Settle takes the snapshot's lines out of the cart after the order they
// describe has been placed. Quantities added since the snapshot stay in the
// cart. Table number and customer name are cleared only when they still hold
// the snapshot's values. Without intervening mutations the cart ends empty.
func (c *Cart) Settle(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sl := range s.Lines {
		l, ok := c.lines[sl.ItemID]
		if !ok {
			continue
		}
		l.Quantity -= sl.Quantity
		if l.Quantity <= 0 {
			c.remove(sl.ItemID)
		}
	}
	if c.table == s.TableNumber {
		c.table = ""
	}
	if c.customer == s.CustomerName {
		c.customer = ""
	}
}
