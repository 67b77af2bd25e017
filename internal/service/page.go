package service

// Page selects a slice of an ordered sequence.
type Page struct {
	Start int64
	Count int64
}

// DefaultPage is the slice used when a caller supplies no pagination.
func DefaultPage() Page {
	return Page{Start: 0, Count: 10}
}

// normalize replaces out-of-range fields with their defaults.
func (p Page) normalize() Page {
	def := DefaultPage()
	if p.Start < 0 {
		p.Start = def.Start
	}
	if p.Count <= 0 {
		p.Count = def.Count
	}
	return p
}
