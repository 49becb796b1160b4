package evidence

// CitationSet collects citation locators in first-seen order, deduplicating
// by exact string equality. The position of a locator (1-indexed) is the
// number used to reference it as [i] in the final report.
type CitationSet struct {
	order []string
	seen  map[string]struct{}
}

// NewCitationSet returns an empty citation set.
func NewCitationSet() *CitationSet {
	return &CitationSet{seen: make(map[string]struct{})}
}

// Add inserts a locator if it has not been seen before. It reports whether
// the locator was newly added.
func (c *CitationSet) Add(locator string) bool {
	if _, ok := c.seen[locator]; ok {
		return false
	}
	c.seen[locator] = struct{}{}
	c.order = append(c.order, locator)
	return true
}

// AddAll inserts each locator in order, skipping duplicates.
func (c *CitationSet) AddAll(locators []string) {
	for _, l := range locators {
		c.Add(l)
	}
}

// List returns the locators in first-seen order.
func (c *CitationSet) List() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of distinct locators collected.
func (c *CitationSet) Len() int { return len(c.order) }
