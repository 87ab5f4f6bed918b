// Package corpus builds the read-only id-to-content mapping of feedback
// records that quote verification runs against.
package corpus

// Corpus is an immutable mapping from feedback record id to verbatim
// content. It preserves insertion order so that scans over all records
// (for misattribution detection) are deterministic. Built once per run;
// safe for concurrent readers after construction.
type Corpus struct {
	ids     []string
	content map[string]string
}

// New creates an empty corpus.
func New() *Corpus {
	return &Corpus{content: make(map[string]string)}
}

// Add inserts a record. Re-adding an existing id updates the content
// without changing its position.
func (c *Corpus) Add(id, content string) {
	if id == "" {
		return
	}
	if _, ok := c.content[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.content[id] = content
}

// Get returns the content for a record id.
func (c *Corpus) Get(id string) (string, bool) {
	content, ok := c.content[id]
	return content, ok
}

// IDs returns record ids in insertion order. The returned slice must
// not be modified.
func (c *Corpus) IDs() []string {
	return c.ids
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	return len(c.ids)
}
