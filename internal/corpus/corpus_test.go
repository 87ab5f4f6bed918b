package corpus

import (
	"reflect"
	"testing"
)

func TestCorpusInsertionOrder(t *testing.T) {
	c := New()
	c.Add("rec_b", "second")
	c.Add("rec_a", "first")
	c.Add("rec_c", "third")

	if got := c.IDs(); !reflect.DeepEqual(got, []string{"rec_b", "rec_a", "rec_c"}) {
		t.Fatalf("IDs = %v", got)
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d", c.Len())
	}
}

func TestCorpusReAddUpdatesInPlace(t *testing.T) {
	c := New()
	c.Add("rec_1", "old")
	c.Add("rec_2", "other")
	c.Add("rec_1", "new")

	if content, ok := c.Get("rec_1"); !ok || content != "new" {
		t.Fatalf("Get(rec_1) = %q, %v", content, ok)
	}
	if got := c.IDs(); !reflect.DeepEqual(got, []string{"rec_1", "rec_2"}) {
		t.Fatalf("re-add moved the record: %v", got)
	}
}

func TestCorpusIgnoresEmptyID(t *testing.T) {
	c := New()
	c.Add("", "content")
	if c.Len() != 0 {
		t.Fatalf("empty id was stored")
	}
}

func TestCorpusGetMissing(t *testing.T) {
	c := New()
	if content, ok := c.Get("nope"); ok || content != "" {
		t.Fatalf("Get(nope) = %q, %v", content, ok)
	}
}
