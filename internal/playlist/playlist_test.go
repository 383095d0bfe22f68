package playlist

import "testing"

func TestCloneIsIndependent(t *testing.T) {
	orig := Item{
		ID:    "vid1",
		URL:   "https://example.com/watch?v=vid1",
		Title: "First",
		Index: 3,
		Extra: map[string]string{"token": "abc"},
	}

	clone := orig.Clone()
	clone.Extra["token"] = "xyz"
	clone.Title = "Changed"

	if orig.Extra["token"] != "abc" {
		t.Errorf("mutating clone Extra changed original: %q", orig.Extra["token"])
	}
	if orig.Title != "First" {
		t.Errorf("mutating clone changed original title: %q", orig.Title)
	}
	if clone.ID != orig.ID || clone.URL != orig.URL || clone.Index != orig.Index {
		t.Error("clone lost scalar fields")
	}
}

func TestCloneNilExtra(t *testing.T) {
	clone := Item{ID: "vid2"}.Clone()
	if clone.Extra != nil {
		t.Error("expected nil Extra to stay nil")
	}
}
