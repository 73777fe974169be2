package record

import (
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/workcard/pkg/errors"
)

func validWork() Work {
	return Work{
		ID:         1770552,
		Title:      "Dark Dancer",
		CoverURL:   "https://cdn.example.com/cover.jpg",
		Author:     "anka",
		Category:   "game",
		Views:      129,
		Popularity: 6700,
		CreatedAt:  time.Date(2025, 2, 17, 9, 30, 0, 0, time.UTC),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(w *Work)
		wantErr bool
	}{
		{"valid", func(w *Work) {}, false},
		{"valid article", func(w *Work) { w.Kind = KindArticle }, false},
		{"missing id", func(w *Work) { w.ID = 0 }, true},
		{"blank title", func(w *Work) { w.Title = "   " }, true},
		{"missing cover", func(w *Work) { w.CoverURL = "" }, true},
		{"bad cover scheme", func(w *Work) { w.CoverURL = "file:///etc/passwd" }, true},
		{"bad avatar scheme", func(w *Work) { w.AvatarURL = "ftp://x/a.png" }, true},
		{"negative views", func(w *Work) { w.Views = -1 }, true},
		{"unknown kind", func(w *Work) { w.Kind = "video" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := validWork()
			tt.mutate(&w)
			err := w.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeMalformedRecord) {
				t.Errorf("GetCode() = %v, want %v", errors.GetCode(err), errors.ErrCodeMalformedRecord)
			}
		})
	}
}

func TestDetailURL(t *testing.T) {
	w := validWork()
	if got, want := w.DetailURL(""), "https://www.ggac.com/work/detail/1770552"; got != want {
		t.Errorf("DetailURL() = %q, want %q", got, want)
	}
	if got, want := w.DetailURL("example.org"), "https://example.org/work/detail/1770552"; got != want {
		t.Errorf("DetailURL(host) = %q, want %q", got, want)
	}

	w.Kind = KindArticle
	if got, want := w.DetailURL(""), "https://www.ggac.com/article/detail/1770552"; got != want {
		t.Errorf("DetailURL(article) = %q, want %q", got, want)
	}

	w.Link = "https://elsewhere.example/x"
	if got := w.DetailURL(""); got != w.Link {
		t.Errorf("DetailURL() with Link = %q, want %q", got, w.Link)
	}
}

func TestCategoryLabels(t *testing.T) {
	tests := []struct {
		name string
		top  string
		subs []Category
		want []string
	}{
		{"subs", "game", []Category{{Name: "anime"}, {Name: " "}, {Name: "original"}}, []string{"anime", "original"}},
		{"empty subs falls back to top", "game", nil, []string{"game"}},
		{"blank subs falls back to top", "game", []Category{{Name: ""}}, []string{"game"}},
		{"nothing", "", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := validWork()
			w.Category = tt.top
			w.SubCategories = tt.subs
			if got := w.CategoryLabels(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CategoryLabels() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
