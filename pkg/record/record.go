// Package record defines the work record a card is rendered from.
//
// A [Work] is produced by whatever scrapes the source site and is treated as
// immutable by the renderer: nothing in this module writes to one after it is
// decoded. Validation happens once, at the start of a render, through
// [Work.Validate].
package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/workcard/pkg/errors"
)

// DefaultHost is the site that detail links point at when a record carries
// no link of its own.
const DefaultHost = "www.ggac.com"

// Kind distinguishes regular works from articles. They share one record type;
// only the detail link differs.
type Kind string

const (
	KindWork    Kind = "work"
	KindArticle Kind = "article"
)

// Category is one sub-category label attached to a work.
type Category struct {
	ID    int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Level int    `json:"level,omitempty" yaml:"level,omitempty"`
	Name  string `json:"name" yaml:"name"`
	Code  string `json:"code,omitempty" yaml:"code,omitempty"`
}

// Work is a creative-work record.
type Work struct {
	ID            int64      `json:"id" yaml:"id"`
	Kind          Kind       `json:"kind,omitempty" yaml:"kind,omitempty"`
	Title         string     `json:"title" yaml:"title"`
	CoverURL      string     `json:"cover_url" yaml:"cover_url"`
	Author        string     `json:"author" yaml:"author"`
	AvatarURL     string     `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
	Category      string     `json:"category,omitempty" yaml:"category,omitempty"`
	MediaCategory string     `json:"media_category,omitempty" yaml:"media_category,omitempty"`
	SubCategories []Category `json:"sub_categories,omitempty" yaml:"sub_categories,omitempty"`
	Views         int64      `json:"views" yaml:"views"`
	Popularity    int64      `json:"popularity" yaml:"popularity"`
	CreatedAt     time.Time  `json:"created_at" yaml:"created_at"`
	Link          string     `json:"link,omitempty" yaml:"link,omitempty"`
}

// Validate reports every missing or invalid required field as a single
// MALFORMED_RECORD error.
func (w *Work) Validate() error {
	v := &errors.ValidationError{Code: errors.ErrCodeMalformedRecord, What: "work record " + strconv.FormatInt(w.ID, 10)}
	if w.ID <= 0 {
		v.Add("id", "must be positive")
	}
	if strings.TrimSpace(w.Title) == "" {
		v.Add("title", "is required")
	}
	if w.CoverURL == "" {
		v.Add("cover_url", "is required")
	} else if err := errors.ValidateURL(w.CoverURL); err != nil {
		v.Add("cover_url", errors.UserMessage(err))
	}
	if w.AvatarURL != "" {
		if err := errors.ValidateURL(w.AvatarURL); err != nil {
			v.Add("avatar_url", errors.UserMessage(err))
		}
	}
	if w.Views < 0 {
		v.Add("views", "cannot be negative")
	}
	if w.Popularity < 0 {
		v.Add("popularity", "cannot be negative")
	}
	switch w.Kind {
	case "", KindWork, KindArticle:
	default:
		v.Add("kind", fmt.Sprintf("unknown kind %q", w.Kind))
	}
	return v.Err()
}

// DetailURL returns the canonical detail link. An explicit Link wins;
// otherwise the link is derived from the ID and the record kind.
func (w *Work) DetailURL(host string) string {
	if w.Link != "" {
		return w.Link
	}
	if host == "" {
		host = DefaultHost
	}
	kind := w.Kind
	if kind == "" {
		kind = KindWork
	}
	return fmt.Sprintf("https://%s/%s/detail/%d", host, kind, w.ID)
}

// CategoryLabels returns the sub-category names with blanks dropped. An
// empty sub-category list falls back to the top-level category alone, and
// the result is empty only when both are missing.
func (w *Work) CategoryLabels() []string {
	labels := make([]string, 0, len(w.SubCategories))
	for _, c := range w.SubCategories {
		if name := strings.TrimSpace(c.Name); name != "" {
			labels = append(labels, name)
		}
	}
	if len(labels) == 0 {
		if top := strings.TrimSpace(w.Category); top != "" {
			labels = append(labels, top)
		}
	}
	return labels
}
