package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/workcard/pkg/assets"
	"github.com/matzehuels/workcard/pkg/errors"
	"github.com/matzehuels/workcard/pkg/observability"
	"github.com/matzehuels/workcard/pkg/record"
	"github.com/matzehuels/workcard/pkg/render/compose"
	"github.com/matzehuels/workcard/pkg/render/effects"
	"github.com/matzehuels/workcard/pkg/render/layout"
	"github.com/matzehuels/workcard/pkg/store"
	"github.com/matzehuels/workcard/pkg/theme"
)

// FileTimeLayout is the timestamp part of a card file name.
const FileTimeLayout = "20060102_150405"

// Degraded asset names reported on a [Card].
const (
	AssetCover  = "cover"
	AssetAvatar = "avatar"
)

// Card is one rendered card. It is write-once and identified by RecordID and
// GeneratedAt.
type Card struct {
	RecordID    int64
	Image       *image.NRGBA
	Path        string
	DetailURL   string
	GeneratedAt time.Time
	Theme       string

	// Degraded lists the assets that were substituted, with their causes.
	Degraded []string
	Causes   []error
}

// FileName is the base name a card for id rendered at t is written to.
func FileName(id int64, t time.Time) string {
	return strconv.FormatInt(id, 10) + "_" + t.Format(FileTimeLayout) + ".png"
}

// Render produces the card for rec. variant is an optional theme selector;
// empty means the record's category decides. rec is never modified.
func (r *Renderer) Render(ctx context.Context, rec *record.Work, variant string) (card *Card, err error) {
	if rec == nil {
		return nil, errors.New(errors.ErrCodeMalformedRecord, "nil work record")
	}
	start := time.Now()
	observability.Render().OnRenderStart(ctx, rec.ID)
	defer func() {
		observability.Render().OnRenderComplete(ctx, rec.ID, time.Since(start), err)
	}()

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	th, err := theme.Select(variant, rec.Category)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidVariant, err, "record %d", rec.ID)
	}

	cover, avatar := r.fetchAssets(ctx, rec)

	content := layout.ContentFor(rec)
	plan := r.planner.Plan(cover.Image.Bounds().Size(), content)

	fitted := effects.Fit(cover.Image, plan.Width, plan.CoverHeight)
	layers := compose.Layers{
		Plan:      plan,
		Theme:     th,
		Font:      r.font,
		Cover:     effects.Apply(fitted, th, r.effects),
		DetailURL: rec.DetailURL(r.cfg.DetailHost),
	}
	if avatar != nil && !avatar.Placeholder {
		layers.Avatar = avatar.Image
	}
	img := compose.Compose(layers, r.cfg.CornerRadius)

	now := r.clock()
	path := filepath.Join(r.cfg.OutputDir, FileName(rec.ID, now))
	if err := writePNG(path, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeWrite, err, "write card for record %d", rec.ID)
	}

	card = &Card{
		RecordID:    rec.ID,
		Image:       img,
		Path:        path,
		DetailURL:   layers.DetailURL,
		GeneratedAt: now,
		Theme:       th.Name,
	}
	if cover.Placeholder {
		card.Degraded = append(card.Degraded, AssetCover)
		card.Causes = append(card.Causes, cover.Cause)
	}
	if avatar != nil && avatar.Placeholder {
		card.Degraded = append(card.Degraded, AssetAvatar)
		card.Causes = append(card.Causes, avatar.Cause)
	}

	r.index(ctx, card)
	r.logger.Info("rendered card",
		"id", rec.ID,
		"path", path,
		"theme", th.Name,
		"size", fmt.Sprintf("%dx%d", plan.Width, plan.Height),
		"degraded", card.Degraded,
		"duration", time.Since(start))
	return card, nil
}

// fetchAssets downloads the cover and, if present, the avatar concurrently.
// The avatar result is nil when the record has no avatar.
func (r *Renderer) fetchAssets(ctx context.Context, rec *record.Work) (cover assets.Asset, avatar *assets.Asset) {
	var g errgroup.Group
	g.Go(func() error {
		cover = r.fetcher.Fetch(ctx, rec.CoverURL)
		return nil
	})
	if rec.AvatarURL != "" {
		g.Go(func() error {
			a := r.fetcher.Fetch(ctx, rec.AvatarURL)
			avatar = &a
			return nil
		})
	}
	_ = g.Wait()
	if cover.Image == nil {
		cover = assets.Asset{
			Image:       assets.Placeholder(),
			Placeholder: true,
			Cause:       errors.New(errors.ErrCodeAssetUnavailable, "fetcher returned no image for %s", rec.CoverURL),
		}
	}
	return cover, avatar
}

// Entry is the index entry describing c.
func (c *Card) Entry(batchID string) store.Entry {
	b := c.Image.Bounds()
	return store.Entry{
		RecordID:    c.RecordID,
		GeneratedAt: c.GeneratedAt,
		Path:        c.Path,
		DetailURL:   c.DetailURL,
		Theme:       c.Theme,
		Width:       b.Dx(),
		Height:      b.Dy(),
		Degraded:    c.Degraded,
		BatchID:     batchID,
	}
}

// index saves card in the store. The PNG is already on disk, so failures are
// logged and swallowed.
func (r *Renderer) index(ctx context.Context, card *Card) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, card.Entry(batchIDFrom(ctx))); err != nil {
		r.logger.Warn("could not index card", "id", card.RecordID, "path", card.Path, "error", err)
	}
}

// writePNG encodes img and replaces path atomically.
func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".card-*.png")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
