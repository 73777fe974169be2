// Package pkg provides the libraries behind workcard, a renderer that turns
// creative-work records into adaptive PNG cards.
//
// # Overview
//
// A card has three stacked sections: the processed cover image, an author
// bar, and an info block with title, categories and stats. Card width follows
// the cover's native width within configured bounds and every section height
// follows from the measured content, so no text is clipped and no space is
// left over.
//
// The pkg directory is organized into these areas:
//
//  1. Domain: [record] (the work record), [theme] (palettes per category)
//  2. Rendering: [render/text], [render/layout], [render/effects],
//     [render/compose] and [fonts]
//  3. Infrastructure: [assets] (image download with retry and placeholder),
//     [cache] (asset bytes), [store] (rendered-card index), [httputil]
//  4. Orchestration: [pipeline] (Renderer and batch rendering)
//  5. Support: [errors], [observability], [io], [buildinfo]
//
// # Architecture
//
// The typical data flow through a render:
//
//	record.Work + variant
//	         ↓
//	    [theme] resolve palette
//	         ↓
//	    [assets] fetch cover and avatar (concurrently, via [cache])
//	         ↓
//	    [render/layout] plan width, sections, wrapped text
//	         ↓
//	    [render/effects] fit and enhance the cover
//	         ↓
//	    [render/compose] draw layers, mask corners
//	         ↓
//	    {id}_{YYYYMMDD_HHMMSS}.png (+ [store] entry)
//
// # Quick Start
//
//	cfg := pipeline.DefaultConfig()
//	cfg.FontPath = "NotoSansSC-Regular.ttf"
//
//	r, err := pipeline.New(cfg)
//	if err != nil {
//	    return err
//	}
//	card, err := r.Render(ctx, &rec, "")
//
// [record]: github.com/matzehuels/workcard/pkg/record
// [theme]: github.com/matzehuels/workcard/pkg/theme
// [render/text]: github.com/matzehuels/workcard/pkg/render/text
// [render/layout]: github.com/matzehuels/workcard/pkg/render/layout
// [render/effects]: github.com/matzehuels/workcard/pkg/render/effects
// [render/compose]: github.com/matzehuels/workcard/pkg/render/compose
// [fonts]: github.com/matzehuels/workcard/pkg/fonts
// [assets]: github.com/matzehuels/workcard/pkg/assets
// [cache]: github.com/matzehuels/workcard/pkg/cache
// [store]: github.com/matzehuels/workcard/pkg/store
// [httputil]: github.com/matzehuels/workcard/pkg/httputil
// [pipeline]: github.com/matzehuels/workcard/pkg/pipeline
// [errors]: github.com/matzehuels/workcard/pkg/errors
// [observability]: github.com/matzehuels/workcard/pkg/observability
// [io]: github.com/matzehuels/workcard/pkg/io
// [buildinfo]: github.com/matzehuels/workcard/pkg/buildinfo
package pkg
