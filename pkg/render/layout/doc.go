// Package layout computes card geometry from the cover's intrinsic size and
// the measured text content.
//
// # Overview
//
// A card is three stacked sections: the cover, the author bar, and the info
// block. [Planner.Plan] derives everything the compositor needs before any
// pixel is drawn:
//
//  1. Card width: the cover width clamped to [Bounds.MinWidth, Bounds.MaxWidth].
//  2. Cover height: the cover's aspect ratio applied to the card width, then
//     clamped to [0.4, 0.8] of the width so no source produces a sliver or a
//     tower.
//  3. Typography: every [Role] scales by width/[BaseWidth], with a per-role
//     floor. Sizes never decrease as the width grows.
//  4. Padding: a fixed fraction of the width.
//  5. Section heights: accumulated from wrapped, measured text blocks, so
//     long titles grow the info block instead of overflowing it.
//
// The resulting [Plan] satisfies Height == CoverHeight + AuthorBarHeight +
// InfoHeight exactly and is never adjusted after it is returned.
package layout
