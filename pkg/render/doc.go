// Package render groups the stages that turn a planned card into pixels.
//
// # Subpackages
//
//   - [text]: measuring and greedy word wrapping, including CJK text
//     without spaces
//   - [layout]: card width, section heights, font sizes and every text
//     block's position, derived from the cover size and the content
//   - [effects]: cover fitting and the enhance, sharpen, gradient, vignette
//     and tint stages
//   - [compose]: drawing the layers with gg and applying the rounded mask
//
// Layout is pure arithmetic over font metrics; nothing is drawn until
// compose. This keeps the plan testable without rasterizing.
//
// [text]: github.com/matzehuels/workcard/pkg/render/text
// [layout]: github.com/matzehuels/workcard/pkg/render/layout
// [effects]: github.com/matzehuels/workcard/pkg/render/effects
// [compose]: github.com/matzehuels/workcard/pkg/render/compose
package render
