// Package viz draws bodies onto a braille canvas for terminal views.
//
//   - [Canvas]: braille dot matrix, 2x4 dots per character
//   - [Camera]: orthographic projection with optional log distance scaling
//   - [SkyMap]: bodies and trails around a floating origin
//
// Positions are projected with single-precision translations taken relative
// to the chosen origin, so the map stays sharp at any distance from the
// scene origin.
package viz
