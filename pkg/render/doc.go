// Package render holds the GPU-independent half of the ray-casting pipeline:
// camera matrices, the bounding cube geometry, lookup-table packing, the
// litsphere style bank and screenshot encoding.
//
// The OpenGL half lives in package gpu; everything here can be tested without
// a GL context.
package render
