// Package tilepyramid builds a zoomable pyramid of vector tiles from a set
// of projected features, in the manner of mapbox/geojson-vt: recursive
// quadtree subdivision with Douglas-Peucker simplification and
// Sutherland-Hodgman clipping at each level, either eagerly up to an index
// zoom or lazily on first access beyond it.
package tilepyramid
