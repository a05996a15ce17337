package render

// CubeVertices are the eight corners of the unit cube. The positions double
// as colors and 3D texture coordinates, so the back-face pass writes exit
// points directly.
var CubeVertices = [24]float32{
	0, 0, 0,
	0, 0, 1,
	0, 1, 0,
	0, 1, 1,
	1, 0, 0,
	1, 0, 1,
	1, 1, 0,
	1, 1, 1,
}

// CubeIndices are the twelve triangles of the cube, counter-clockwise when
// seen from outside.
var CubeIndices = [36]uint32{
	1, 5, 7,
	7, 3, 1,
	0, 2, 6,
	6, 4, 0,
	0, 1, 3,
	3, 2, 0,
	7, 5, 4,
	4, 6, 7,
	2, 3, 7,
	7, 6, 2,
	1, 0, 4,
	4, 5, 1,
}
