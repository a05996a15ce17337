package models

import "fmt"

// VolumeField represents a scalar 3D volume loaded from a raw scan
type VolumeField struct {
	// Data is the scalar grid as a 1D array, x fastest, then y, then z.
	// Values are normalized to [0,1].
	Data []float32

	// Width is the width of the volume in voxels
	Width int

	// Height is the height of the volume in voxels
	Height int

	// Depth is the number of cuts along z
	Depth int

	// BitsPerSample is the sample width of the source file (8 or 16)
	BitsPerSample int
}

// Len returns the number of voxels described by the dimensions.
func (v *VolumeField) Len() int {
	return v.Width * v.Height * v.Depth
}

// Index returns the flat offset of voxel (x, y, z).
func (v *VolumeField) Index(x, y, z int) int {
	return z*v.Width*v.Height + y*v.Width + x
}

// At returns the normalized sample at (x, y, z). Coordinates are not checked.
func (v *VolumeField) At(x, y, z int) float32 {
	return v.Data[v.Index(x, y, z)]
}

// Validate checks that the dimensions are positive and match the data length.
func (v *VolumeField) Validate() error {
	if v.Width <= 0 || v.Height <= 0 || v.Depth <= 0 {
		return fmt.Errorf("invalid volume dimensions %dx%dx%d", v.Width, v.Height, v.Depth)
	}
	if len(v.Data) != v.Len() {
		return fmt.Errorf("volume data length %d does not match %dx%dx%d", len(v.Data), v.Width, v.Height, v.Depth)
	}
	return nil
}

// Axis identifies one of the volume's principal axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis accepts "x", "y" or "z" in either case.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", s)
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}
