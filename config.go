package backdrop

// Config describes one background.
type Config struct {
	// ContainerID is the id of the element the surface is attached to.
	ContainerID string

	// Color1 and Color2 are the gradient endpoints. Color1 is used at the
	// (-20, -20, -20) corner of the cloud, Color2 at (20, 20, 20).
	Color1 Color
	Color2 Color
}

// DefaultConfig returns the configuration for containerID with the default
// colors.
func DefaultConfig(containerID string) Config {
	return Config{
		ContainerID: containerID,
		Color1:      DefaultColor1,
		Color2:      DefaultColor2,
	}
}

// Equal reports whether c and other describe the same background.
func (c Config) Equal(other Config) bool {
	return c.ContainerID == other.ContainerID &&
		c.Color1 == other.Color1 &&
		c.Color2 == other.Color2
}
