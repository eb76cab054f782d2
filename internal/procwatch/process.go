package procwatch

// Process is one entry of a process snapshot. Path is empty when the image
// path could not be read (protected and system processes).
type Process struct {
	PID  uint32
	Name string
	Path string
}

// Lister takes process snapshots.
type Lister interface {
	Processes() ([]Process, error)
}
