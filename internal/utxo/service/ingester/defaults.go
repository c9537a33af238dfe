package ingester

const (
	// DefaultWindow and DefaultDrain size the sequencing window.
	DefaultWindow = 1126
	DefaultDrain  = 100

	progressDescription = "replaying blocks"
)
