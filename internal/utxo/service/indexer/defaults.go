package indexer

const (
	cursorName = "best"

	defaultMaxReorgDepth = 1000
)
