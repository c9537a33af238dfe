// Package node runs the full node process and turns its console output into chain events.
package node

import (
	"regexp"
	"strconv"
)

// Event is a structured notice derived from the node's log output.
type Event interface {
	Kind() string
}

// NewBestBlock announces a new chain tip.
type NewBestBlock struct {
	Hash   string
	Height int64
}

// Kind implements Event.
func (NewBestBlock) Kind() string { return "new_best_block" }

// FileRotated announces the block file the node is now writing.
type FileRotated struct {
	Index int
}

// Kind implements Event.
func (FileRotated) Kind() string { return "file_rotated" }

var (
	preallocatePattern = regexp.MustCompile(`Pre-allocating up to position \S+ in blk(\d+)\.dat`)
	leavingPattern     = regexp.MustCompile(`Leaving block file (\d+): CBlockFileInfo`)
	updateTipPattern   = regexp.MustCompile(`UpdateTip: new best=([0-9a-fA-F]{64}) height=(\d+)`)
)

// ParseLine extracts an event from one line of node output. Lines without a
// known notice yield ok == false.
func ParseLine(line string) (Event, bool) {
	if m := updateTipPattern.FindStringSubmatch(line); m != nil {
		height, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, false
		}
		return NewBestBlock{Hash: m[1], Height: height}, true
	}
	if m := preallocatePattern.FindStringSubmatch(line); m != nil {
		index, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, false
		}
		return FileRotated{Index: index}, true
	}
	if m := leavingPattern.FindStringSubmatch(line); m != nil {
		index, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, false
		}
		return FileRotated{Index: index + 1}, true
	}
	return nil, false
}
