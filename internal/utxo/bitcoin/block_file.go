package bitcoin

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/utxo/model"
)

// ErrDecode matches every *DecodeError.
var ErrDecode = errors.New("block decode failed")

var errBadFraming = errors.New("bad record framing")

// DecodeError describes a block record that could not be decoded.
type DecodeError struct {
	File   string
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode block in %s at offset %d: %v", e.File, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// BlockFileName returns the node's file name for block file index.
func BlockFileName(index int) string {
	return fmt.Sprintf("blk%05d.dat", index)
}

// ListBlockFiles returns the indices of blk*.dat files in dir in ascending order.
func ListBlockFiles(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read blocks dir %s: %w", dir, err)
	}
	var indices []int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "blk") || !strings.HasSuffix(name, ".dat") {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "blk"), ".dat"))
		if err != nil {
			continue
		}
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices, nil
}

// BlockFileReader iterates the records of one block file: network magic,
// little-endian payload size, serialized block.
type BlockFileReader struct {
	r       *bufio.Reader
	name    string
	net     wire.BitcoinNet
	decoder ScriptDecoder
	offset  int64
	broken  bool
}

// NewBlockFileReader reads records of net from r. name is used in errors.
func NewBlockFileReader(r io.Reader, name string, net wire.BitcoinNet, decoder ScriptDecoder) *BlockFileReader {
	return &BlockFileReader{
		r:       bufio.NewReaderSize(r, 1<<20),
		name:    name,
		net:     net,
		decoder: decoder,
	}
}

// OpenBlockFile opens blk<index>.dat in dir.
func OpenBlockFile(dir string, index int, net wire.BitcoinNet, decoder ScriptDecoder) (*BlockFileReader, io.Closer, error) {
	path := filepath.Join(dir, BlockFileName(index))
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open block file %s: %w", path, err)
	}
	return NewBlockFileReader(f, path, net, decoder), f, nil
}

// Next returns the next block. It returns io.EOF at the end of written data,
// including the zero-filled preallocated tail and a record cut short by a
// concurrent writer. A *DecodeError for a single record leaves the reader
// positioned at the following record.
func (r *BlockFileReader) Next() (model.Block, error) {
	if r.broken {
		return model.Block{}, io.EOF
	}
	start := r.offset

	var header [8]byte
	if err := r.readFull(header[:]); err != nil {
		return model.Block{}, err
	}
	magic := binary.LittleEndian.Uint32(header[:4])
	if magic == 0 {
		return model.Block{}, io.EOF
	}
	if wire.BitcoinNet(magic) != r.net {
		r.broken = true
		return model.Block{}, &DecodeError{File: r.name, Offset: start, Err: fmt.Errorf("%w: magic %#08x", errBadFraming, magic)}
	}
	size := binary.LittleEndian.Uint32(header[4:])
	if size == 0 || size > wire.MaxBlockPayload {
		r.broken = true
		return model.Block{}, &DecodeError{File: r.name, Offset: start, Err: fmt.Errorf("%w: size %d", errBadFraming, size)}
	}

	payload := make([]byte, size)
	if err := r.readFull(payload); err != nil {
		return model.Block{}, err
	}

	var msg wire.MsgBlock
	if err := msg.Deserialize(bytes.NewReader(payload)); err != nil {
		return model.Block{}, &DecodeError{File: r.name, Offset: start, Err: err}
	}
	return ConvertBlock(&msg, r.decoder), nil
}

func (r *BlockFileReader) readFull(buf []byte) error {
	n, err := io.ReadFull(r.r, buf)
	r.offset += int64(n)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return io.EOF
	}
	return err
}
