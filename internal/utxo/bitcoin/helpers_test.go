package bitcoin

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

func p2pkhScript(t *testing.T, seed byte) ([]byte, string) {
	t.Helper()
	addr, err := btcutil.NewAddressPubKeyHash(bytes.Repeat([]byte{seed}, 20), &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressPubKeyHash() error = %v", err)
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		t.Fatalf("PayToAddrScript() error = %v", err)
	}
	return script, addr.EncodeAddress()
}

func coinbaseTx(script []byte, value int64, tag byte) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: math.MaxUint32},
		SignatureScript:  []byte{0x01, tag},
		Sequence:         math.MaxUint32,
	})
	tx.AddTxOut(wire.NewTxOut(value, script))
	return tx
}

func spendTx(prev chainhash.Hash, index uint32, outs ...*wire.TxOut) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prev, index), nil, nil))
	for _, out := range outs {
		tx.AddTxOut(out)
	}
	return tx
}

func newWireBlock(prev chainhash.Hash, ts time.Time, txs ...*wire.MsgTx) *wire.MsgBlock {
	block := wire.NewMsgBlock(wire.NewBlockHeader(1, &prev, &chainhash.Hash{}, 0x1d00ffff, 0))
	block.Header.Timestamp = ts
	for _, tx := range txs {
		_ = block.AddTransaction(tx)
	}
	return block
}

func frame(t *testing.T, net wire.BitcoinNet, blocks ...*wire.MsgBlock) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, block := range blocks {
		var payload bytes.Buffer
		if err := block.Serialize(&payload); err != nil {
			t.Fatalf("Serialize() error = %v", err)
		}
		var header [8]byte
		binary.LittleEndian.PutUint32(header[:4], uint32(net))
		binary.LittleEndian.PutUint32(header[4:], uint32(payload.Len()))
		buf.Write(header[:])
		buf.Write(payload.Bytes())
	}
	return buf.Bytes()
}

func writeBlockFile(t *testing.T, dir string, index int, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, BlockFileName(index)), data, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func writeFile(dir, name string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600)
}
