// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// TestAncestorFeeChain verifies ancestor fees and sizes along a chain.
func TestAncestorFeeChain(t *testing.T) {
	c := newFeeChain()
	g, err := New(c.records, nil)
	require.NoError(t, err)

	want := []btcutil.Amount{100, 300, 700, 1500, 3100}
	var wantSize int64
	for i, tx := range c.txs {
		fee, err := g.AncestorFee(h(tx))
		require.NoError(t, err)
		require.Equal(t, want[i], fee)

		wantSize += SerializedSize(tx)
		size, err := g.AncestorSize(h(tx))
		require.NoError(t, err)
		require.Equal(t, wantSize, size)

		rate, err := g.EffectiveFeeRate(h(tx))
		require.NoError(t, err)
		require.Equal(t, want[i]*1000/btcutil.Amount(wantSize), rate)
	}

	require.Equal(t, btcutil.Amount(3100), g.TotalFee())
}

// TestAncestorFeeSharedAncestor verifies that an ancestor reachable through
// several paths is counted once.
func TestAncestorFeeSharedAncestor(t *testing.T) {
	a := createTx([]wire.OutPoint{externalOutPoint()}, 2)
	b := createTx([]wire.OutPoint{out(a, 0)}, 1)
	c := createTx([]wire.OutPoint{out(a, 1)}, 1)
	d := createTx([]wire.OutPoint{out(b, 0), out(c, 0)}, 1)

	g, err := New([]*TxRecord{
		{Tx: a, Fee: 1000}, {Tx: b, Fee: 100}, {Tx: c, Fee: 10},
		{Tx: d, Fee: 1},
	}, nil)
	require.NoError(t, err)

	fee, err := g.AncestorFee(h(d))
	require.NoError(t, err)
	require.Equal(t, btcutil.Amount(1111), fee)

	size, err := g.AncestorSize(h(d))
	require.NoError(t, err)
	require.Equal(
		t, SerializedSize(a)+SerializedSize(b)+SerializedSize(c)+
			SerializedSize(d), size,
	)
}

// TestEffectiveFeeRateVirtualSize verifies the configured size metric is used.
func TestEffectiveFeeRateVirtualSize(t *testing.T) {
	tx := createTx([]wire.OutPoint{externalOutPoint()}, 1)
	tx.MsgTx().TxIn[0].Witness = wire.TxWitness{make([]byte, 72)}
	tx = btcutil.NewTx(tx.MsgTx())

	vsize := VirtualSize(tx)
	require.Less(t, vsize, SerializedSize(tx))

	g, err := New(
		[]*TxRecord{{Tx: tx, Fee: 5000}}, &Config{TxSize: VirtualSize},
	)
	require.NoError(t, err)

	size, err := g.AncestorSize(h(tx))
	require.NoError(t, err)
	require.Equal(t, vsize, size)

	rate, err := g.EffectiveFeeRate(h(tx))
	require.NoError(t, err)
	require.Equal(t, 5000*1000/btcutil.Amount(vsize), rate)
}

// TestFeesUnknownNode verifies fee queries on unknown transactions fail.
func TestFeesUnknownNode(t *testing.T) {
	g, err := New(nil, nil)
	require.NoError(t, err)

	missing := chainhash.DoubleHashH([]byte("missing"))

	_, err = g.AncestorFee(missing)
	require.ErrorIs(t, err, ErrNodeNotFound)

	_, err = g.AncestorSize(missing)
	require.ErrorIs(t, err, ErrNodeNotFound)

	_, err = g.EffectiveFeeRate(missing)
	require.ErrorIs(t, err, ErrNodeNotFound)
}

// TestFeesAfterCompaction verifies that ancestor sizes and rates follow the
// compacted topology.
func TestFeesAfterCompaction(t *testing.T) {
	c := newFeeChain()
	g, err := New(c.records, nil)
	require.NoError(t, err)

	compacted, set, err := g.Compact(targets(c.txs[2]))
	require.NoError(t, err)
	x := set[0].Node

	wantSize := SerializedSize(x.Tx()) + SerializedSize(c.txs[0]) +
		SerializedSize(c.txs[1])
	size, err := compacted.AncestorSize(x.Hash())
	require.NoError(t, err)
	require.Equal(t, wantSize, size)

	rate, err := compacted.EffectiveFeeRate(x.Hash())
	require.NoError(t, err)
	require.Equal(t, 3100*1000/btcutil.Amount(wantSize), rate)

	// The ancestors keep their own figures.
	fee, err := compacted.AncestorFee(h(c.txs[1]))
	require.NoError(t, err)
	require.Equal(t, btcutil.Amount(300), fee)

	_, err = compacted.AncestorSize(h(c.txs[2]))
	require.ErrorIs(t, err, ErrNodeNotFound)
}
