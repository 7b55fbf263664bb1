package twiddle

/*------------------------------------------------------------------
 *
 * Purpose:	Bit-exactness checks mirroring fft.py's TwiddleI.model and
 *		Twiddle.model: feed a counting twiddle_index through a
 *		whole period, compare the delayed product against the
 *		closed-form table lookup and complex multiply.
 *
 *----------------------------------------------------------------*/

import (
	"math"
	"math/rand"
	"testing"

	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/stretchr/testify/require"
)

func TestTwiddleIMatchesModel(t *testing.T) {
	const width = 16
	dut := NewTwiddleI(width)

	rng := rand.New(rand.NewSource(3))
	const periods = 20
	inputs := make([]fixedpoint.Complex, periods*4)
	for i := range inputs {
		span := 1 << uint(width)
		half := span / 2
		inputs[i] = fixedpoint.Complex{
			Re: int64(rng.Intn(span) - half),
			Im: int64(rng.Intn(span) - half),
		}
	}

	var outputs []fixedpoint.Complex
	for i, in := range inputs {
		outputs = append(outputs, dut.Advance(i%4, in))
	}

	for i, in := range inputs {
		var want fixedpoint.Complex
		if i%4 == 3 {
			want = fixedpoint.Complex{Re: in.Im, Im: -in.Re}
		} else {
			want = in
		}
		want = want.WrapTo(width)
		if i+1 < len(outputs) {
			require.Equal(t, want, outputs[i+1], "index %d", i)
		}
	}
}

func TestTwiddleMatchesFullTableModel(t *testing.T) {
	const order = 3
	const radixLog2 = 2
	const sw = 16
	const tw = 18
	v := 1 << uint(radixLog2*order)

	dut, err := NewTwiddle(order, radixLog2, sw, tw, "lut", false)
	require.NoError(t, err)

	fullRe, fullIm := twiddlesFull(order, radixLog2, false, tw)
	require.Equal(t, v, len(fullRe))

	rng := rand.New(rand.NewSource(5))
	const periods = 4
	inputs := make([]fixedpoint.Complex, periods*v)
	for i := range inputs {
		span := 1 << uint(sw)
		half := span / 2
		inputs[i] = fixedpoint.Complex{
			Re: int64(rng.Intn(span) - half),
			Im: int64(rng.Intn(span) - half),
		}
	}

	var outputs []fixedpoint.Complex
	var valids []bool
	for i, in := range inputs {
		out, valid := dut.Advance(i%v, in)
		outputs = append(outputs, out)
		valids = append(valids, valid)
	}

	trunc := tw - 2
	delay := dut.Delay()
	for i, in := range inputs {
		idx := i % v
		want := fixedpoint.Complex{
			Re: fixedpoint.Truncate(in.Re*fullRe[idx]-in.Im*fullIm[idx], trunc),
			Im: fixedpoint.Truncate(in.Im*fullRe[idx]+in.Re*fullIm[idx], trunc),
		}.WrapTo(dut.OutputWidth())

		j := i + delay
		if j < len(outputs) {
			require.True(t, valids[j])
			require.Equal(t, want, outputs[j], "index %d", i)
		}
	}
}

// Sanity check on the radix-2 half-table optimisation: the folded
// address scheme must reproduce exactly the full table's values.
func TestRadix2HalfTableFoldingMatchesFull(t *testing.T) {
	const order = 5
	const tw = 18
	fullRe, fullIm := twiddlesFull(order, 1, false, tw)

	dut, err := NewTwiddle(order, 1, 12, tw, "lut", false)
	require.NoError(t, err)

	for idx := 0; idx < len(fullRe); idx++ {
		addr := dut.address(idx)
		got := fixedpoint.Complex{Re: dut.table.ReadCombinational(addr).Re, Im: dut.table.ReadCombinational(addr).Im}
		want := fixedpoint.Complex{Re: fullRe[idx], Im: fullIm[idx]}
		require.Equal(t, want, got, "idx %d", idx)
	}
}

func TestTwiddlesFullMagnitudeNearUnity(t *testing.T) {
	const order = 4
	const tw = 16
	re, im := twiddlesFull(order, 2, false, tw)
	scale := float64(int64(1) << uint(tw-2))
	for i := range re {
		mag := math.Hypot(float64(re[i]), float64(im[i])) / scale
		require.InDelta(t, 1.0, mag, 0.01, "index %d", i)
	}
}
