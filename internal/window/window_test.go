package window

/*------------------------------------------------------------------
 *
 * Purpose:	Bit-exactness check mirroring fft.py's Window.model: feed
 *		a counting coeff_index through whole periods, compare the
 *		delayed product against the closed-form real-by-complex
 *		multiply using the unfolded window table.
 *
 *----------------------------------------------------------------*/

import (
	"math/rand"
	"testing"

	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/stretchr/testify/require"
)

func TestWindowMatchesFullTableModel(t *testing.T) {
	const orderLog2 = 4
	const sw = 16
	const cw = 12
	v := 1 << uint(orderLog2)

	dut, err := NewWindow(orderLog2, sw, cw, "blackmanharris")
	require.NoError(t, err)

	coeffs, err := generateWindow("blackmanharris", v, cw)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(13))
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

	delay := dut.Delay()
	for i, in := range inputs {
		idx := i % v
		want := fixedpoint.Complex{
			Re: fixedpoint.Truncate(in.Re*int64(coeffs[idx]), cw),
			Im: fixedpoint.Truncate(in.Im*int64(coeffs[idx]), cw),
		}.WrapTo(dut.OutputWidth())

		j := i + delay
		if j < len(outputs) {
			require.True(t, valids[j])
			require.Equal(t, want, outputs[j], "index %d", i)
		}
	}
}

func TestGenerateWindowNonNegativeAndSymmetric(t *testing.T) {
	const v = 16
	const cw = 10
	coeffs, err := generateWindow("blackmanharris", v, cw)
	require.NoError(t, err)
	for i := 0; i < v; i++ {
		require.GreaterOrEqual(t, int64(coeffs[i]), int64(0))
		require.Equal(t, coeffs[i], coeffs[v-1-i], "index %d", i)
	}
}

func TestUnknownWindowNameRejected(t *testing.T) {
	_, err := NewWindow(4, 16, 12, "not-a-window")
	require.Error(t, err)
}
