package arith

/*------------------------------------------------------------------
 *
 * Purpose:	Bit-exactness checks for the complex multiplier.
 *
 *		Random-vector check mirrors test_cmult.py's
 *		TestCmult.test_random_inputs: feed num_inputs random
 *		complex pairs, confirm the output delay cycles later
 *		equals the closed-form product.
 *
 *----------------------------------------------------------------*/

import (
	"math/rand"
	"testing"

	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCmultRandomInputs(t *testing.T) {
	const width = 16
	const numInputs = 1000

	dut := NewCmult(width, width, 0, 3)
	rng := rand.New(rand.NewSource(1))

	type in struct{ a, b fixedpoint.Complex }
	history := make([]in, 0, numInputs)

	for j := 0; j < numInputs; j++ {
		a := fixedpoint.Complex{
			Re: int64(rng.Intn(1<<width) - 1<<(width-1)),
			Im: int64(rng.Intn(1<<width) - 1<<(width-1)),
		}
		b := fixedpoint.Complex{
			Re: int64(rng.Intn(1<<width) - 1<<(width-1)),
			Im: int64(rng.Intn(1<<width) - 1<<(width-1)),
		}
		history = append(history, in{a, b})

		out, valid := dut.Advance(a, b)
		if j >= dut.Latency {
			want := dut.Eval(history[j-dut.Latency].a, history[j-dut.Latency].b)
			require.True(t, valid)
			require.Equal(t, want, out, "cycle %d", j)
		}
	}
}

// Cmult is bit-exact against the closed-form re/im expression
// evaluated in arbitrary precision, then truncated.
func TestCmultClosedForm(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		width := rapid.IntRange(2, 24).Draw(rt, "width")
		trunc := rapid.IntRange(0, width).Draw(rt, "trunc")
		lo, hi := int(fixedpoint.MinValue(width)), int(fixedpoint.MaxValue(width))
		a := fixedpoint.Complex{
			Re: int64(rapid.IntRange(lo, hi).Draw(rt, "reA")),
			Im: int64(rapid.IntRange(lo, hi).Draw(rt, "imA")),
		}
		b := fixedpoint.Complex{
			Re: int64(rapid.IntRange(lo, hi).Draw(rt, "reB")),
			Im: int64(rapid.IntRange(lo, hi).Draw(rt, "imB")),
		}

		dut := NewCmult(width, width, trunc, 0)
		got := dut.Eval(a, b)

		wantRe := fixedpoint.Truncate(a.Re*b.Re-a.Im*b.Im, trunc)
		wantIm := fixedpoint.Truncate(a.Re*b.Im+a.Im*b.Re, trunc)
		wantWidth := 2*width + 1 - trunc
		want := fixedpoint.Complex{Re: wantRe, Im: wantIm}.WrapTo(wantWidth)

		require.Equal(t, want, got)
	})
}

// The three-multiply common-factor form must be bit-exact identical
// to the direct form for every input.
func TestCmultKaratsubaMatchesDirect(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		width := rapid.IntRange(2, 18).Draw(rt, "width")
		lo, hi := int(fixedpoint.MinValue(width)), int(fixedpoint.MaxValue(width))
		a := fixedpoint.Complex{
			Re: int64(rapid.IntRange(lo, hi).Draw(rt, "reA")),
			Im: int64(rapid.IntRange(lo, hi).Draw(rt, "imA")),
		}
		b := fixedpoint.Complex{
			Re: int64(rapid.IntRange(lo, hi).Draw(rt, "reB")),
			Im: int64(rapid.IntRange(lo, hi).Draw(rt, "imB")),
		}

		direct := NewCmult(width, width, 0, 0)
		karatsuba := NewCmultKaratsuba(width, width, 0, 0)

		require.Equal(t, direct.Eval(a, b), karatsuba.Eval(a, b))
	})
}
