package arith

import (
	"testing"

	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Mult2x is bit-exact against the Cmult contract with im_b = 0.
func TestMult2xClosedForm(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cw := rapid.IntRange(2, 20).Draw(rt, "cw")
		rw := rapid.IntRange(2, 20).Draw(rt, "rw")
		trunc := rapid.IntRange(0, cw).Draw(rt, "trunc")
		sample := fixedpoint.Complex{
			Re: int64(rapid.IntRange(int(fixedpoint.MinValue(cw)), int(fixedpoint.MaxValue(cw))).Draw(rt, "re")),
			Im: int64(rapid.IntRange(int(fixedpoint.MinValue(cw)), int(fixedpoint.MaxValue(cw))).Draw(rt, "im")),
		}
		scalar := int64(rapid.IntRange(int(fixedpoint.MinValue(rw)), int(fixedpoint.MaxValue(rw))).Draw(rt, "scalar"))

		dut := NewMult2x(cw, rw, trunc, 0)
		got := dut.Eval(sample, scalar)

		wantRe := fixedpoint.Truncate(sample.Re*scalar, trunc)
		wantIm := fixedpoint.Truncate(sample.Im*scalar, trunc)
		want := fixedpoint.Complex{Re: wantRe, Im: wantIm}.WrapTo(cw + rw - trunc)

		require.Equal(t, want, got)
		require.Equal(t, dut.OutputWidth(), cw+rw-trunc)
	})
}
