package arith

/*------------------------------------------------------------------
 *
 * Purpose:	Bit-exactness checks for the complex power/peak unit,
 *		mirroring test_cpwr.py's TestCpwrPeak.test_random_inputs.
 *
 *----------------------------------------------------------------*/

import (
	"testing"

	"github.com/doismellburning/sdrcore/internal/fixedpoint"
	"github.com/stretchr/testify/require"
)

func TestCpwrPeakRandomInputs(t *testing.T) {
	const width = 16
	const realWidth = 24

	for _, peakDetect := range []bool{false, true} {
		for _, truncate := range []int{0, 4} {
			for _, realShift := range []int{8, 16} {
				dut := NewCpwrPeak(width, realWidth, truncate, 2)
				type in struct {
					s fixedpoint.Complex
					r int64
				}
				var hist []in

				seed := int64(7)
				next := func() int64 {
					seed = seed*1103515245 + 12345
					return seed
				}

				for j := 0; j < 200; j++ {
					s := fixedpoint.Complex{
						Re: int64(fixedpoint.Wrap(next(), width)),
						Im: int64(fixedpoint.Wrap(next(), width)),
					}
					r := fixedpoint.Wrap(next(), realWidth)
					hist = append(hist, in{s, r})

					out, isGreater, valid := dut.Advance(s, r, realShift, peakDetect)
					if j >= dut.Latency {
						k := j - dut.Latency
						wantOut, wantGreater := dut.Eval(hist[k].s, hist[k].r, realShift, peakDetect)
						require.True(t, valid)
						require.Equal(t, wantOut, out)
						if peakDetect {
							require.Equal(t, wantGreater, isGreater)
						}
					}
				}
			}
		}
	}
}
