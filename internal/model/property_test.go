package model

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestProperty_EditsKeepInvariantsAndUndo drives random edits on two
// neighboring staple lanes. After every edit the part must be consistent,
// and a failed edit must leave it untouched. Walking the whole history back
// and forward must reproduce every intermediate state.
func TestProperty_EditsKeepInvariantsAndUndo(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p, even, odd := newPair(rt)
		stack := p.UndoStack()
		lanes := []*StrandSet{even.StapleStrandSet(), odd.StapleStrandSet()}
		last := p.Length() - 1

		snaps := map[int][]string{0: p.Snapshot()}
		pickStrand := func(ss *StrandSet) *Strand {
			if ss.Len() == 0 {
				return nil
			}
			return ss.StrandAt(rapid.IntRange(0, ss.Len()-1).Draw(rt, "strand"))
		}

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			ss := lanes[rapid.IntRange(0, 1).Draw(rt, "lane")]
			a := rapid.IntRange(0, last).Draw(rt, "a")
			b := rapid.IntRange(0, last).Draw(rt, "b")
			before := stack.Index()

			var err error
			switch rapid.IntRange(0, 6).Draw(rt, "op") {
			case 0:
				_, err = ss.CreateStrand(stack, min(a, b), max(a, b))
			case 1:
				err = ss.ClearRange(stack, min(a, b), max(a, b), rapid.Bool().Draw(rt, "keepLeft"))
			case 2:
				_, err = ss.ConnectStrand(stack, a, b)
			case 3:
				if s := pickStrand(ss); s != nil {
					err = ss.ResizeStrand(stack, s, min(a, b), max(a, b))
				}
			case 4:
				if s := pickStrand(ss); s != nil {
					err = ss.RemoveStrand(stack, s)
				}
			case 5:
				if s := pickStrand(ss); s != nil && s.Len() > 1 {
					_, _, err = ss.SplitStrand(stack, s, s.Low()+(a%(s.Len()-1)))
				}
			case 6:
				s5, s3 := pickStrand(lanes[0]), pickStrand(lanes[1])
				if rapid.Bool().Draw(rt, "reverse") {
					s5, s3 = s3, s5
				}
				if s5 != nil && s3 != nil {
					_, err = p.CreateXover(stack, s5, a, s3, a, rapid.Bool().Draw(rt, "updateOligo"))
				}
			}

			require.NoError(rt, p.CheckInvariants())
			if err != nil {
				require.Equal(rt, before, stack.Index())
				require.Equal(rt, snaps[before], p.Snapshot(), "failed edit changed state: %v", err)
				continue
			}
			snaps[stack.Index()] = p.Snapshot()
		}

		top := stack.Index()
		for stack.CanUndo() {
			require.NoError(rt, stack.Undo())
			require.NoError(rt, p.CheckInvariants())
			require.Equal(rt, snaps[stack.Index()], p.Snapshot())
		}
		for stack.CanRedo() {
			require.NoError(rt, stack.Redo())
			require.Equal(rt, snaps[stack.Index()], p.Snapshot())
		}
		require.Equal(rt, top, stack.Index())
	})
}
