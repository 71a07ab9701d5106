package beatmap

// stackLenience is the distance in osu!pixels under which two objects are
// considered to be on the same spot.
const stackLenience = 3.0

// StackOffsetFactor scales a stack height into a position offset relative to
// the circle diameter.
const StackOffsetFactor = 0.05

// Stacks computes stack heights for every object. Objects that start on the
// same spot within approachTime*StackLeniency of each other are stacked so
// they stay distinguishable; a stack of height n is drawn and judged at
// pos - n*diameter*StackOffsetFactor on both axes.
func (b *Beatmap) Stacks(approachTime float64) []int {
	n := len(b.Objects)
	stack := make([]int, n)
	threshold := approachTime * b.StackLeniency

	ends := make([]int, n)
	for i := range b.Objects {
		ends[i] = b.EndTime(i)
	}

	for i := n - 1; i > 0; i-- {
		cur := i
		if stack[cur] != 0 || b.Objects[cur].IsSpinner() {
			continue
		}

		for j := i - 1; j >= 0; j-- {
			other := b.Objects[j]
			if other.IsSpinner() {
				continue
			}

			startI := float64(b.Objects[cur].Time) - threshold
			if startI > float64(ends[j]) {
				break
			}

			if other.IsSlider() {
				tail := b.EndPos(j)
				if tail.Dist(b.Objects[cur].Pos()) < stackLenience {
					offset := stack[cur] - stack[j] + 1
					for k := j + 1; k <= i; k++ {
						if tail.Dist(b.Objects[k].Pos()) < stackLenience {
							stack[k] -= offset
						}
					}
					break
				}
			}

			if other.Pos().Dist(b.Objects[cur].Pos()) < stackLenience {
				stack[j] = stack[cur] + 1
				cur = j
			}
		}
	}
	return stack
}
