package breakout

import "math"

// Snapshot is a flattened copy of the simulation state, used to compare
// runs for determinism. It holds primitive values only.
type Snapshot struct {
	Frame    uint64
	Mode     Mode
	Level    int
	Players  int
	PlayTime float64

	// Per player: Lives, Score, Active, Primary, CatchArmed.
	SlotData []int

	// Per paddle: X, W.
	PaddleData []float64

	// Per ball: X, Y, VX, VY plus flags Extra|Attached<<1|Parked<<2 and Owner.
	BallData []float64
	BallInfo []int

	// Per brick: HP, Owner.
	BrickData []int

	// Per live drop: Type, Target; positions in DropPos as X, Y.
	DropData []int
	DropPos  []float64

	// Per effect: Remaining, Scale.
	EffectData []float64

	RNGState uint64
}

// Snapshot captures the current state.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:    g.frame,
		Mode:     g.Mode(),
		Level:    g.level,
		Players:  g.players,
		PlayTime: g.playTime,
		RNGState: g.power.RNG.State(),
	}

	for p := 0; p < g.players; p++ {
		s := g.slots[p]
		snap.SlotData = append(snap.SlotData, s.Lives, s.Score, boolInt(s.Active), s.Primary, boolInt(s.CatchArmed))
		pad := g.paddles[p].Rect
		snap.PaddleData = append(snap.PaddleData, pad.X, pad.W)
	}

	for _, b := range g.balls {
		snap.BallData = append(snap.BallData, b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y)
		flags := boolInt(b.Extra) | boolInt(b.Attached)<<1 | boolInt(b.Parked)<<2
		snap.BallInfo = append(snap.BallInfo, flags, b.Owner)
	}

	for _, br := range g.bricks {
		snap.BrickData = append(snap.BrickData, br.HP, br.Owner)
	}

	for _, d := range g.power.Drops {
		if !d.Alive {
			continue
		}
		snap.DropData = append(snap.DropData, int(d.Type), d.Target)
		snap.DropPos = append(snap.DropPos, d.Pos.X, d.Pos.Y)
	}

	for _, e := range g.power.Effects {
		snap.EffectData = append(snap.EffectData, e.Remaining, e.Scale)
	}
	return snap
}

// BricksAlive counts bricks with hit points left.
func (snap *Snapshot) BricksAlive() int {
	n := 0
	for i := 0; i < len(snap.BrickData); i += 2 {
		if snap.BrickData[i] > 0 {
			n++
		}
	}
	return n
}

// Hash folds the snapshot into a single value. Floats contribute their
// exact bit patterns.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Frame
	mix := func(v uint64) { h = h*31 + v }

	mix(uint64(snap.Mode))    //#nosec G115 -- hash computation
	mix(uint64(snap.Level))   //#nosec G115 -- hash computation
	mix(uint64(snap.Players)) //#nosec G115 -- hash computation
	mix(math.Float64bits(snap.PlayTime))

	for _, v := range snap.SlotData {
		mix(uint64(v)) //#nosec G115 -- hash computation
	}
	for _, v := range snap.BallInfo {
		mix(uint64(v)) //#nosec G115 -- hash computation
	}
	for _, v := range snap.BrickData {
		mix(uint64(v)) //#nosec G115 -- hash computation
	}
	for _, v := range snap.DropData {
		mix(uint64(v)) //#nosec G115 -- hash computation
	}
	for _, fs := range [][]float64{snap.PaddleData, snap.BallData, snap.DropPos, snap.EffectData} {
		for _, v := range fs {
			mix(math.Float64bits(v))
		}
	}

	mix(snap.RNGState)
	return h
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
