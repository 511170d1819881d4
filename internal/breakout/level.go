package breakout

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
)

// LevelParams identifies one generated layout.
type LevelParams struct {
	Seed       int64
	Level      int
	Difficulty config.Difficulty
	Players    int
	Owned      bool
	Field      core.RectF
}

// Layout is a generated brick grid. HP[r][c] == 0 means no brick.
type Layout struct {
	Rows, Cols int
	HP         [][]int
	Owner      [][]int
	Target     int // brick count the generator aimed for
	Cap        int // density cap for this grid
	Mirrored   bool

	// Stamp is the mythic silhouette's placement, zero when not stamped.
	Stamp     core.Rect
	StampName string
}

// Count returns the number of bricks in the layout.
func (l Layout) Count() int {
	n := 0
	for _, row := range l.HP {
		for _, hp := range row {
			if hp > 0 {
				n++
			}
		}
	}
	return n
}

// String renders the grid with HP digits and '.' for empty cells.
func (l Layout) String() string {
	var sb strings.Builder
	for r, row := range l.HP {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, hp := range row {
			if hp == 0 {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(byte('0' + min(hp, 9)))
			}
		}
	}
	return sb.String()
}

// LevelSeed mixes the base seed, level and difficulty with FNV-1a.
// Zero is remapped to 1.
func LevelSeed(seed int64, level int, d config.Difficulty) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range []int64{seed, int64(level), int64(d)} {
		binary.LittleEndian.PutUint64(buf[:], uint64(v)) //#nosec G115 -- bit pattern is hashed
		_, _ = h.Write(buf[:])
	}
	s := h.Sum64()
	if s == 0 {
		s = 1
	}
	return s
}

// GridSize fits rows and columns of bricks into the field.
func GridSize(cfg config.GridConfig, field core.RectF) (rows, cols int) {
	usableW := field.W - 2*cfg.SideMargin
	cols = int((usableW + cfg.Gap) / (cfg.BrickWidth + cfg.Gap))
	cols = core.Clamp(cols, cfg.MinCols, cfg.MaxCols)

	usableH := field.H * cfg.MaxHeightFraction
	rows = int((usableH + cfg.Gap) / (cfg.BrickHeight + cfg.Gap))
	rows = core.Clamp(rows, cfg.MinRows, cfg.MaxRows)
	return rows, cols
}

// DensityTarget returns the brick count to aim for and the grid's cap.
// The target grows with level, jumps each 10-level tier, scales with
// difficulty and is forced odd; the cap is DensityCap of the grid, odd.
func DensityTarget(cfg config.GridConfig, level int, d config.Difficulty, rows, cols int) (target, maxBricks int) {
	level = max(level, 0)
	base := 3 + 2*level
	tier := level / 10
	bonus := cfg.TierBonus * tier
	scaled := int(math.Round(float64(base) * (d.Preset().DensityScale - 1)))

	target = max(base+bonus+scaled, 1)
	if target%2 == 0 {
		target++
	}

	maxBricks = int(math.Floor(cfg.DensityCap * float64(rows*cols)))
	if maxBricks%2 == 0 && maxBricks > 1 {
		maxBricks--
	}
	maxBricks = max(maxBricks, 1)
	return min(target, maxBricks), maxBricks
}

// UnlockedHP is the highest brick HP available at level for d: two at
// the start, one more per tier, capped by the preset.
func UnlockedHP(level int, d config.Difficulty) int {
	return max(1, min(2+max(level, 0)/10, d.Preset().MaxBrickHP))
}

// GenerateLevel builds the layout for p. The same parameters always give
// the same layout; a private generator is seeded from LevelSeed.
func GenerateLevel(cfg config.GridConfig, p LevelParams) Layout {
	seed := LevelSeed(p.Seed, p.Level, p.Difficulty)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	rows, cols := GridSize(cfg, p.Field)
	target, maxBricks := DensityTarget(cfg, p.Level, p.Difficulty, rows, cols)
	mirror := p.Owned && p.Players == 2

	occ := newOccupancy(rows, cols, mirror)
	layout := Layout{Rows: rows, Cols: cols, Cap: maxBricks, Mirrored: mirror}

	if cfg.MythicSeed != 0 && p.Seed == cfg.MythicSeed {
		if s, ok := pickSilhouette(rows, cols, maxBricks, mirror); ok {
			at := occ.stamp(s)
			layout.Stamp = core.NewRect(at, 0, s.width(), s.height())
			layout.StampName = s.name
			target = max(target, occ.count)
			if target%2 == 0 && target+1 <= maxBricks {
				target++
			}
			target = min(target, maxBricks)
		}
	}
	occ.target = target
	layout.Target = target

	tier := max(p.Level, 0) / 10
	occ.arcs(rng, tier, occ.count+target*45/100)
	occ.clusters(rng, occ.count+target*35/100)
	occ.scatter(rng)

	if occ.count == 0 {
		occ.force(0, cols/2)
	}

	layout.HP = occ.assignHP(rng, UnlockedHP(p.Level, p.Difficulty), hpDecay(p.Difficulty, tier))
	layout.Owner = assignOwners(layout, p)
	return layout
}

func hpDecay(d config.Difficulty, tier int) float64 {
	return d.Preset().HPDecay - 0.12*float64(tier)
}

// assignOwners splits columns into player bands in owned mode. A mirrored
// grid's middle column is shared.
func assignOwners(l Layout, p LevelParams) [][]int {
	owners := make([][]int, l.Rows)
	for r := range owners {
		owners[r] = make([]int, l.Cols)
		for c := range owners[r] {
			owners[r][c] = -1
			if !p.Owned || p.Players < 2 {
				continue
			}
			if l.Mirrored {
				mc := l.Cols - 1 - c
				switch {
				case c < mc:
					owners[r][c] = 0
				case c > mc:
					owners[r][c] = 1
				}
				continue
			}
			owners[r][c] = min(c*p.Players/l.Cols, p.Players-1)
		}
	}
	return owners
}

// occupancy is the generator's working grid. In mirror mode every
// placement in the left half is reflected onto the right half.
type occupancy struct {
	rows, cols int
	cells      []bool
	count      int
	target     int
	mirror     bool
}

func newOccupancy(rows, cols int, mirror bool) *occupancy {
	return &occupancy{rows: rows, cols: cols, cells: make([]bool, rows*cols), mirror: mirror, target: rows * cols}
}

func (o *occupancy) at(r, c int) bool {
	return o.cells[r*o.cols+c]
}

// colLimit is the number of columns the passes choose from.
func (o *occupancy) colLimit() int {
	if o.mirror {
		return (o.cols + 1) / 2
	}
	return o.cols
}

func (o *occupancy) full() bool {
	return o.count >= o.target
}

// place sets (r, c) and its mirror unless that would overshoot the target.
func (o *occupancy) place(r, c int) bool {
	if r < 0 || r >= o.rows || c < 0 || c >= o.colLimit() || o.at(r, c) {
		return false
	}
	mc := o.cols - 1 - c
	cost := 1
	if o.mirror && mc != c {
		cost = 2
	}
	if o.count+cost > o.target {
		return false
	}
	o.cells[r*o.cols+c] = true
	if cost == 2 {
		o.cells[r*o.cols+mc] = true
	}
	o.count += cost
	return true
}

// force sets a cell ignoring the target.
func (o *occupancy) force(r, c int) {
	if !o.at(r, c) {
		o.cells[r*o.cols+c] = true
		o.count++
	}
}

// stamp clears the grid, draws s centred on the top row and returns its
// column offset. In mirror mode the stamp is made symmetric.
func (o *occupancy) stamp(s silhouette) int {
	clear(o.cells)
	o.count = 0
	off := (o.cols - s.width()) / 2
	for r, line := range s.rows {
		for c, ch := range line {
			if ch != '#' {
				continue
			}
			o.force(r, off+c)
			if o.mirror {
				o.force(r, o.cols-1-(off+c))
			}
		}
	}
	return off
}

// arcs walks snaking paths downward with random curvature, bouncing off
// the side edges, until the grid holds until cells.
func (o *occupancy) arcs(rng *rand.Rand, tier, until int) {
	n := min(2+rng.IntN(2)+tier, 5)
	limit := o.colLimit()
	startRows := max(1, o.rows/3)

	for i := 0; i < n && o.count < until && !o.full(); i++ {
		r := rng.IntN(startRows)
		c := rng.IntN(limit)
		dx := 1
		if rng.IntN(2) == 0 {
			dx = -1
		}
		descend := 0.2 + rng.Float64()*0.35
		turn := 0.1 + rng.Float64()*0.2
		steps := 2*o.cols + o.rows

		for s := 0; s < steps && o.count < until && !o.full(); s++ {
			o.place(r, c)
			if rng.Float64() < descend {
				r++
				if r >= o.rows {
					break
				}
			}
			if rng.Float64() < turn {
				dx = -dx
			}
			c += dx
			if c < 0 {
				c, dx = min(1, limit-1), 1
			} else if c >= limit {
				c, dx = max(limit-2, 0), -1
			}
		}
	}
}

// clusters drops soft-edged blobs whose placement probability falls off
// with distance from the centre.
func (o *occupancy) clusters(rng *rand.Rand, until int) {
	n := 1 + rng.IntN(3)
	limit := o.colLimit()

	for i := 0; i < n && o.count < until && !o.full(); i++ {
		cr := rng.IntN(o.rows)
		cc := rng.IntN(limit)
		radius := 1.5 + rng.Float64()*2
		reach := int(math.Ceil(radius))

		for r := cr - reach; r <= cr+reach; r++ {
			for c := cc - reach; c <= cc+reach; c++ {
				d := math.Hypot(float64(r-cr), float64(c-cc))
				if d > radius {
					continue
				}
				p := 1 - (d/radius)*(d/radius)*0.85
				if rng.Float64() < p {
					o.place(r, c)
				}
				if o.count >= until || o.full() {
					return
				}
			}
		}
	}
}

// scatter places single bricks, biased to upper rows, until the target is
// met. A row-major sweep finishes whatever random tries could not.
func (o *occupancy) scatter(rng *rand.Rand) {
	limit := o.colLimit()
	for tries := o.rows * o.cols * 20; tries > 0 && !o.full(); tries-- {
		r := int(float64(o.rows) * math.Pow(rng.Float64(), 1.6))
		o.place(min(r, o.rows-1), rng.IntN(limit))
	}
	for r := 0; r < o.rows && !o.full(); r++ {
		for c := 0; c < limit && !o.full(); c++ {
			o.place(r, c)
		}
	}
}

// assignHP draws hit points for every occupied cell, row-major. Top rows
// decay slower so tough bricks gather there. Mirrored cells copy their twin.
func (o *occupancy) assignHP(rng *rand.Rand, unlocked int, decay float64) [][]int {
	hp := make([][]int, o.rows)
	for r := range hp {
		hp[r] = make([]int, o.cols)
	}

	limit := o.colLimit()
	for r := 0; r < o.rows; r++ {
		rowFactor := 1.0
		if o.rows > 1 {
			rowFactor = 1 - float64(r)/float64(o.rows-1)
		}
		k := core.ClampF(decay-0.5*rowFactor, 0.35, 3.0)
		for c := 0; c < limit; c++ {
			if !o.at(r, c) {
				continue
			}
			hp[r][c] = drawHP(rng, unlocked, k)
		}
		if o.mirror {
			for c := limit; c < o.cols; c++ {
				if !o.at(r, c) {
					continue
				}
				if twin := hp[r][o.cols-1-c]; twin > 0 {
					hp[r][c] = twin
				} else {
					hp[r][c] = drawHP(rng, unlocked, k)
				}
			}
		}
	}
	return hp
}

// drawHP picks from [1..unlocked] with weights exp(-k*(hp-1)).
func drawHP(rng *rand.Rand, unlocked int, k float64) int {
	if unlocked <= 1 {
		return 1
	}
	total := 0.0
	for hp := 1; hp <= unlocked; hp++ {
		total += math.Exp(-k * float64(hp-1))
	}
	x := rng.Float64() * total
	for hp := 1; hp <= unlocked; hp++ {
		x -= math.Exp(-k * float64(hp-1))
		if x < 0 {
			return hp
		}
	}
	return unlocked
}

// gridGeometry maps grid cells to field pixels.
type gridGeometry struct {
	origin core.Vec
	brickW float64
	brickH float64
	gap    float64
}

func newGridGeometry(cfg config.GridConfig, field core.RectF, cols int) gridGeometry {
	usable := field.W - 2*cfg.SideMargin
	w := (usable - float64(cols-1)*cfg.Gap) / float64(max(cols, 1))
	return gridGeometry{
		origin: core.Vec{X: field.X + cfg.SideMargin, Y: field.Y + cfg.TopMargin},
		brickW: math.Max(w, 1),
		brickH: cfg.BrickHeight,
		gap:    cfg.Gap,
	}
}

func (g gridGeometry) cell(r, c int) core.RectF {
	return core.RectF{
		X: g.origin.X + float64(c)*(g.brickW+g.gap),
		Y: g.origin.Y + float64(r)*(g.brickH+g.gap),
		W: g.brickW,
		H: g.brickH,
	}
}

// BuildBricks turns a layout into brick entities placed in field.
func BuildBricks(cfg config.GridConfig, l Layout, field core.RectF) []Brick {
	geo := newGridGeometry(cfg, field, l.Cols)
	bricks := make([]Brick, 0, l.Count())
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			hp := l.HP[r][c]
			if hp == 0 {
				continue
			}
			owner := l.Owner[r][c]
			palette := brickPalette
			if owner >= 0 {
				palette = ownerPalette(owner)
			}
			bricks = append(bricks, Brick{
				Bounds:  geo.cell(r, c),
				HP:      hp,
				MaxHP:   hp,
				Palette: palette,
				Owner:   owner,
				Row:     r,
				Col:     c,
			})
		}
	}
	return bricks
}
