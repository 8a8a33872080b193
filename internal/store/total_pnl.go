package store

import "algodash/internal/wire"

// TotalPnlView is an immutable copy of the curve.
type TotalPnlView struct {
	Points  []float64
	Cursor  int
	Current float64
}

// TotalPnlCurve 是总盈亏曲线：index 0 为基线，cursor 指向下一个待提交的位置。
// 未实现盈亏只覆盖 cursor 所在的尾槽，已实现盈亏写入后 cursor 前进。
type TotalPnlCurve struct {
	points  []float64
	cursor  int
	current float64
	closed  map[int64]struct{}
}

func NewTotalPnlCurve() *TotalPnlCurve {
	c := &TotalPnlCurve{}
	c.Reset()
	return c
}

func (c *TotalPnlCurve) Reset() {
	c.points = []float64{0}
	c.cursor = 1
	c.current = 0
	c.closed = make(map[int64]struct{})
}

func (c *TotalPnlCurve) Cursor() int { return c.cursor }

func (c *TotalPnlCurve) Len() int { return len(c.points) }

// Seed replaces the curve with the baseline followed by the snapshot points.
// Closed positions are kept: a snapshot does not reopen them.
func (c *TotalPnlCurve) Seed(snapshot wire.TotalPnl) Outcome {
	points := make([]float64, 0, len(snapshot.Points)+1)
	points = append(points, 0)
	for _, p := range snapshot.Points {
		points = append(points, p.Value)
	}
	c.points = points
	c.cursor = len(points)
	c.current = points[len(points)-1]
	return Applied
}

func (c *TotalPnlCurve) write(v float64) {
	if c.cursor < len(c.points) {
		c.points[c.cursor] = v
	} else {
		c.points = append(c.points, v)
	}
	c.current = v
}

// ApplyRealized commits the value at the cursor and opens the next slot. A missing value
// carries the current value forward so the cursor still advances once per realized event.
func (c *TotalPnlCurve) ApplyRealized(r wire.TotalPnlRealized) Outcome {
	c.MarkClosed(r.PositionID)
	v := c.current
	if r.Value != nil {
		v = r.Value.Value
	}
	c.write(v)
	c.cursor++
	return Applied
}

// ApplyUnrealized overwrites the trailing slot while the position is open.
func (c *TotalPnlCurve) ApplyUnrealized(u wire.TotalPnlUnrealized) Outcome {
	if c.IsClosed(u.PositionID) || u.Value == nil {
		return Ignored
	}
	c.write(u.Value.Value)
	return Applied
}

func (c *TotalPnlCurve) MarkClosed(positionID int64) {
	c.closed[positionID] = struct{}{}
}

func (c *TotalPnlCurve) IsClosed(positionID int64) bool {
	_, ok := c.closed[positionID]
	return ok
}

func (c *TotalPnlCurve) View() TotalPnlView {
	points := make([]float64, len(c.points))
	copy(points, c.points)
	return TotalPnlView{Points: points, Cursor: c.cursor, Current: c.current}
}
