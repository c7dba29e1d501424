package models

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/google/uuid"

	perrors "plinius-pricer/internal/errors"
)

// CurveNode is a single point of a continuously-compounded zero curve.
type CurveNode struct {
	ID string  `json:"id"`
	T  float64 `json:"t"` // tenor in years
	Z  Rate    `json:"z"` // zero rate
}

// Curve is an editable zero curve. Nodes are kept sorted ascending by tenor
// and tenors are unique.
type Curve struct {
	Nodes []CurveNode `json:"nodes"`
}

// NewCurve builds a curve from (tenor, zero) pairs.
func NewCurve(points ...CurveNode) (*Curve, error) {
	c := &Curve{}
	for _, p := range points {
		if _, err := c.AddNode(p.T, p.Z); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DefaultTIIECurve returns an indicative TIIE zero curve.
func DefaultTIIECurve() *Curve {
	c, _ := NewCurve(
		CurveNode{T: 0.25, Z: Percent(10.90)},
		CurveNode{T: 0.5, Z: Percent(10.70)},
		CurveNode{T: 1, Z: Percent(10.30)},
		CurveNode{T: 2, Z: Percent(9.80)},
		CurveNode{T: 3, Z: Percent(9.50)},
		CurveNode{T: 5, Z: Percent(9.20)},
	)
	return c
}

// AddNode inserts a node and returns it with its generated id.
func (c *Curve) AddNode(t float64, z Rate) (CurveNode, error) {
	if err := validateNode(t, z); err != nil {
		return CurveNode{}, err
	}
	if c.indexOfTenor(t, "") >= 0 {
		return CurveNode{}, perrors.Wrapf(perrors.ErrDuplicateTenor, "tenor %g", t)
	}
	node := CurveNode{ID: uuid.NewString(), T: t, Z: z}
	c.Nodes = append(c.Nodes, node)
	c.sort()
	return node, nil
}

// UpdateNode replaces the tenor and zero rate of an existing node.
func (c *Curve) UpdateNode(id string, t float64, z Rate) error {
	if err := validateNode(t, z); err != nil {
		return err
	}
	idx := c.indexOf(id)
	if idx < 0 {
		return perrors.Wrapf(perrors.ErrNodeNotFound, "id %s", id)
	}
	if c.indexOfTenor(t, id) >= 0 {
		return perrors.Wrapf(perrors.ErrDuplicateTenor, "tenor %g", t)
	}
	c.Nodes[idx].T = t
	c.Nodes[idx].Z = z
	c.sort()
	return nil
}

// RemoveNode deletes a node by id. Removing an unknown id is a no-op.
func (c *Curve) RemoveNode(id string) {
	idx := c.indexOf(id)
	if idx < 0 {
		return
	}
	c.Nodes = append(c.Nodes[:idx], c.Nodes[idx+1:]...)
}

// Tenors returns the node tenors in order.
func (c *Curve) Tenors() []float64 {
	out := make([]float64, len(c.Nodes))
	for i, n := range c.Nodes {
		out[i] = n.T
	}
	return out
}

// Zeros returns the node zero rates as decimals in tenor order.
func (c *Curve) Zeros() []float64 {
	out := make([]float64, len(c.Nodes))
	for i, n := range c.Nodes {
		out[i] = n.Z.Decimal()
	}
	return out
}

// Shifted returns a copy with every zero rate moved by bps basis points.
// A nil curve stays nil.
func (c *Curve) Shifted(bps float64) *Curve {
	out := c.Clone()
	if out == nil {
		return nil
	}
	for i := range out.Nodes {
		out.Nodes[i].Z = out.Nodes[i].Z.Shift(bps)
	}
	return out
}

// Clone deep-copies the curve.
func (c *Curve) Clone() *Curve {
	if c == nil {
		return nil
	}
	out := &Curve{Nodes: make([]CurveNode, len(c.Nodes))}
	copy(out.Nodes, c.Nodes)
	return out
}

// UnmarshalJSON decodes a curve and restores the node invariants: nodes are
// sorted by tenor, tenors are unique and every node has an id.
func (c *Curve) UnmarshalJSON(data []byte) error {
	var raw struct {
		Nodes []CurveNode `json:"nodes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Curve{Nodes: make([]CurveNode, 0, len(raw.Nodes))}
	for _, n := range raw.Nodes {
		if err := validateNode(n.T, n.Z); err != nil {
			return err
		}
		if out.indexOfTenor(n.T, "") >= 0 {
			return perrors.Wrapf(perrors.ErrDuplicateTenor, "tenor %g", n.T)
		}
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		out.Nodes = append(out.Nodes, n)
	}
	out.sort()
	*c = out
	return nil
}

// Len returns the number of nodes.
func (c *Curve) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Nodes)
}

func (c *Curve) sort() {
	sort.SliceStable(c.Nodes, func(i, j int) bool { return c.Nodes[i].T < c.Nodes[j].T })
}

func (c *Curve) indexOf(id string) int {
	for i, n := range c.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// indexOfTenor finds a node with tenor t, ignoring the node with id skip.
func (c *Curve) indexOfTenor(t float64, skip string) int {
	for i, n := range c.Nodes {
		if n.T == t && n.ID != skip {
			return i
		}
	}
	return -1
}

func validateNode(t float64, z Rate) error {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return perrors.NewValidationError("tenor", t, "must be a finite non-negative number of years")
	}
	if !z.IsFinite() {
		return perrors.NewValidationError("zero", z.Decimal(), "must be finite")
	}
	return nil
}
