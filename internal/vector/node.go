/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Node is a drawable descriptor handed to a render surface. Nodes carry a
// local box, a transform into the parent space, paint and an optional
// element id used for hit testing.

type Node interface {
	ID() string
	Local() Rect
	Bounds() Rect
	Transform() Affine2D
	SetTransform(Affine2D)
	Fill() Fill
	Stroke() Stroke
	SetFill(Fill)
	SetStroke(Stroke)
	Hit(p Pt) bool
}

type baseNode struct {
	id      string
	xf      Affine2D
	fill    Fill
	stroke  Stroke
	passive bool
}

func (b *baseNode) ID() string              { return b.id }
func (b *baseNode) Transform() Affine2D     { return b.xf }
func (b *baseNode) SetTransform(m Affine2D) { b.xf = m }
func (b *baseNode) Fill() Fill              { return b.fill }
func (b *baseNode) Stroke() Stroke          { return b.stroke }
func (b *baseNode) SetFill(f Fill)          { b.fill = f }
func (b *baseNode) SetStroke(s Stroke)      { b.stroke = s }

// SetPassive excludes the node from hit testing.
func (b *baseNode) SetPassive(v bool) { b.passive = v }

// hitBox inverse-transforms p into local space and tests it against box.
func (b *baseNode) hitBox(box Rect, p Pt) bool {
	if b.passive {
		return false
	}
	return box.Contains(b.xf.Invert().Apply(p))
}

// RectNode draws an axis-aligned rectangle before transform.
type RectNode struct {
	baseNode
	rect Rect
}

func NewRect(id string, r Rect, f Fill, s Stroke) *RectNode {
	return &RectNode{baseNode: baseNode{id: id, xf: Identity, fill: f, stroke: s}, rect: r}
}

func (n *RectNode) Local() Rect   { return n.rect }
func (n *RectNode) Bounds() Rect  { return n.xf.MapRect(n.rect) }
func (n *RectNode) Hit(p Pt) bool { return n.hitBox(n.rect, p) }

// ImageNode draws decoded pixels referenced by Ref, stretched to Size.
type ImageNode struct {
	baseNode
	Ref  string
	size Size
}

func NewImage(id, ref string, sz Size) *ImageNode {
	return &ImageNode{baseNode: baseNode{id: id, xf: Identity}, Ref: ref, size: sz}
}

func (n *ImageNode) Size() Size    { return n.size }
func (n *ImageNode) Local() Rect   { return R(0, 0, n.size.W, n.size.H) }
func (n *ImageNode) Bounds() Rect  { return n.xf.MapRect(n.Local()) }
func (n *ImageNode) Hit(p Pt) bool { return n.hitBox(n.Local(), p) }

// FontRef names a face by family and size in pixels.
type FontRef struct {
	Family string
	Size   float64
}

// LabelNode is a text run on an optional background tag. Fill paints the
// tag; the text is inset by Padding on every side. Size is the measured tag
// size including padding.
type LabelNode struct {
	baseNode
	Text      string
	Font      FontRef
	TextColor Color
	Padding   float64
	size      Size
}

func NewLabel(id, text string, font FontRef, textColor Color, background Fill, padding float64, sz Size) *LabelNode {
	return &LabelNode{
		baseNode:  baseNode{id: id, xf: Identity, fill: background},
		Text:      text,
		Font:      font,
		TextColor: textColor,
		Padding:   padding,
		size:      sz,
	}
}

func (n *LabelNode) Size() Size    { return n.size }
func (n *LabelNode) Local() Rect   { return R(0, 0, n.size.W, n.size.H) }
func (n *LabelNode) Bounds() Rect  { return n.xf.MapRect(n.Local()) }
func (n *LabelNode) Hit(p Pt) bool { return n.hitBox(n.Local(), p) }

// PolylineNode strokes a sequence of points. It never takes hits.
type PolylineNode struct {
	baseNode
	Points []Pt
}

func NewPolyline(id string, pts []Pt, s Stroke) *PolylineNode {
	n := &PolylineNode{baseNode: baseNode{id: id, xf: Identity, stroke: s, passive: true}}
	n.Points = append(n.Points, pts...)
	return n
}

func (n *PolylineNode) Local() Rect {
	if len(n.Points) == 0 {
		return Rect{}
	}
	b := R(n.Points[0].X, n.Points[0].Y, 0, 0)
	for _, p := range n.Points[1:] {
		b = b.Union(R(p.X, p.Y, 0, 0))
	}
	return b
}

func (n *PolylineNode) Bounds() Rect { return n.xf.MapRect(n.Local()) }
func (n *PolylineNode) Hit(Pt) bool  { return false }

// Group is a container for child nodes with its own transform. Children are
// painted in slice order.
type Group struct {
	baseNode
	Children []Node
}

func NewGroup(children ...Node) *Group {
	g := &Group{baseNode: baseNode{xf: Identity}}
	g.Children = append(g.Children, children...)
	return g
}

func (g *Group) Local() Rect {
	var b Rect
	first := true
	for _, c := range g.Children {
		cb := c.Bounds()
		if first {
			b = cb
			first = false
		} else {
			b = b.Union(cb)
		}
	}
	return b
}

func (g *Group) Bounds() Rect { return g.xf.MapRect(g.Local()) }

func (g *Group) Hit(p Pt) bool { return g.HitNode(p) != nil }

// HitNode returns the top-most leaf under p (in the group's parent space).
func (g *Group) HitNode(p Pt) Node {
	q := g.xf.Invert().Apply(p)
	for i := len(g.Children) - 1; i >= 0; i-- {
		c := g.Children[i]
		if sub, ok := c.(*Group); ok {
			if n := sub.HitNode(q); n != nil {
				return n
			}
			continue
		}
		if c.Hit(q) {
			return c
		}
	}
	return nil
}
