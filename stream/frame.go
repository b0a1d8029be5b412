package stream

import (
	"github.com/lixenwraith/synapse/scene"
)

// Message types on the wire
const (
	TypeHello = "hello"
	TypeFrame = "frame"
	TypeClick = "click"
	TypeMove  = "move"
)

// Hello is sent once when a client connects
type Hello struct {
	Type      string  `json:"type"`
	Session   string  `json:"session"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Particles int     `json:"particles"`
}

// Bolt is one visible lightning path
type Bolt struct {
	Nodes  []int   `json:"nodes"`
	Color  string  `json:"color"`
	Alpha  float64 `json:"alpha"`
	Energy float64 `json:"energy"`
}

// Frame is one snapshot; particles are [x, y, pulse] and edges [i, j, activity]
type Frame struct {
	Type      string       `json:"type"`
	Session   string       `json:"session"`
	Seq       uint64       `json:"seq"`
	Time      float64      `json:"time"`
	Mode      string       `json:"mode"`
	Particles [][3]float64 `json:"particles"`
	Edges     [][3]float64 `json:"edges"`
	Lightning []Bolt       `json:"lightning"`
}

// NewFrame converts a snapshot to its wire form
func NewFrame(session string, seq uint64, snap scene.Snapshot) Frame {
	f := Frame{
		Type:      TypeFrame,
		Session:   session,
		Seq:       seq,
		Time:      snap.Time,
		Mode:      snap.Mode.String(),
		Particles: make([][3]float64, len(snap.Particles)),
		Edges:     make([][3]float64, len(snap.Edges)),
		Lightning: make([]Bolt, len(snap.Lightning)),
	}
	for i, p := range snap.Particles {
		f.Particles[i] = [3]float64{p.Pos.X, p.Pos.Y, p.Pulse}
	}
	for i, e := range snap.Edges {
		f.Edges[i] = [3]float64{float64(e.I), float64(e.J), e.Activity}
	}
	for i, s := range snap.Lightning {
		f.Lightning[i] = Bolt{Nodes: s.Nodes, Color: s.Color.Hex(), Alpha: s.Alpha, Energy: s.Energy}
	}
	return f
}

// Message is a client event
type Message struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}
