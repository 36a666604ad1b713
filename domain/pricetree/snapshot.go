package pricetree

import "vanta/domain/book"

// Node is one entry of a structural dump. IDs derive from the node's
// path from the root: root is 1, a left child is 2n, a right child is
// 2n+1, so identical tree shapes always number identically.
type Node struct {
	ID     int          `json:"id"`
	Price  int64        `json:"price"`
	Orders []book.Order `json:"orders"`
	Height int          `json:"height"`
}

// Edge is one parent-child link.
type Edge struct {
	From int `json:"source"`
	To   int `json:"target"`
}

type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"links"`
}

// Snapshot dumps the tree in pre-order for external rendering. It
// carries no matching semantics.
func (t *Tree) Snapshot() Snapshot {
	s := Snapshot{}
	if t.root == nil {
		return s
	}
	traverse(t.root, 1, &s)
	return s
}

func traverse(n *node, id int, s *Snapshot) {
	orders := make([]book.Order, len(n.orders))
	copy(orders, n.orders)

	s.Nodes = append(s.Nodes, Node{
		ID:     id,
		Price:  n.price,
		Orders: orders,
		Height: n.height,
	})

	if n.left != nil {
		left := id * 2
		s.Edges = append(s.Edges, Edge{From: id, To: left})
		traverse(n.left, left, s)
	}
	if n.right != nil {
		right := id*2 + 1
		s.Edges = append(s.Edges, Edge{From: id, To: right})
		traverse(n.right, right, s)
	}
}
