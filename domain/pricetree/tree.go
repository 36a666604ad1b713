// Package pricetree maintains an AVL tree of submitted orders keyed by
// price, used only as a structural projection for visualization. It is
// a second, independent consumer of the same orders the matching engine
// receives: nodes record submission-time snapshots and are never
// updated by fills. The tree only grows; there is no deletion.
package pricetree

import "vanta/domain/book"

type node struct {
	price  int64
	orders []book.Order
	height int
	left   *node
	right  *node
}

func newNode(o book.Order) *node {
	return &node{
		price:  o.Price,
		orders: []book.Order{o},
		height: 1,
	}
}

// Tree is height-balanced after every insertion: for every node the
// height difference between its subtrees is in {-1, 0, 1}.
type Tree struct {
	root *node
	size int
}

func New() *Tree {
	return &Tree{}
}

// Insert records the order under its price. An existing node at the
// exact price appends to its order list without rebalancing.
func (t *Tree) Insert(o book.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	t.root = insert(t.root, o)
	t.size++
	return nil
}

// Size reports the number of orders recorded.
func (t *Tree) Size() int {
	return t.size
}

// Height reports the root height (0 for an empty tree).
func (t *Tree) Height() int {
	return height(t.root)
}

func insert(n *node, o book.Order) *node {
	if n == nil {
		return newNode(o)
	}

	switch {
	case o.Price == n.price:
		n.orders = append(n.orders, o)
		return n
	case o.Price < n.price:
		n.left = insert(n.left, o)
	default:
		n.right = insert(n.right, o)
	}

	n.height = max(height(n.left), height(n.right)) + 1

	switch balance := balanceOf(n); {
	case balance > 1 && o.Price < n.left.price: // left-left
		return rotateRight(n)
	case balance < -1 && o.Price > n.right.price: // right-right
		return rotateLeft(n)
	case balance > 1: // left-right
		n.left = rotateLeft(n.left)
		return rotateRight(n)
	case balance < -1: // right-left
		n.right = rotateRight(n.right)
		return rotateLeft(n)
	}

	return n
}

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func balanceOf(n *node) int {
	if n == nil {
		return 0
	}
	return height(n.left) - height(n.right)
}

// rotateRight lifts n.left; rotations swap child references and
// recompute the heights of the two rotated nodes only.
func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right

	x.right = y
	y.left = t2

	y.height = max(height(y.left), height(y.right)) + 1
	x.height = max(height(x.left), height(x.right)) + 1

	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left

	y.left = x
	x.right = t2

	x.height = max(height(x.left), height(x.right)) + 1
	y.height = max(height(y.left), height(y.right)) + 1

	return y
}
