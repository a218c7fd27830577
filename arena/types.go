package arena

import (
	"errors"
	"sync"
)

// Sentinel errors for arena operations.
var (
	// ErrAddressNotFound indicates a (scale, point) pair has no node.
	ErrAddressNotFound = errors.New("arena: address not found")

	// ErrEmptyArena indicates an operation required at least one committed
	// node (e.g. Root on a freshly constructed arena).
	ErrEmptyArena = errors.New("arena: empty arena")

	// ErrNotFinalized indicates Root/TopScale/BottomScale was called before
	// Finalize, so the summary fields are not yet meaningful.
	ErrNotFinalized = errors.New("arena: arena has not been finalized")
)

// NodeID is a dense, build-time-assigned index into the arena's node
// slice. It is stable for the lifetime of the arena.
type NodeID int32

// Address is the unique node identifier (scale_index, point_index) of §3.
type Address struct {
	Scale int32
	Point int32
}

// Node is one address of a built cover tree.
type Node struct {
	// Addr is this node's (scale_index, point_index).
	Addr Address

	// SelfChild is the address of the same-center child at Addr.Scale-1, if
	// any (the chain anchor of §3 invariant 3). Zero value + HasSelfChild
	// distinguishes "no self-child" (a leaf) from address (0,0).
	SelfChild    Address
	HasSelfChild bool

	// Children holds every child address at Addr.Scale-1, including the
	// self-child if present.
	Children []Address

	// Singletons holds point indices covered by this node that were never
	// promoted to a child.
	Singletons []int32

	// CoverageCount is the total number of distinct points reachable
	// beneath this node (center + singletons + Σ children.CoverageCount).
	CoverageCount uint64

	// CoverMean is the mean of the node's singletons (subsampled to
	// sampleCap), set by covertree.Tree.AttachSVDs for nodes with at least
	// two singletons; it is not the mean of the node's full coverage and is
	// nil everywhere else.
	CoverMean []float32

	// SingularValues holds the top-k singular values of the centered
	// singleton matrix, populated lazily by covertree.Tree.AttachSVDs.
	SingularValues []float32

	// LabelSummary is an opaque per-node label aggregate, set by
	// covertree.Tree.AttachLabels, a separate call after the build. Nil when
	// no labels were attached.
	LabelSummary interface{}
}

// Arena is the flat, address-indexed storage for all nodes of one built
// cover tree. Zero value is not usable; construct with New.
type Arena struct {
	mu sync.Mutex // guards appends during the build phase only

	nodes     []Node
	byAddress map[Address]NodeID
	byLayer   map[int32][]NodeID

	finalized   bool
	rootID      NodeID
	topScale    int32
	bottomScale int32
}

// New returns an empty Arena ready to accept appends.
func New() *Arena {
	return &Arena{
		byAddress: make(map[Address]NodeID),
		byLayer:   make(map[int32][]NodeID),
	}
}
