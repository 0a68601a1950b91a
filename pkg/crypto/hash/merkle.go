package hash

import (
	"errors"

	"github.com/n3lib/core/pkg/util"
)

// MerkleTreeNode is one node of a MerkleTree: either a leaf, carrying
// one of the input hashes, or an interior node carrying the combined
// hash of its two children.
type MerkleTreeNode struct {
	hash       util.Uint256
	parent     *MerkleTreeNode
	leftChild  *MerkleTreeNode
	rightChild *MerkleTreeNode
}

// Hash returns the node's hash.
func (n MerkleTreeNode) Hash() util.Uint256 {
	return n.hash
}

// IsLeaf returns true for a node with no children.
func (n MerkleTreeNode) IsLeaf() bool {
	return n.leftChild == nil && n.rightChild == nil
}

// IsRoot returns true for a node with no parent.
func (n MerkleTreeNode) IsRoot() bool {
	return n.parent == nil
}

// MerkleTree is a binary hash tree built bottom-up over an ordered
// sequence of transaction hashes, used to verify a received block's
// merkle_root field against the transactions it claims to carry.
type MerkleTree struct {
	root  *MerkleTreeNode
	depth int
}

// NewMerkleTree builds a MerkleTree over hashes. hashes must be
// non-empty.
func NewMerkleTree(hashes []util.Uint256) (*MerkleTree, error) {
	if len(hashes) == 0 {
		return nil, errors.New("invalid argument: at least one hash is required")
	}

	nodes := make([]*MerkleTreeNode, len(hashes))
	for i, h := range hashes {
		nodes[i] = &MerkleTreeNode{hash: h}
	}

	root := buildMerkleTree(nodes)
	return &MerkleTree{root: root, depth: 1}, nil
}

// Root returns the computed Merkle root.
func (t *MerkleTree) Root() util.Uint256 {
	return t.root.hash
}

// buildMerkleTree pairs adjacent nodes level by level, duplicating the
// last node of a level when its count is odd, until a single root node
// remains. It panics on an empty input slice: every caller here has
// already checked for that (NewMerkleTree rejects it, CalcMerkleRoot
// special-cases it), so this can never fire from external input.
func buildMerkleTree(leaves []*MerkleTreeNode) *MerkleTreeNode {
	if len(leaves) == 0 {
		panic("buildMerkleTree: empty leaves")
	}
	if len(leaves) == 1 {
		return leaves[0]
	}

	level := leaves
	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		parents := make([]*MerkleTreeNode, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			left, right := level[i], level[i+1]
			parent := &MerkleTreeNode{
				hash:       combine(left.hash, right.hash),
				leftChild:  left,
				rightChild: right,
			}
			left.parent = parent
			right.parent = parent
			parents[i/2] = parent
		}
		level = parents
	}
	return level[0]
}

func combine(left, right util.Uint256) util.Uint256 {
	buf := make([]byte, 0, util.Uint256Size*2)
	buf = append(buf, left.BytesLE()...)
	buf = append(buf, right.BytesLE()...)
	return DoubleSha256(buf)
}

// CalcMerkleRoot computes a Merkle root without building or retaining
// the intermediate tree, for callers that only need the final hash.
// CalcMerkleRoot(nil) is the zero hash; CalcMerkleRoot of a single
// element is that element.
func CalcMerkleRoot(hashes []util.Uint256) util.Uint256 {
	if len(hashes) == 0 {
		return util.Uint256{}
	}
	if len(hashes) == 1 {
		return hashes[0]
	}

	level := make([]util.Uint256, len(hashes))
	copy(level, hashes)
	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]util.Uint256, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next[i/2] = combine(level[i], level[i+1])
		}
		level = next
	}
	return level[0]
}
