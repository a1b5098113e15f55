package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/cbergoon/merkletree"
)

// ObjectHash is the content hash of one inventory object.
type ObjectHash struct {
	Name string
	Hash [32]byte
}

// ObjectTree is a merkle tree over per-object hashes. Two inventories with the
// same root hold the same objects; Changed narrows a mismatch down to names.
type ObjectTree struct {
	Root    string
	Objects map[string]string // lower case name -> object hash hex
}

// objectContent implements merkletree.Content for one object.
type objectContent struct {
	name string
	hash string
}

func (o objectContent) CalculateHash() ([]byte, error) {
	h := sha256.Sum256([]byte(o.name + ":" + o.hash))
	return h[:], nil
}

func (o objectContent) Equals(other merkletree.Content) (bool, error) {
	x, ok := other.(objectContent)
	if !ok {
		return false, nil
	}
	return o.name == x.name && o.hash == x.hash, nil
}

// NewObjectTree builds the tree for the given objects. The order of objects
// does not matter.
func NewObjectTree(objects []ObjectHash) (*ObjectTree, error) {
	tree := &ObjectTree{Objects: make(map[string]string, len(objects))}
	contents := make([]merkletree.Content, 0, len(objects))
	for _, o := range objects {
		name := strings.ToLower(o.Name)
		hash := hex.EncodeToString(o.Hash[:])
		tree.Objects[name] = hash
		contents = append(contents, objectContent{name: name, hash: hash})
	}
	if len(contents) == 0 {
		tree.Root = emptyHash()
		return tree, nil
	}
	sort.Slice(contents, func(i, j int) bool {
		return contents[i].(objectContent).name < contents[j].(objectContent).name
	})

	mt, err := merkletree.NewTree(contents)
	if err != nil {
		return nil, fmt.Errorf("failed to build merkle tree: %w", err)
	}
	tree.Root = hex.EncodeToString(mt.MerkleRoot())
	return tree, nil
}

// Changed returns the sorted lower case names whose hashes differ between the
// two trees, including names present in only one of them.
func (t *ObjectTree) Changed(other *ObjectTree) []string {
	if t.Root == other.Root {
		return nil
	}
	var names []string
	for name, hash := range t.Objects {
		if other.Objects[name] != hash {
			names = append(names, name)
		}
	}
	for name := range other.Objects {
		if _, ok := t.Objects[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func emptyHash() string {
	h := sha256.Sum256(nil)
	return hex.EncodeToString(h[:])
}
