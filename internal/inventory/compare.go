package inventory

import (
	"iter"
	"strings"

	"github.com/xingh/bsn-modulestore/internal/sqlast"
)

// DifferenceKind classifies one object of a comparison.
type DifferenceKind int

const (
	// None means the object is structurally equal on both sides.
	None DifferenceKind = iota
	// SourceOnly means the object only exists in the source inventory.
	SourceOnly
	// TargetOnly means the object only exists in the target inventory.
	TargetOnly
	// Different means the object exists on both sides with different content.
	Different
)

func (k DifferenceKind) String() string {
	switch k {
	case None:
		return "none"
	case SourceOnly:
		return "source-only"
	case TargetOnly:
		return "target-only"
	case Different:
		return "different"
	}
	return "unknown"
}

// Difference is one classified object. Statement is taken from the target
// inventory unless Kind is SourceOnly.
type Difference struct {
	Statement sqlast.AlterableStatement
	Kind      DifferenceKind
}

// Compare walks the installables of both inventories in name order. Equality
// ignores schema qualification.
func Compare(source, target *Inventory) iter.Seq[Difference] {
	return func(yield func(Difference) bool) {
		src := source.Installables()
		dst := target.Installables()
		i, j := 0, 0
		for i < len(src) && j < len(dst) {
			s, t := src[i], dst[j]
			switch c := strings.Compare(key(s.ObjectName()), key(t.ObjectName())); {
			case c < 0:
				if !yield(Difference{Statement: s, Kind: SourceOnly}) {
					return
				}
				i++
			case c > 0:
				if !yield(Difference{Statement: t, Kind: TargetOnly}) {
					return
				}
				j++
			default:
				kind := Different
				if equal(source, target, s.ObjectName()) {
					kind = None
				}
				if !yield(Difference{Statement: t, Kind: kind}) {
					return
				}
				i++
				j++
			}
		}
		for ; i < len(src); i++ {
			if !yield(Difference{Statement: src[i], Kind: SourceOnly}) {
				return
			}
		}
		for ; j < len(dst); j++ {
			if !yield(Difference{Statement: dst[j], Kind: TargetOnly}) {
				return
			}
		}
	}
}

func equal(source, target *Inventory, name string) bool {
	a, _ := source.Hash(name)
	b, _ := target.Hash(name)
	return a == b
}
