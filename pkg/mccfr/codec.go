package mccfr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/behrlich/holdem-abstractor/pkg/notation"
	"github.com/behrlich/holdem-abstractor/pkg/tree"
)

// maxPathDepth bounds how many edges a Path may carry and still have
// an exact, closed-form uint64 encoding (spec.md §6: "stable
// bidirectional encoding", not a hash). River subgames in this module
// never run deeper than a handful of betting rounds, so this is not a
// practical limitation for the scope this stand-in covers (see
// DESIGN.md).
const maxPathDepth = 4

// edgeAmountScale quantizes a bet/raise amount to the nearest half-bb
// so it fits the 12 bits reserved for it in EncodeEdge.
const edgeAmountScale = 2.0

// EncodeEdge packs an Edge into 15 bits: 3 for the action type, 12 for
// a half-bb-quantized amount (0 for Check/Call/Fold).
func EncodeEdge(e Edge) uint32 {
	t := uint32(edgeTypeCode(e.Type))
	amount := uint32(0)
	if e.Type == notation.Bet || e.Type == notation.Raise {
		q := int(e.Amount*edgeAmountScale + 0.5)
		if q < 0 {
			q = 0
		}
		if q > 0xFFF {
			panic("mccfr: edge amount too large to encode")
		}
		amount = uint32(q)
	}
	return t | amount<<3
}

// DecodeEdge inverts EncodeEdge.
func DecodeEdge(code uint32) Edge {
	t := decodeEdgeType(code & 0x7)
	amount := float64(code>>3) / edgeAmountScale
	if t != notation.Bet && t != notation.Raise {
		amount = 0
	}
	return Edge{Type: t, Amount: amount}
}

func edgeTypeCode(t notation.ActionType) uint32 {
	switch t {
	case notation.Check:
		return 0
	case notation.Call:
		return 1
	case notation.Bet:
		return 2
	case notation.Raise:
		return 3
	case notation.Fold:
		return 4
	default:
		panic(fmt.Sprintf("mccfr: unknown action type %v", t))
	}
}

func decodeEdgeType(code uint32) notation.ActionType {
	switch code {
	case 0:
		return notation.Check
	case 1:
		return notation.Call
	case 2:
		return notation.Bet
	case 3:
		return notation.Raise
	case 4:
		return notation.Fold
	default:
		panic(fmt.Sprintf("mccfr: unknown edge type code %d", code))
	}
}

// pathEdges parses a Path's "/"-joined Edge.String() tokens back into
// Edges. Path never carries any content besides Edge.String() output
// (see tree.Path.Extend), so this is a true inverse, not a heuristic.
func pathEdges(p Path) []Edge {
	s := string(p)
	if s == "" {
		return nil
	}
	tokens := strings.Split(s, "/")[1:] // leading "/" produces one empty element
	edges := make([]Edge, 0, len(tokens))
	for _, tok := range tokens {
		edges = append(edges, parseEdgeToken(tok))
	}
	return edges
}

func parseEdgeToken(tok string) Edge {
	switch {
	case tok == "x":
		return Edge{Type: notation.Check}
	case tok == "c":
		return Edge{Type: notation.Call}
	case tok == "f":
		return Edge{Type: notation.Fold}
	case strings.HasPrefix(tok, "b"):
		amt, err := strconv.ParseFloat(tok[1:], 64)
		if err != nil {
			panic(fmt.Sprintf("mccfr: malformed bet token %q: %v", tok, err))
		}
		return Edge{Type: notation.Bet, Amount: amt}
	case strings.HasPrefix(tok, "r"):
		amt, err := strconv.ParseFloat(tok[1:], 64)
		if err != nil {
			panic(fmt.Sprintf("mccfr: malformed raise token %q: %v", tok, err))
		}
		return Edge{Type: notation.Raise, Amount: amt}
	default:
		panic(fmt.Sprintf("mccfr: malformed path token %q", tok))
	}
}

// EncodePath packs a Path's edges into 64 bits: a 4-bit length prefix
// followed by up to maxPathDepth 15-bit edge codes. Panics if p is
// deeper than maxPathDepth (spec.md §7 item 3: an invariant violation
// this stand-in chooses not to support silently truncates nothing).
func EncodePath(p Path) uint64 {
	edges := pathEdges(p)
	if len(edges) > maxPathDepth {
		panic(fmt.Sprintf("mccfr: path depth %d exceeds max %d", len(edges), maxPathDepth))
	}
	code := uint64(len(edges))
	for i, e := range edges {
		code |= uint64(EncodeEdge(e)) << (4 + 15*uint(i))
	}
	return code
}

// DecodePath inverts EncodePath.
func DecodePath(code uint64) Path {
	length := int(code & 0xF)
	p := tree.RootPath
	for i := 0; i < length; i++ {
		ecode := uint32((code >> (4 + 15*uint(i))) & 0x7FFF)
		p = p.Extend(DecodeEdge(ecode))
	}
	return p
}
