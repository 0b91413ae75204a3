/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ir

import (
    `fmt`

    `github.com/cloudwego/gir/ir/stamp`
)

// Kind is the scheduling class of a node.
type Kind uint8

const (
    // Floating nodes are pure and unordered, usable anywhere their inputs dominate.
    Floating Kind = iota

    // Fixed nodes sit on the control-flow chain, their successors are
    // declared by the op (see Splitter).
    Fixed

    // FixedWithNext nodes are fixed nodes with exactly one control successor.
    FixedWithNext

    // ControlSink nodes terminate a control path.
    ControlSink
)

func (self Kind) String() string {
    switch self {
        case Floating      : return "floating"
        case Fixed         : return "fixed"
        case FixedWithNext : return "fixed-with-next"
        case ControlSink   : return "control-sink"
        default            : return fmt.Sprintf("kind(%d)", uint8(self))
    }
}

// Op describes what a node computes. Ops are immutable values, everything
// that changes during rewriting lives in the Node.
type Op interface {
    fmt.Stringer
    Kind() Kind
}

// Splitter is implemented by Fixed ops to declare their successor count.
type Splitter interface {
    Op
    SuccessorCount() int
}

// Canonicalizable ops rewrite their node as a pure function of its inputs
// and stamps. Canonical returns n for "no change", nil to delete the node,
// or a replacement node.
type Canonicalizable interface {
    Op
    Canonical(tool Tool, n *Node) *Node
}

// Simplifiable ops rewrite their node with arbitrary graph surgery.
type Simplifiable interface {
    Op
    Simplify(tool Tool, n *Node)
}

// StampInferrer ops compute their node's stamp from its input stamps.
type StampInferrer interface {
    Op
    InferStamp(n *Node) stamp.Stamp
}

// ValueNumberable ops are side-effect free: two nodes with equal ops and
// identical inputs compute the same value. Only Floating ops may be
// value-numberable.
type ValueNumberable interface {
    Op
    ValueEqual(other Op) bool
    ValueHash() uint64
}

// ConstantOp is implemented by ops producing a single constant value.
type ConstantOp interface {
    Op
    Constant() stamp.Constant
}

// Tool is handed to capability implementations during canonicalization.
type Tool interface {
    AddToWorkList(n *Node)
    RemoveIfUnused(n *Node)
    DeleteBranch(branch *Node)
    CanonicalizeReads() bool
}

// CustomCanonicalizer is an externally supplied rewrite for value nodes,
// tried when the built-in dispatch made no change. It returns n for "no
// change".
type CustomCanonicalizer interface {
    Canonicalize(n *Node) *Node
}

// CustomCanonicalizerFunc adapts a function to CustomCanonicalizer.
type CustomCanonicalizerFunc func(n *Node) *Node

func (self CustomCanonicalizerFunc) Canonicalize(n *Node) *Node {
    return self(n)
}

func checkOp(op Op) {
    _, canon := op.(Canonicalizable)
    _, simpl := op.(Simplifiable)
    _, gvn   := op.(ValueNumberable)

    /* capability dispatch must be unambiguous */
    if canon && simpl {
        panic(Violation(nil, "op %s is both canonicalizable and simplifiable", op))
    }

    /* fixed nodes carry control-flow identity */
    if gvn && op.Kind() != Floating {
        panic(Violation(nil, "value-numberable op %s must be floating", op))
    }
}

func successorCount(op Op) int {
    switch op.Kind() {
        case Floating      : return 0
        case FixedWithNext : return 1
        case ControlSink   : return 0
    }

    /* split-like fixed nodes declare their successors */
    if sp, ok := op.(Splitter); !ok {
        panic(Violation(nil, "fixed op %s does not declare its successors", op))
    } else {
        return sp.SuccessorCount()
    }
}
