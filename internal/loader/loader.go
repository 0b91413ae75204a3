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


// Package loader builds graphs from YAML documents. A document lists nodes
// in definition order, arguments refer to the names of earlier nodes. Fixed
// nodes are chained after the start node in the order they appear, and
// the chain ends with a return or a deopt.
//
//     name: example
//     nodes:
//       - { name: x, op: param, type: i32, lo: 0, hi: 10 }
//       - { name: c, op: const, value: 100 }
//       - { name: t, op: lt, args: [x, c] }
//       - { name: g, op: guard, args: [t], reason: range }
//       - { op: return, args: [x] }
//
// Op names are always read as text, so an unquoted `op: null` is the null
// constant and not a missing op.
package loader

import (
    `bytes`
    `fmt`
    `io`
    `os`

    `github.com/cloudwego/gir/ir`
    `github.com/cloudwego/gir/ir/nodes`
    `github.com/cloudwego/gir/ir/stamp`
    `gopkg.in/yaml.v3`
)

// Document is the YAML form of a graph.
type Document struct {
    Name  string  `yaml:"name"`
    Nodes []Entry `yaml:"nodes"`
}

// Entry is the YAML form of a node. Only the fields used by the op are
// looked at.
type Entry struct {
    Name    string   `yaml:"name,omitempty"`
    Op      string   `yaml:"op"`
    Args    []string `yaml:"args,omitempty"`
    Type    string   `yaml:"type,omitempty"`
    Lo      *int64   `yaml:"lo,omitempty"`
    Hi      *int64   `yaml:"hi,omitempty"`
    NonNull bool     `yaml:"nonnull,omitempty"`
    Value   int64    `yaml:"value,omitempty"`
    Field   string   `yaml:"field,omitempty"`
    Reason  string   `yaml:"reason,omitempty"`
    Negated bool     `yaml:"negated,omitempty"`
}

// Graph is a loaded graph, along with its named nodes.
type Graph struct {
    *ir.Graph
    Names map[string]*ir.Node
}

var (
    unaryOps = map[string]nodes.UnaryOp {
        "neg": nodes.OpNeg,
        "not": nodes.OpNot,
    }
    binaryOps = map[string]nodes.BinaryOp {
        "add": nodes.OpAdd,
        "sub": nodes.OpSub,
        "mul": nodes.OpMul,
        "and": nodes.OpAnd,
        "or" : nodes.OpOr,
        "xor": nodes.OpXor,
        "shl": nodes.OpShl,
        "sar": nodes.OpSar,
        "shr": nodes.OpShr,
    }
    compareOps = map[string]nodes.CompareOp {
        "eq"    : nodes.OpEq,
        "lt"    : nodes.OpLt,
        "below" : nodes.OpBelow,
    }
)

// Load reads and builds the graph in the YAML file at path.
func Load(path string) (*Graph, error) {
    if buf, err := os.ReadFile(path); err != nil {
        return nil, fmt.Errorf("loader: %w", err)
    } else {
        return Parse(bytes.NewReader(buf))
    }
}

// Parse reads and builds a graph from YAML. Unknown fields are rejected.
func Parse(r io.Reader) (*Graph, error) {
    var doc  Document
    var root yaml.Node

    /* read the raw document first */
    if err := yaml.NewDecoder(r).Decode(&root); err != nil {
        return nil, fmt.Errorf("loader: invalid YAML: %w", err)
    }

    /* op names are text, even when they look like null */
    textOps(&root)
    buf, err := yaml.Marshal(&root)
    if err != nil {
        return nil, fmt.Errorf("loader: invalid YAML: %w", err)
    }

    /* decode it strictly */
    dec := yaml.NewDecoder(bytes.NewReader(buf))
    dec.KnownFields(true)

    /* decode the document */
    if err = dec.Decode(&doc); err != nil {
        return nil, fmt.Errorf("loader: invalid YAML: %w", err)
    } else {
        return Build(&doc)
    }
}

func textOps(n *yaml.Node) {
    if n.Kind == yaml.MappingNode {
        for i := 0; i + 1 < len(n.Content); i += 2 {
            if k, v := n.Content[i], n.Content[i + 1]; k.Value == "op" && v.Kind == yaml.ScalarNode && v.ShortTag() == "!!null" {
                v.Tag = "!!str"
            }
        }
    }
    for _, v := range n.Content {
        textOps(v)
    }
}

type _Builder struct {
    g      *ir.Graph
    names  map[string]*ir.Node
    last   *ir.Node
    params int
}

// Build creates the graph described by doc.
func Build(doc *Document) (ret *Graph, err error) {
    b := &_Builder {
        g     : nodes.NewGraph(doc.Name),
        names : make(map[string]*ir.Node),
    }

    /* mismatched operand widths and misplaced nodes panic in the graph */
    defer func() {
        if v := recover(); v != nil {
            ret, err = nil, fmt.Errorf("loader: invalid graph %q: %v", doc.Name, v)
        }
    }()

    /* build every node */
    for i, e := range doc.Nodes {
        if err = b.add(&e); err != nil {
            return nil, fmt.Errorf("loader: node %d (%s): %w", i, e.Op, err)
        }
    }

    /* the control flow must be terminated */
    if b.last == nil || !b.last.IsControlSink() {
        return nil, fmt.Errorf("loader: graph %q does not end with a return or a deopt", doc.Name)
    }

    /* all done */
    return &Graph { b.g, b.names }, nil
}

func (self *_Builder) args(e *Entry, min int, max int) ([]*ir.Node, error) {
    ret := make([]*ir.Node, 0, len(e.Args))
    nargs := len(e.Args)

    /* check the arity */
    if nargs < min || (max >= 0 && nargs > max) {
        if min == max {
            return nil, fmt.Errorf("expects %d arguments, got %d", min, nargs)
        } else {
            return nil, fmt.Errorf("expects %d to %d arguments, got %d", min, max, nargs)
        }
    }

    /* resolve the names, "-" is an empty slot */
    for _, a := range e.Args {
        if a == "-" {
            ret = append(ret, nil)
        } else if n, ok := self.names[a]; !ok {
            return nil, fmt.Errorf("undefined argument %q", a)
        } else {
            ret = append(ret, n)
        }
    }

    /* all resolved */
    return ret, nil
}

func (self *_Builder) add(e *Entry) error {
    var err error
    var n   *ir.Node
    var in  []*ir.Node

    /* the start node is implicit */
    if self.last == nil {
        self.last = self.g.Start()
    }

    /* nothing can follow a return or a deopt */
    if self.last.IsControlSink() {
        return fmt.Errorf("control flow has already ended")
    }

    /* build the node */
    switch e.Op {
        case "param": {
            var s stamp.Stamp
            if s, err = parseStamp(e, "i32"); err == nil {
                n = nodes.Parameter(self.g, self.params, s)
                self.params++
            }
        }

        /* constants */
        case "const": {
            var nb uint8
            if nb, err = parseBits(e.Type); err == nil {
                n = nodes.Int(self.g, nb, e.Value)
            }
        }
        case "null": {
            n = nodes.Null(self.g)
        }

        /* floating values */
        case "select": {
            if in, err = self.args(e, 3, 3); err == nil {
                n = self.g.Add(nodes.Conditional{}, in...)
            }
        }
        case "isnull": {
            if in, err = self.args(e, 1, 1); err == nil {
                n = self.g.Add(nodes.IsNull{}, in...)
            }
        }
        case "pi": {
            var s stamp.Stamp
            if s, err = parseStamp(e, ""); err == nil {
                if in, err = self.args(e, 1, 2); err == nil {
                    n = self.g.Add(nodes.Pi { Type: s }, append(in, nil)[:2]...)
                }
            }
        }

        /* fixed nodes */
        case "begin": {
            if _, err = self.args(e, 0, 0); err == nil {
                n = self.append(self.g.Add(nodes.Begin{}))
            }
        }
        case "guard": {
            if in, err = self.args(e, 1, 1); err == nil {
                n = self.append(self.g.Add(nodes.FixedGuard { Negated: e.Negated, Reason: e.Reason }, in...))
            }
        }
        case "load": {
            var s stamp.Stamp
            if s, err = parseStamp(e, "i32"); err == nil {
                if in, err = self.args(e, 1, 1); err == nil {
                    n = self.append(self.g.Add(nodes.Load { Field: e.Field, Type: s }, in...))
                }
            }
        }
        case "store": {
            if in, err = self.args(e, 2, 2); err == nil {
                n = self.append(self.g.Add(nodes.Store { Field: e.Field }, in...))
            }
        }
        case "newarray": {
            if in, err = self.args(e, 1, 1); err == nil {
                n = self.append(self.g.Add(nodes.NewArray{}, in...))
            }
        }
        case "arraylength": {
            if in, err = self.args(e, 1, 1); err == nil {
                n = self.append(self.g.Add(nodes.ArrayLength{}, in...))
            }
        }

        /* control sinks */
        case "return": {
            if in, err = self.args(e, 0, -1); err == nil {
                n = self.append(self.g.Add(nodes.Return{}, in...))
            }
        }
        case "deopt": {
            if _, err = self.args(e, 0, 0); err == nil {
                n = self.append(self.g.Add(nodes.Deopt { Reason: e.Reason }))
            }
        }

        /* arithmetic and comparisons */
        default: {
            if op, ok := unaryOps[e.Op]; ok {
                if in, err = self.args(e, 1, 1); err == nil {
                    n = self.g.Add(nodes.Unary { Op: op }, in...)
                }
            } else if op, ok := binaryOps[e.Op]; ok {
                if in, err = self.args(e, 2, 2); err == nil {
                    n = self.g.Add(nodes.Binary { Op: op }, in...)
                }
            } else if op, ok := compareOps[e.Op]; ok {
                if in, err = self.args(e, 2, 2); err == nil {
                    n = self.g.Add(nodes.Compare { Op: op }, in...)
                }
            } else {
                err = fmt.Errorf("unknown op %q", e.Op)
            }
        }
    }

    /* check for errors */
    if err != nil {
        return err
    }

    /* register the name */
    if e.Name != "" {
        if _, ok := self.names[e.Name]; ok {
            return fmt.Errorf("duplicated name %q", e.Name)
        } else {
            self.names[e.Name] = n
        }
    }

    /* all done */
    return nil
}

func (self *_Builder) append(n *ir.Node) *ir.Node {
    self.last.SetNext(n)
    self.last = n
    return n
}

func parseBits(t string) (uint8, error) {
    switch t {
        case "i8"       : return 8, nil
        case "i16"      : return 16, nil
        case "i32", ""  : return 32, nil
        case "i64"      : return 64, nil
        default         : return 0, fmt.Errorf("invalid integer type %q", t)
    }
}

func parseStamp(e *Entry, def string) (stamp.Stamp, error) {
    t := e.Type
    if t == "" {
        t = def
    }

    /* non-integer types */
    switch t {
        case "bool"   : return stamp.Bool(), nil
        case "object" : return objectStamp(e), nil
        case ""       : return nil, fmt.Errorf("type is required")
    }

    /* integers, optionally with a range */
    nb, err := parseBits(t)
    if err != nil {
        return nil, err
    }

    /* no range at all */
    if e.Lo == nil && e.Hi == nil {
        return stamp.Int(nb), nil
    }

    /* open ends are unbounded */
    lo, hi := stamp.MinValue(nb), stamp.MaxValue(nb)
    if e.Lo != nil {
        lo = *e.Lo
    }
    if e.Hi != nil {
        hi = *e.Hi
    }

    /* check the range */
    if lo > hi || lo < stamp.MinValue(nb) || hi > stamp.MaxValue(nb) {
        return nil, fmt.Errorf("invalid range [%d, %d] for %s", lo, hi, t)
    } else {
        return stamp.IntRange(nb, lo, hi), nil
    }
}

func objectStamp(e *Entry) stamp.Stamp {
    if e.NonNull {
        return stamp.ObjectNonNull("object", false)
    } else {
        return stamp.Object()
    }
}
