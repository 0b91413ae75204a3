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

package canon

import (
    `bytes`
    `context`
    `fmt`
    `log/slog`
    `os`
    `path/filepath`
    `strings`
    `sync/atomic`

    `github.com/cloudwego/gir/internal/opts`
    `github.com/cloudwego/gir/ir`
    `github.com/cloudwego/gir/ir/nodes`
    `github.com/google/uuid`
)

var dumpSeq atomic.Int64

// Phase is a configured canonicalizer. A Phase may be shared between
// goroutines as long as each of them works on its own graph.
type Phase struct {
    opts opts.Options
}

type _Run struct {
    g    *ir.Graph
    wl   *WorkList
    log  *slog.Logger
    opts *opts.Options
    tool _Tool
}

func NewPhase(o opts.Options) *Phase {
    if o.Logger == nil {
        o.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions { Level: opts.LogLevel }))
    }
    return &Phase { o }
}

// Apply canonicalizes every node of g.
func (self *Phase) Apply(g *ir.Graph) error {
    return self.ApplyContext(context.Background(), g)
}

// ApplyContext canonicalizes every node of g, stopping early if ctx is
// done. Rewrites applied before that stay applied.
func (self *Phase) ApplyContext(ctx context.Context, g *ir.Graph) error {
    return self.run(ctx, g, func(wl *WorkList) {
        wl.AddAll(g.Nodes())
    })
}

// ApplyNodes canonicalizes the given nodes, and whatever their rewrites
// affect.
func (self *Phase) ApplyNodes(ctx context.Context, g *ir.Graph, ns []*ir.Node) error {
    return self.run(ctx, g, func(wl *WorkList) {
        wl.AddAll(ns)
    })
}

// ApplyIncremental canonicalizes the nodes created since mark.
func (self *Phase) ApplyIncremental(ctx context.Context, g *ir.Graph, mark int) error {
    return self.run(ctx, g, func(wl *WorkList) {
        wl.AddAll(g.NewNodes(mark))
    })
}

// ApplyNodesIncremental canonicalizes the given nodes and the nodes
// created since mark.
func (self *Phase) ApplyNodesIncremental(ctx context.Context, g *ir.Graph, ns []*ir.Node, mark int) error {
    return self.run(ctx, g, func(wl *WorkList) {
        wl.AddAll(ns)
        wl.AddAll(g.NewNodes(mark))
    })
}

func (self *Phase) run(ctx context.Context, g *ir.Graph, seed func(wl *WorkList)) (err error) {
    r := &_Run {
        g    : g,
        wl   : NewWorkList(g, self.opts.MaxIterationPerNode),
        log  : self.opts.Logger.With("graph", g.Name, "run", uuid.Must(uuid.NewV7()).String()),
        opts : &self.opts,
    }

    /* invariant violations are fatal for this graph only */
    defer func() {
        if v := recover(); v != nil {
            switch e := v.(type) {
                case *ir.InvariantError  : err = e
                case *RevisitLimitError  : err = e
                default                  : panic(v)
            }
            r.log.Error("canonicalization aborted", "error", err)
        }
    }()

    /* check the graph before touching it */
    if self.opts.Verify {
        if err = g.Verify(); err != nil {
            return fmt.Errorf("canon: malformed graph %q: %w", g.Name, err)
        }
    }

    /* start tracking changes */
    r.tool.r = r
    r.dump("before")
    g.TrackChanges()
    defer g.StopTracking()

    /* process the work list */
    for seed(r.wl); ; {
        if err = ctx.Err(); err != nil {
            return err
        } else if n := r.wl.Next(); n == nil {
            break
        } else {
            r.processNode(n)
        }
    }

    /* check the result */
    if r.dump("after"); self.opts.Verify {
        return g.Verify()
    } else {
        return nil
    }
}

func (self *_Run) dump(stage string) {
    var buf bytes.Buffer
    var dir = self.opts.DumpDir

    /* dumping is optional */
    if dir == "" {
        return
    }

    /* render the graph */
    if err := ir.WriteDot(&buf, self.g); err != nil {
        self.log.Warn("cannot render graph", "error", err)
        return
    }

    /* write the file */
    name := strings.ReplaceAll(self.g.Name, string(filepath.Separator), "_")
    path := filepath.Join(dir, fmt.Sprintf("%s.%04d.%s.dot", name, dumpSeq.Add(1), stage))

    /* dump failures are not fatal */
    if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
        self.log.Warn("cannot dump graph", "path", path, "error", err)
    }
}

func (self *_Run) drain() {
    for _, e := range self.g.Changes() {
        if n := self.g.Node(e.Node); n != nil && n.IsAlive() {
            self.wl.AddAgain(n)

            /* rewrites of the users may look through this node */
            if e.Kind == ir.EventInputChanged {
                for _, u := range n.Usages() {
                    self.wl.AddAgain(u)
                }
            }
        }
    }
}

func (self *_Run) processNode(n *ir.Node) {
    ProcessedNodes.Add(1)
    defer self.drain()

    /* global value numbering */
    if self.tryGVN(n) {
        return
    }

    /* remember where the new nodes start */
    mark := self.g.Mark()

    /* dead code, then rewrites, then stamps */
    if !self.tryKillUnused(n) && !self.tryCanonicalize(n) && n.IsAlive() {
        improved := self.tryInferStamp(n)
        c, ok := n.Stamp().AsConstant()

        /* values known to be constant become constants, fixed nodes stay in place */
        if ok && !n.IsConstant() {
            if n.IsFloating() {
                self.performReplacement(n, nodes.ForConstant(self.g, c))
            } else if !n.HasNoUsages() {
                self.replaceUsages(n, nodes.ForConstant(self.g, c))
            }
        } else if improved {
            self.tryCanonicalize(n)
        }
    }

    /* new nodes might need canonicalization as well */
    for _, v := range self.g.NewNodes(mark) {
        self.wl.Add(v)
        self.wl.Inherit(v, n)
    }
}

func (self *_Run) tryGVN(n *ir.Node) bool {
    if _, ok := n.Op().(ir.ValueNumberable); !ok || n.IsLeaf() {
        return false
    }

    /* find a structurally identical node */
    m := self.g.FindDuplicate(n)
    if m == nil {
        return false
    }

    /* use the existing one instead */
    GVNHits.Add(1)
    n.ReplaceAtUsages(m)
    n.SafeDelete()
    self.log.Debug("global value numbering", "node", n, "existing", m)
    return true
}

func (self *_Run) kill(n *ir.Node) {
    c := self.g.NodeCount()
    ir.KillCFG(n)
    KilledNodes.Add(int64(c - self.g.NodeCount()))
}

func (self *_Run) tryKillUnused(n *ir.Node) bool {
    if !n.IsAlive() || !n.IsFloating() || !n.HasNoUsages() {
        return false
    }

    /* delete it along with its unused inputs */
    c := self.g.NodeCount()
    ir.KillWithUnusedFloatingInputs(n)
    KilledNodes.Add(int64(c - self.g.NodeCount()))
    self.log.Debug("killed unused node", "node", n)
    return true
}

func (self *_Run) tryCanonicalize(n *ir.Node) bool {
    if self.baseTryCanonicalize(n) {
        return true
    } else if self.opts.Custom != nil && n.IsAlive() && n.IsValue() {
        return self.performReplacement(n, self.opts.Custom.Canonicalize(n))
    } else {
        return false
    }
}

func (self *_Run) baseTryCanonicalize(n *ir.Node) bool {
    switch op := n.Op().(type) {
        case ir.Canonicalizable: {
            mark := self.g.Mark()
            CanonicalizationConsidered.Add(1)
            c := op.Canonical(self.tool, n)

            /* the answer must not depend on when we ask */
            if self.opts.Verify {
                self.checkIdempotent(op, n, c, mark)
            }

            /* apply the rewrite */
            return self.performReplacement(n, c)
        }

        /* simplifications perform their own surgery */
        case ir.Simplifiable: {
            SimplificationConsidered.Add(1)
            op.Simplify(self.tool, n)

            /* only deletion counts as a change */
            if n.IsDeleted() {
                self.log.Debug("simplified node", "node", n)
            }
        }
    }
    return n.IsDeleted()
}

func (self *_Run) checkIdempotent(op ir.Canonicalizable, n *ir.Node, c *ir.Node, mark int) {
    m := self.g.Mark()
    r := op.Canonical(self.tool, n)

    /* same answer */
    if r == c {
        return
    }

    /* fresh nodes are equivalent to each other, drop the second one */
    if fresh(c, mark) && fresh(r, m) {
        if r.HasNoUsages() && r.Predecessor() == nil {
            r.SafeDelete()
        }
        return
    }

    /* anything else is a bug in the canonical rule */
    panic(ir.Violation(n, "canonical rule is not idempotent: %s, then %s", nodeName(c), nodeName(r)))
}

func (self *_Run) tryInferStamp(n *ir.Node) bool {
    if _, ok := n.Op().(ir.StampInferrer); !ok {
        return false
    }

    /* recompute the stamp */
    InferStampCalled.Add(1)
    if !n.InferStamp() {
        return false
    }

    /* users might be able to do better now */
    StampChanged.Add(1)
    for _, u := range n.Usages() {
        self.wl.AddAgain(u)
    }

    /* the stamp has changed */
    self.log.Debug("stamp changed", "node", n, "stamp", n.Stamp())
    return true
}

func fresh(n *ir.Node, mark int) bool {
    return n != nil && int(n.ID()) >= mark
}

func nodeName(n *ir.Node) string {
    if n == nil {
        return "<nil>"
    } else {
        return n.String()
    }
}
