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


package loader

import (
    `os`
    `path/filepath`
    `strings`
    `testing`

    `github.com/cloudwego/gir/ir/nodes`
    `github.com/cloudwego/gir/ir/stamp`
    `github.com/davecgh/go-spew/spew`
    `github.com/stretchr/testify/require`
)

const guarded = `
name: guarded
nodes:
  - { name: x, op: param, type: i32, lo: 0, hi: 10 }
  - { name: c, op: const, value: 100 }
  - { name: t, op: lt, args: [x, c] }
  - { name: g, op: guard, args: [t], reason: range }
  - { name: o, op: param, type: object, nonnull: true }
  - { name: v, op: load, args: [o], field: f }
  - { name: s, op: add, args: [x, v] }
  - { op: return, args: [s] }
`

func TestLoader_Parse(t *testing.T) {
    g, err := Parse(strings.NewReader(guarded))
    require.NoError(t, err)
    require.NoError(t, g.Verify())
    require.Equal(t, "guarded", g.Name)
    require.Equal(t, 9, g.NodeCount())
    require.Equal(t, stamp.IntRange(32, 0, 10), g.Names["x"].Stamp(), spew.Sdump(g.Names["x"]))
    require.Equal(t, nodes.FixedGuard { Reason: "range" }, g.Names["g"].Op())
    require.Equal(t, nodes.Compare { Op: nodes.OpLt }, g.Names["t"].Op())

    /* control flows start -> guard -> load -> return */
    require.Equal(t, g.Names["g"], g.Start().Next())
    require.Equal(t, g.Names["v"], g.Names["g"].Next())
    require.True(t, g.Names["v"].Next().IsControlSink())
}

func TestLoader_Load(t *testing.T) {
    fn := filepath.Join(t.TempDir(), "guarded.yaml")
    require.NoError(t, os.WriteFile(fn, []byte(guarded), 0644))
    g, err := Load(fn)
    require.NoError(t, err)
    require.Len(t, g.Names, 7)
    _, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
    require.Error(t, err)
}

func TestLoader_Types(t *testing.T) {
    g, err := Parse(strings.NewReader(`
nodes:
  - { name: a, op: param, type: i8 }
  - { name: b, op: param, type: i64, lo: -5 }
  - { name: c, op: param, type: bool }
  - { name: d, op: param, type: object }
  - { name: e, op: const, type: i16, value: 70000 }
  - { name: f, op: null }
  - { name: p, op: pi, args: [b, "-"], type: i64, lo: 0, hi: 3 }
  - { op: return, args: [a, b, c, d, e, f, p] }
`))
    require.NoError(t, err)
    require.Equal(t, stamp.Int(8), g.Names["a"].Stamp())
    require.Equal(t, stamp.IntRange(64, -5, stamp.MaxValue(64)), g.Names["b"].Stamp())
    require.Equal(t, stamp.Bool(), g.Names["c"].Stamp())
    require.Equal(t, stamp.Object(), g.Names["d"].Stamp())
    require.Equal(t, nodes.ConstInt { Bits: 16, V: stamp.Narrow(70000, 16) }, g.Names["e"].Op())
    require.True(t, g.Names["f"].IsConstant())
    require.Nil(t, g.Names["p"].Input(1))
}

func TestLoader_Errors(t *testing.T) {
    cases := []struct {
        doc string
        err string
    } {
        { `nodes: [{ op: frob }]`                                                        , `unknown op "frob"` },
        { `nodes: [{ name: a }]`                                                         , `unknown op ""` },
        { `nodes: [{ op: return, args: [x] }]`                                           , `undefined argument "x"` },
        { `nodes: [{ name: a, op: null }, { name: a, op: null }]`                        , `duplicated name "a"` },
        { `nodes: [{ op: null }, { op: add, args: [] }]`                                  , `expects 2 arguments, got 0` },
        { `nodes: [{ op: return }, { op: deopt }]`                                        , `control flow has already ended` },
        { `nodes: [{ op: null }]`                                                         , `does not end with a return or a deopt` },
        { `nodes: [{ op: param, type: f32 }]`                                             , `invalid integer type "f32"` },
        { `nodes: [{ op: param, type: i8, lo: 3, hi: 1 }]`                                , `invalid range [3, 1] for i8` },
        { `nodes: [{ op: param, type: i8, hi: 300 }]`                                     , `invalid range` },
        { `nodes: [{ op: pi, args: ["-"] }]`                                              , `type is required` },
        { `nodes: [{ op: null, colour: red }]`                                            , `invalid YAML` },
        { "nodes:\n  - [1, 2\n"                                                           , `invalid YAML` },
        { `nodes: [{ name: a, op: param, type: i8 }, { name: b, op: param }, { op: add, args: [a, b] }]`, `invalid graph` },
    }
    for _, tc := range cases {
        _, err := Parse(strings.NewReader(tc.doc))
        require.Error(t, err, tc.doc)
        require.Contains(t, err.Error(), tc.err, tc.doc)
    }
}

func TestLoader_NullOp(t *testing.T) {
    for _, src := range []string {
        `nodes: [{ name: a, op: null }, { op: return, args: [a] }]`,
        `nodes: [{ name: a, op: "null" }, { op: return, args: [a] }]`,
        "nodes:\n  - name: a\n    op: null\n  - op: return\n    args: [a]\n",
    } {
        g, err := Parse(strings.NewReader(src))
        require.NoError(t, err, src)
        require.Equal(t, nodes.ConstNull{}, g.Names["a"].Op(), src)
    }
}
