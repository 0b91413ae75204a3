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


package cli

import (
    `bytes`
    `os`
    `path/filepath`
    `testing`

    `github.com/stretchr/testify/require`
)

const guarded = `
name: guarded
nodes:
  - { name: x, op: param, type: i32, lo: 0, hi: 10 }
  - { name: c, op: const, value: 100 }
  - { name: t, op: lt, args: [x, c] }
  - { op: guard, args: [t], reason: range }
  - { name: o, op: param, type: object, nonnull: true }
  - { name: v, op: load, args: [o], field: f }
  - { name: s, op: add, args: [x, v] }
  - { op: return, args: [s] }
`

func writeGraph(t *testing.T, src string) string {
    fn := filepath.Join(t.TempDir(), "graph.yaml")
    require.NoError(t, os.WriteFile(fn, []byte(src), 0644))
    return fn
}

func execute(args ...string) (string, string, error) {
    var out bytes.Buffer
    var err bytes.Buffer
    cmd := NewRootCommand()
    cmd.SetOut(&out)
    cmd.SetErr(&err)
    cmd.SetArgs(args)
    ret := cmd.Execute()
    return out.String(), err.String(), ret
}

func TestRootCommand(t *testing.T) {
    cmd := NewRootCommand()
    require.Equal(t, "gir", cmd.Use)
    for _, name := range []string { "canon", "dot", "verify" } {
        sub, _, err := cmd.Find([]string { name })
        require.NoError(t, err, name)
        require.Equal(t, name, sub.Name())
    }
}

func TestRootCommand_Flags(t *testing.T) {
    cmd := NewRootCommand()
    fl := cmd.PersistentFlags().Lookup("log-level")
    require.NotNil(t, fl)
    require.Equal(t, "warn", fl.DefValue)
    require.NotNil(t, cmd.PersistentFlags().Lookup("verify"))
    sub, _, err := cmd.Find([]string { "canon" })
    require.NoError(t, err)
    for _, name := range []string { "max-iterations", "no-canonicalize-reads", "dump-dir", "stats" } {
        require.NotNil(t, sub.Flags().Lookup(name), name)
    }
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
    _, _, err := execute("--log-level", "loud", "verify", writeGraph(t, guarded))
    require.Error(t, err)
    require.Contains(t, err.Error(), `invalid log level "loud"`)
}

func TestCanonCommand(t *testing.T) {
    dir := t.TempDir()
    out, msg, err := execute("--verify", "canon", "--stats", "--dump-dir", dir, writeGraph(t, guarded))
    require.NoError(t, err)
    require.Contains(t, out, `digraph "guarded"`)
    require.NotContains(t, out, "range")
    require.Contains(t, msg, "guarded: 9 -> ")
    require.Contains(t, msg, "processed")
    fns, err := filepath.Glob(filepath.Join(dir, "*.dot"))
    require.NoError(t, err)
    require.Len(t, fns, 2)
}

func TestCanonCommand_Errors(t *testing.T) {
    fn := writeGraph(t, guarded)
    _, _, err := execute("canon", "--max-iterations", "-1", fn)
    require.Error(t, err)
    _, _, err = execute("canon")
    require.Error(t, err)
    _, _, err = execute("canon", filepath.Join(t.TempDir(), "missing.yaml"))
    require.Error(t, err)
}

func TestDotCommand(t *testing.T) {
    out, _, err := execute("--verify", "dot", writeGraph(t, guarded))
    require.NoError(t, err)
    require.Contains(t, out, `digraph "guarded"`)
    require.Contains(t, out, "range")
}

func TestVerifyCommand(t *testing.T) {
    out, _, err := execute("verify", writeGraph(t, guarded))
    require.NoError(t, err)
    require.Equal(t, "guarded: ok (9 nodes)\n", out)
    _, _, err = execute("verify", writeGraph(t, "nodes: [{ op: frob }]"))
    require.Error(t, err)
}
