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
    `html`
    `io`
    `strings`

    `github.com/oleiade/lane`
)

func dotlabel(n *Node) string {
    var buf []string
    var title = html.EscapeString(n.String())

    /* value nodes show their stamp */
    if n.IsValue() {
        buf = append(buf, fmt.Sprintf(`<tr><td align="left">%s</td></tr>`, title))
        buf = append(buf, `<hr/>`)
        buf = append(buf, fmt.Sprintf(`<tr><td align="left">%s</td></tr>`, html.EscapeString(n.stamp.String())))
    } else {
        buf = append(buf, fmt.Sprintf(`<tr><td align="left"><b>%s</b></td></tr>`, title))
    }

    /* build the table */
    return fmt.Sprintf(
        `<table border="1" cellborder="0" cellspacing="0">%s</table>`,
        strings.Join(buf, ""),
    )
}

// WriteDot writes the graph in graphviz format. Fixed nodes are emitted in
// control flow order starting from the start node, followed by every
// floating node. Control edges are solid, data edges are dashed and point
// from the input to its user.
func WriteDot(w io.Writer, g *Graph) error {
    q := lane.NewQueue()
    n := make(map[ID]bool)
    buf := []string {
        fmt.Sprintf("digraph %q {", g.Name),
        `    graph [ fontname = "Fira Code" ]`,
        `    node [ fontname = "Fira Code" fontsize = "14" shape = "plaintext" ]`,
        `    edge [ fontname = "Fira Code" ]`,
    }

    /* control flow first */
    if s := g.Start(); s != nil && s.IsAlive() {
        q.Enqueue(s)
    }

    /* walk the control flow */
    for !q.Empty() {
        p := q.Dequeue().(*Node)
        n[p.id] = true
        buf = append(buf, fmt.Sprintf(`    n_%d [ label = < %s > ]`, p.id, dotlabel(p)))

        /* successor edges */
        for i, s := range p.succ {
            if s != Nil {
                if !n[s] {
                    q.Enqueue(g.nodes[s])
                }
                if len(p.succ) == 1 {
                    buf = append(buf, fmt.Sprintf(`    n_%d -> n_%d [ color = "red" ]`, p.id, s))
                } else {
                    buf = append(buf, fmt.Sprintf(`    n_%d -> n_%d [ color = "red" label = "%d" ]`, p.id, s, i))
                }
            }
        }
    }

    /* everything else, including unlinked fixed nodes */
    for _, v := range g.Nodes() {
        if !n[v.id] {
            buf = append(buf, fmt.Sprintf(`    n_%d [ label = < %s > ]`, v.id, dotlabel(v)))
        }
    }

    /* data edges */
    for _, v := range g.Nodes() {
        for i, in := range v.ins {
            if in != Nil {
                buf = append(buf, fmt.Sprintf(`    n_%d -> n_%d [ style = "dashed" color = "blue" label = "%d" ]`, in, v.id, i))
            }
        }
    }

    /* write the graph */
    buf = append(buf, "}", "")
    _, err := io.WriteString(w, strings.Join(buf, "\n"))
    return err
}
