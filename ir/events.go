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
)

type EventKind uint8

const (
    // EventInputChanged is reported for a node whose inputs were changed.
    EventInputChanged EventKind = iota

    // EventUsagesDroppedZero is reported for a node whose last usage went away.
    EventUsagesDroppedZero
)

// Event is a graph change recorded while tracking is on.
type Event struct {
    Kind EventKind
    Node ID
}

func (self Event) String() string {
    switch self.Kind {
        case EventInputChanged      : return fmt.Sprintf("input-changed(%d)", self.Node)
        case EventUsagesDroppedZero : return fmt.Sprintf("usages-dropped-zero(%d)", self.Node)
        default                     : return fmt.Sprintf("event(%d, %d)", self.Kind, self.Node)
    }
}

// TrackChanges starts recording change events.
func (self *Graph) TrackChanges() {
    self.track = true
}

// StopTracking stops recording and discards pending events.
func (self *Graph) StopTracking() {
    self.track = false
    self.events = nil
}

// Changes drains the recorded events.
func (self *Graph) Changes() []Event {
    ret := self.events
    self.events = nil
    return ret
}

func (self *Graph) notify(kind EventKind, n *Node) {
    if self.track {
        self.events = append(self.events, Event { Kind: kind, Node: n.id })
    }
}
