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

package stamp

import (
    `strings`
)

// ObjectStamp describes object references. Type is an opaque type name
// supplied by the embedding runtime, "" meaning any type. A stamp that is
// both NonNull and AlwaysNull is empty.
type ObjectStamp struct {
    Type       string
    Exact      bool
    NonNull    bool
    AlwaysNull bool
}

// Object returns the unrestricted object stamp.
func Object() ObjectStamp {
    return ObjectStamp{}
}

// ObjectNonNull returns the stamp of non-null references of type t.
func ObjectNonNull(t string, exact bool) ObjectStamp {
    return ObjectStamp { Type: t, Exact: exact, NonNull: true }
}

// ObjectNull returns the stamp of the null reference.
func ObjectNull() ObjectStamp {
    return ObjectStamp { AlwaysNull: true }
}

// ObjectEmpty returns the object stamp that contains no values.
func ObjectEmpty() ObjectStamp {
    return ObjectStamp { NonNull: true, AlwaysNull: true }
}

func (self ObjectStamp) String() string {
    var sb []string
    if self.IsEmpty() {
        return "a <empty>"
    } else if self.AlwaysNull {
        return "a null"
    }

    /* flags first, then the type */
    if sb = append(sb, "a"); self.NonNull {
        sb = append(sb, "!")
    }
    if self.Type != "" {
        if self.Exact {
            sb = append(sb, " #" + self.Type)
        } else {
            sb = append(sb, " " + self.Type)
        }
    }
    return strings.Join(sb, "")
}

func (self ObjectStamp) other(other Stamp) ObjectStamp {
    if v, ok := other.(ObjectStamp); !ok {
        panic(incompatible(self, other))
    } else {
        return v
    }
}

func (self ObjectStamp) Join(other Stamp) Stamp {
    v := self.other(other)
    r := ObjectStamp {
        NonNull    : self.NonNull || v.NonNull,
        AlwaysNull : self.AlwaysNull || v.AlwaysNull,
    }

    /* join the type information */
    switch {
        case self.Type == "" : r.Type, r.Exact = v.Type, v.Exact
        case v.Type == ""    : r.Type, r.Exact = self.Type, self.Exact
        case v.Type == self.Type : r.Type, r.Exact = self.Type, self.Exact || v.Exact
        default              : return ObjectEmpty()
    }

    /* normalize empty stamps */
    if r.IsEmpty() {
        return ObjectEmpty()
    } else if r.AlwaysNull {
        return ObjectNull()
    } else {
        return r
    }
}

func (self ObjectStamp) Meet(other Stamp) Stamp {
    v := self.other(other)
    if self.IsEmpty() {
        return v
    } else if v.IsEmpty() {
        return self
    } else if self.AlwaysNull {
        return ObjectStamp { Type: v.Type, Exact: v.Exact, AlwaysNull: v.AlwaysNull }
    } else if v.AlwaysNull {
        return ObjectStamp { Type: self.Type, Exact: self.Exact }
    }

    /* both are possibly non-null references */
    r := ObjectStamp { NonNull: self.NonNull && v.NonNull }
    if self.Type == v.Type {
        r.Type, r.Exact = self.Type, self.Exact && v.Exact
    }
    return r
}

func (self ObjectStamp) Equal(other Stamp) bool {
    if v, ok := other.(ObjectStamp); !ok {
        return false
    } else {
        return self == v
    }
}

func (self ObjectStamp) IsEmpty() bool {
    return self.NonNull && self.AlwaysNull
}

func (self ObjectStamp) AsConstant() (Constant, bool) {
    if self.AlwaysNull && !self.NonNull {
        return NullConstant{}, true
    } else {
        return nil, false
    }
}

func (self ObjectStamp) Unrestricted() Stamp {
    return Object()
}
