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

package debug

import (
	"github.com/cloudwego/gir/internal/canon"
)

// A Stats records statistics about the canonicalizer.
type Stats struct {
	Canonicalizer CanonStats
}

// A CanonStats records the cumulative counters of every canonicalization
// pass run by this process.
type CanonStats struct {
	Processed                  int
	Canonicalized              int
	CanonicalizationConsidered int
	SimplificationConsidered   int
	InferStampCalled           int
	StampChanged               int
	GVNHits                    int
	Killed                     int
}

// GetStats returns statistics of the canonicalizer.
func GetStats() Stats {
	return Stats{
		Canonicalizer: CanonStats{
			Processed:                  int(canon.ProcessedNodes.Load()),
			Canonicalized:              int(canon.CanonicalizedNodes.Load()),
			CanonicalizationConsidered: int(canon.CanonicalizationConsidered.Load()),
			SimplificationConsidered:   int(canon.SimplificationConsidered.Load()),
			InferStampCalled:           int(canon.InferStampCalled.Load()),
			StampChanged:               int(canon.StampChanged.Load()),
			GVNHits:                    int(canon.GVNHits.Load()),
			Killed:                     int(canon.KilledNodes.Load()),
		},
	}
}
