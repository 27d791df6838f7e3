/*
Copyright 2024 Reconcile Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package reconcile

import (
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Similarity returns the normalized edit-distance similarity of two strings
// in [0,1]: 1 means identical, 0 means completely dissimilar or either
// string empty. Insertion, deletion and substitution each cost 1; the
// distance is normalized by the length of the longer string. Case
// sensitivity is the caller's responsibility.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return (float64(maxLen) - float64(distance)) / float64(maxLen)
}
