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
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdentical(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("salary payment", "salary payment"))
}

func TestSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "salary"))
	assert.Equal(t, 0.0, Similarity("salary", ""))
	assert.Equal(t, 0.0, Similarity("", ""))
}

func TestSimilarityKnownDistance(t *testing.T) {
	// "kitten" -> "sitting" is the classic distance of 3 over length 7.
	assert.InDelta(t, (7.0-3.0)/7.0, Similarity("kitten", "sitting"), 1e-9)
}

func TestSimilarityCompletelyDissimilar(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
}

func TestSimilaritySymmetric(t *testing.T) {
	gofakeit.Seed(42)
	for i := 0; i < 50; i++ {
		a := gofakeit.Sentence(3)
		b := gofakeit.Sentence(3)
		assert.Equal(t, Similarity(a, b), Similarity(b, a))
	}
}

func TestSimilarityReflexiveAndBounded(t *testing.T) {
	gofakeit.Seed(7)
	for i := 0; i < 50; i++ {
		a := gofakeit.BuzzWord()
		b := gofakeit.Company()
		assert.Equal(t, 1.0, Similarity(a, a))
		sim := Similarity(a, b)
		assert.GreaterOrEqual(t, sim, 0.0)
		assert.LessOrEqual(t, sim, 1.0)
	}
}

func TestSimilarityMultibyte(t *testing.T) {
	// Distance is computed over runes, not bytes.
	assert.Equal(t, 1.0, Similarity("café", "café"))
	assert.InDelta(t, 3.0/4.0, Similarity("café", "cafe"), 1e-9)
}
