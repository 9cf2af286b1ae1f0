/*
Copyright (c) Facebook, Inc. and its affiliates.

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

package ipfix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRegistryCounts(t *testing.T) {
	r := BuildRegistry()

	wantYAF := len(allYAFVariants())
	require.Equal(t, 17, wantYAF, "allYAFVariants() variant count")
	wantNF9 := len(allNF9Variants())
	require.Equal(t, 12, wantNF9, "allNF9Variants() variant count")

	// generic + ignore + 3 options kinds + 2 inner shapes + 17 YAF + 12 NF9
	want := 1 + 1 + 3 + 2 + wantYAF + wantNF9
	assert.Equal(t, want, r.Len())
}

func TestRegistryNoIDCollisions(t *testing.T) {
	r := BuildRegistry()
	seen := make(map[TemplateID]string)
	for _, l := range r.All() {
		other, ok := seen[l.ID]
		require.Falsef(t, ok, "id %d registered twice: %q and %q", l.ID, other, l.Name)
		seen[l.ID] = l.Name
	}
}

func TestRegistryLookupRoundTrip(t *testing.T) {
	r := BuildRegistry()
	v := YAFVariant{Family: IPFamilyV4, Bi: true, Volume: VolumeTotal, STML: true}
	l, ok := r.Lookup(v.ID())
	require.Truef(t, ok, "Lookup(%d) not found for variant %+v", v.ID(), v)
	assert.NotEmpty(t, l.IEs, "layout for %+v has no IEs", v)
}

func TestRegisterIdempotent(t *testing.T) {
	r := &Registry{byID: make(map[TemplateID]Layout), byHash: make(map[uint64]TemplateID)}
	l := Layout{ID: pathGeneric, Name: "fixrec", IEs: genericSuperset}
	r.register(l)
	r.register(l) // re-registering the identical shape must not panic
	assert.Equal(t, 1, r.Len(), "idempotent re-register")
}

func TestYAFVariantIDsAreDistinct(t *testing.T) {
	seen := make(map[TemplateID]YAFVariant)
	for _, v := range allYAFVariants() {
		id := v.ID()
		other, ok := seen[id]
		require.Falsef(t, ok, "variants %+v and %+v both map to id %d", other, v, id)
		seen[id] = v
	}
}

func TestNF9VariantIDsAreDistinct(t *testing.T) {
	seen := make(map[TemplateID]NF9Variant)
	for _, v := range allNF9Variants() {
		id := v.ID()
		other, ok := seen[id]
		require.Falsef(t, ok, "variants %+v and %+v both map to id %d", other, v, id)
		seen[id] = v
	}
}
