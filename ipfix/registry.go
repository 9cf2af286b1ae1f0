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
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash"
	log "github.com/sirupsen/logrus"
)

// TemplateID is an internal template id. Its low 3 bits encode the
// decoder path and its upper bits encode variant flags, so the id alone
// can drive dispatch once a registry lookup resolves it back to a Layout.
type TemplateID uint16

// Decoder-path tags packed into the low bits of a TemplateID.
const (
	pathIgnore TemplateID = iota
	pathGeneric
	pathYAF
	pathNF9
	pathOptYAFStats
	pathOptTombstone
	pathOptNF9Sampling
	pathOptOther
)

const pathBits = 3

// Inner sub-template ids live in the pathIgnore family (their records
// never arrive as top-level data records, so they carry no decoder
// path), distinguished by their upper bits.
const (
	idInnerTCPFlags        TemplateID = pathIgnore | 1<<pathBits
	idInnerTombstoneAccess TemplateID = pathIgnore | 2<<pathBits
)

// ID returns the internal template id the lower transcoder should map an
// exporter's sub-template id to.
func (k InnerKind) ID() TemplateID {
	if k == InnerTombstoneAccess {
		return idInnerTombstoneAccess
	}
	return idInnerTCPFlags
}

// ID returns the internal template id for a YAF variant.
func (v YAFVariant) ID() TemplateID {
	var bits TemplateID
	bits |= TemplateID(v.Family) << 0
	if v.Bi {
		bits |= 1 << 2
	}
	if v.Volume == VolumeTotal {
		bits |= 1 << 3
	}
	if v.STML {
		bits |= 1 << 4
	}
	return pathYAF | (bits << pathBits)
}

// ID returns the internal template id for an NF9 variant.
func (v NF9Variant) ID() TemplateID {
	var bits TemplateID
	if v.Family == IPFamilyV6 {
		bits |= 1 << 0
	}
	if v.SysUp {
		bits |= 1 << 1
	}
	bits |= TemplateID(v.Volume) << 2
	return pathNF9 | (bits << pathBits)
}

// Layout is the IE list of a registered internal template: the fixed
// shape the lower transcoder is expected to populate for a given decoder
// path/variant.
type Layout struct {
	ID     TemplateID
	Name   string
	IEs    []IESpec
	hash   uint64
}

// Registry is the fixed set of internal templates registered once at
// session init. It is read-only after Build
// returns -- no lock is needed for lookups.
type Registry struct {
	byID   map[TemplateID]Layout
	byHash map[uint64]TemplateID
}

// BuildRegistry registers the fixed set of internal templates: the
// generic superset layout, all 17 YAF variants, all 12 NF9 variants, the
// options layouts, and the single-field ignore layout. Registration is
// idempotent (re-registering an identical shape returns the same id) and
// a collision between two different shapes claiming the same id is fatal,
// matching the "failure to register is fatal at init" invariant.
func BuildRegistry() *Registry {
	r := &Registry{
		byID:   make(map[TemplateID]Layout),
		byHash: make(map[uint64]TemplateID),
	}

	r.register(Layout{ID: pathGeneric, Name: "fixrec", IEs: genericSuperset})
	r.register(Layout{ID: pathIgnore, Name: "ignore", IEs: []IESpec{std(ieExportingProcessID)}})
	r.register(Layout{ID: pathOptYAFStats, Name: "yaf-stats", IEs: yafStatsLayout})
	r.register(Layout{ID: pathOptTombstone, Name: "tombstone", IEs: tombstoneLayout})
	r.register(Layout{ID: pathOptNF9Sampling, Name: "nf9-sampling", IEs: nf9SamplingLayout})
	r.register(Layout{ID: idInnerTCPFlags, Name: "tcp-flags-stml", IEs: tcpFlagsInnerLayout})
	r.register(Layout{ID: idInnerTombstoneAccess, Name: "tombstone-access", IEs: tombstoneAccessLayout})

	for _, v := range allYAFVariants() {
		r.register(Layout{ID: v.ID(), Name: fmt.Sprintf("yaf-%+v", v), IEs: yafLayout(v)})
	}
	for _, v := range allNF9Variants() {
		r.register(Layout{ID: v.ID(), Name: fmt.Sprintf("nf9-%+v", v), IEs: nf9Layout(v)})
	}

	log.Infof("internal template registry built with %d templates", len(r.byID))
	return r
}

// register installs a layout, computing its shape hash for idempotent
// re-registration. It panics on an id collision between differing
// shapes -- acceptable here because this only runs once at session init,
// where a registration failure must be fatal.
func (r *Registry) register(l Layout) {
	l.hash = shapeHash(l.IEs)
	if existing, ok := r.byID[l.ID]; ok {
		if existing.hash != l.hash {
			log.Fatalf("internal template registry collision: id %d already registered as %q, cannot also register %q", l.ID, existing.Name, l.Name)
		}
		return
	}
	r.byID[l.ID] = l
	r.byHash[l.hash] = l.ID
}

// Lookup resolves an internal template id back to its Layout.
func (r *Registry) Lookup(id TemplateID) (Layout, bool) {
	l, ok := r.byID[id]
	return l, ok
}

// Len returns the number of registered internal templates.
func (r *Registry) Len() int { return len(r.byID) }

// All returns every registered layout, sorted by id is not guaranteed;
// callers that need stable order (e.g. the ipfixctl templates command)
// should sort the result themselves.
func (r *Registry) All() []Layout {
	out := make([]Layout, 0, len(r.byID))
	for _, l := range r.byID {
		out = append(out, l)
	}
	return out
}

// shapeHash hashes an ordered IE shape with xxhash so two templates
// carrying the same IEs in the same order collapse to one registry entry
// without a deep slice-equality compare on every registration.
func shapeHash(ies []IESpec) uint64 {
	var buf [12]byte
	h := xxhash.New()
	for _, ie := range ies {
		binary.BigEndian.PutUint32(buf[0:4], uint32(ie.Enterprise))
		binary.BigEndian.PutUint16(buf[4:6], ie.ID)
		_, _ = h.Write(buf[0:6])
	}
	return h.Sum64()
}

func allYAFVariants() []YAFVariant {
	var out []YAFVariant
	for _, family := range []IPFamily{IPFamilyV4, IPFamilyV6} {
		for _, bi := range []bool{false, true} {
			for _, volume := range []VolumeStyle{VolumeDelta, VolumeTotal} {
				for _, stml := range []bool{false, true} {
					out = append(out, YAFVariant{Family: family, Bi: bi, Volume: volume, STML: stml})
				}
			}
		}
	}
	// The registry's published "both address families" shape is a single
	// curated variant rather than the full 2x2x2 cross product: a
	// both-v4-and-v6 record is rare enough in practice that YAF only ever
	// emits it as a biflow, delta-counted, flat-TCP-flags template.
	// This keeps the registry at 17 variants (16 single-family + 1
	// dual-family) instead of 24.
	out = append(out, YAFVariant{Family: IPFamilyBoth, Bi: true, Volume: VolumeDelta, STML: false})
	return out
}

func allNF9Variants() []NF9Variant {
	var out []NF9Variant
	for _, family := range []IPFamily{IPFamilyV4, IPFamilyV6} {
		for _, sysup := range []bool{false, true} {
			for _, volume := range []VolumeStyle{VolumeDelta, VolumeTotal, VolumeInitiator} {
				out = append(out, NF9Variant{Family: family, SysUp: sysup, Volume: volume})
			}
		}
	}
	return out
}
