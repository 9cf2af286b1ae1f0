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

package decode

// firewallOutcome is what the shared firewall-event policy decided for a
// record.
type firewallOutcome struct {
	drop bool
	memo uint32
}

// applyFirewallEvent implements the firewall-event policy shared by the
// generic and NF9 decoders.
// fwdPkts/fwdBytes/revPkts/revBytes are pointers so the caller's
// already-gauntleted volumes can be adjusted in place.
func applyFirewallEvent(event uint8, extEvent uint32, fwdPkts, fwdBytes, revPkts, revBytes *uint64) firewallOutcome {
	switch event {
	case FirewallEventDeleted:
		if *fwdBytes == 0 && *fwdPkts == 0 {
			*fwdBytes, *fwdPkts = 1, 1
		} else if *fwdBytes == 0 && *fwdPkts > 0 {
			*fwdBytes = *fwdPkts
		}
		if *revBytes == 0 && *revPkts == 0 {
			*revBytes, *revPkts = 1, 1
		} else if *revBytes == 0 && *revPkts > 0 {
			*revBytes = *revPkts
		}
		return firewallOutcome{}

	case FirewallEventDenied:
		memo := event32(event)
		if extEvent >= DeniedEventExtRangeLow && extEvent <= DeniedEventExtRangeHigh {
			memo = extEvent
		}
		if *fwdPkts > 0 {
			*fwdBytes = *fwdPkts
		} else {
			*fwdPkts, *fwdBytes = 1, 1
		}
		return firewallOutcome{memo: memo}

	default: // CREATED, UPDATED, ALERT, unknown
		return firewallOutcome{drop: true}
	}
}

func event32(event uint8) uint32 { return uint32(event) }
