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

package session

// TransportFactory builds the Transport and Queue a probe's Reader runs
// against. The lower transcoder that actually frames IPFIX/NetFlow-v9
// messages off the wire is an external collaborator; this package only
// describes the interface it consumes from one and keeps no factory
// registry. The cmd/ipfixd entrypoint holds its factory in a package-level
// variable whose default returns an error for every probe, so the daemon
// fails fast rather than silently running with no listeners.
type TransportFactory func(cfg Config) (Transport, Queue, error)
