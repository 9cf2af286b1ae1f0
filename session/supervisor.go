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

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Supervisor runs one Reader goroutine per exporter, canceling every other
// reader's context as soon as any one of them returns a fatal error.
type Supervisor struct {
	readers []*Reader
}

// NewSupervisor returns a Supervisor for the given readers.
func NewSupervisor(readers...*Reader) *Supervisor {
	return &Supervisor{readers: readers}
}

// Run blocks until every reader exits, returning the first non-nil error
// any of them produced. A fatal error in one reader cancels the shared
// context, so the rest wind down rather than being left running
// orphaned.
func (s *Supervisor) Run(ctx context.Context) error {
	eg, gctx := errgroup.WithContext(ctx)
	for _, r := range s.readers {
		r := r
		eg.Go(func() error {
			err := r.Run(gctx)
			if err != nil {
				log.Errorf("probe %s: reader exited: %v", r.Source.Config.Name, err)
			}
			return err
		})
	}
	return eg.Wait()
}
