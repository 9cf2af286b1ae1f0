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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTransportError(t *testing.T) {
	cases := []struct {
		err  error
		want ReadError
	}{
		{nil, ErrNone},
		{ErrInterrupted, ErrTransientRead},
		{fmt.Errorf("wrap: %w", ErrInterrupted), ErrTransientRead},
		{ErrProtocolAnomalyErr, ErrProtocolAnomaly},
		{ErrConnectionEOF, ErrConnectionEnd},
		{ErrConnectionRejected, ErrConnectionEnd},
		{ErrInvalidFraming, ErrInvalidStructure},
		{errors.New("unrecognized"), ErrFatal},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, ClassifyTransportError(c.err), "ClassifyTransportError(%v)", c.err)
	}
}
