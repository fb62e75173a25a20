// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// ErrDataFormat marks a dataset that could not be decoded or that holds a record missing a
// required field. Check with errors.Is.
var ErrDataFormat = errors.Base("data format error")

// ❌ FormatError describes why a dataset was rejected.
type FormatError struct {
	// Index is the offending record position, or -1 when the whole document is bad
	Index  int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "data format error"
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s: record %d", msg, e.Index)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrDataFormat }

func documentError(reason string, cause error) errors.E {
	return errors.WithStack(&FormatError{Index: -1, Reason: reason, Err: cause})
}

func recordError(index int, reason string) errors.E {
	return errors.WithStack(&FormatError{Index: index, Reason: reason})
}
