// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// MAGIC identifies the encoded form of a compiled program.
const MAGIC = "regc"

// VERSION identifies the version of the encoded form.  This should be bumped
// whenever the instruction set or function layout changes.
const VERSION = 1

// image is the encoded form of a program.
type image struct {
	Magic   string   `cbor:"1,keyasint"`
	Version uint     `cbor:"2,keyasint"`
	Program *Program `cbor:"3,keyasint"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoding mode: %v", err))
	}
	//
	encMode = em
}

// Encode a program into its binary image.  The encoding is deterministic, so
// compiling the same source always produces the same bytes.
func Encode(program *Program) ([]byte, error) {
	return encMode.Marshal(image{MAGIC, VERSION, program})
}

// Decode a program from its binary image.  The decoded program is validated
// before being returned, since an image may have been produced elsewhere.
func Decode(data []byte) (*Program, error) {
	var img image
	//
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("malformed program image: %w", err)
	} else if img.Magic != MAGIC {
		return nil, fmt.Errorf("not a program image (magic \"%s\")", img.Magic)
	} else if img.Version != VERSION {
		return nil, fmt.Errorf("unsupported program image version %d", img.Version)
	} else if img.Program == nil {
		return nil, fmt.Errorf("program image has no program")
	}
	//
	if errs := Validate(img.Program); len(errs) > 0 {
		return nil, fmt.Errorf("invalid program image: %w", errs[0])
	}
	//
	return img.Program, nil
}
