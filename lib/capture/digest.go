// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 keyed digest of a message's CBOR bytes.
// Logs carry it so that a rejected message can be matched to its
// capture without logging the payload.
type Digest [32]byte

// String returns the lowercase hex form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 8 bytes in hex, for human-facing output.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:8])
}

// messageDomainKey separates message digests from any other BLAKE3
// use of the same bytes. Changing it changes every digest.
var messageDomainKey = [32]byte{
	'c', 'b', 'o', 'r', 'c', 'h', 'e', 'c', 'k', '.', 'm', 'e', 's', 's', 'a', 'g',
	'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// MessageDigest computes the digest of data, which should be the
// payload after [Open].
func MessageDigest(data []byte) Digest {
	// NewKeyed only fails for keys that are not 32 bytes.
	hasher, err := blake3.NewKeyed(messageDomainKey[:])
	if err != nil {
		panic("capture: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}
