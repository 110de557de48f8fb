// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package secretsharing

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// sharePrefix marks the textual share wire format.
const sharePrefix = "s:"

// Share is one fragment of a split secret. Index is the polynomial
// evaluation point that produced the payload; index 0 is reserved for the
// constant term and never assigned to a share.
type Share struct {
	Index   byte
	Payload []byte
}

// Encode serializes the share as "s:<index>:<base64url payload>" with
// standard padding. The base64url alphabet contains no colon, so the first
// two colons always delimit the three fields.
func (s Share) Encode() string {
	return fmt.Sprintf("%s%d:%s", sharePrefix, s.Index, base64.URLEncoding.EncodeToString(s.Payload))
}

// DecodeShare parses a share string produced by Encode. It rejects strings
// without the "s:" prefix, with a non-numeric or out-of-range index, or
// with a payload that is not valid base64url.
func DecodeShare(encoded string) (Share, error) {
	if !strings.HasPrefix(encoded, sharePrefix) {
		return Share{}, fmt.Errorf("%w: missing %q prefix", ErrInvalidShare, sharePrefix)
	}
	parts := strings.SplitN(encoded, ":", 3)
	if len(parts) != 3 {
		return Share{}, fmt.Errorf("%w: expected s:<index>:<payload>", ErrInvalidShare)
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return Share{}, fmt.Errorf("%w: non-numeric index %q", ErrInvalidShare, parts[1])
	}
	if index < 1 || index > 255 {
		return Share{}, fmt.Errorf("%w: index %d outside [1,255]", ErrInvalidShare, index)
	}
	payload, err := base64.URLEncoding.DecodeString(parts[2])
	if err != nil {
		return Share{}, fmt.Errorf("%w: malformed payload encoding", ErrInvalidShare)
	}
	return Share{Index: byte(index), Payload: payload}, nil
}
