// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/cborcheck/lib/capture"
	"github.com/bureau-foundation/cborcheck/lib/tree"
)

// Consume decodes data, hands the tree to reader, and then requires
// that reader consumed every node. Any failure along the way rejects
// the message as a whole: callers must not act on anything reader
// extracted unless Consume returns nil.
//
// Unread-node rejections are logged at Warn on logger when it is
// non-nil, along with the message digest. The returned error for
// those matches [tree.ErrIncompleteConsumption] and unwraps to
// *[tree.UnreadError].
func Consume(data []byte, logger *slog.Logger, reader func(root tree.Node) error) error {
	root, err := Decode(data)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}

	if err := reader(root); err != nil {
		return fmt.Errorf("read message: %w", err)
	}

	if err := tree.CheckForUnread(root); err != nil {
		var unread *tree.UnreadError
		if logger != nil && errors.As(err, &unread) {
			logger.Warn("rejecting message with unread content",
				"path", unread.Path.String(),
				"kind", unread.Kind.String(),
				"diagnostic", unread.Error(),
				"digest", capture.MessageDigest(data).String(),
			)
		}
		return err
	}
	return nil
}
