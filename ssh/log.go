// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"io"

	"github.com/sirupsen/logrus"
)

// discardLogger is used whenever ClientConfig.Logger is nil, following
// the structured-logging convention of zgrab2's scanner modules
// (github.com/sirupsen/logrus throughout modules/*/scanner.go) without
// imposing any output on a caller who didn't ask for it.
var discardLogger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
