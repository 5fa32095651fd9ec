// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckLegalIgnoreAndDisconnectAlwaysLegal(t *testing.T) {
	for _, s := range []state{stateInitial, stateVersionDone, stateKexInFlight, stateOperational} {
		require.NoError(t, checkLegal(s, msgIgnore))
		require.NoError(t, checkLegal(s, msgDisconnect))
	}
}

func TestCheckLegalRejectsOutOfStatePacket(t *testing.T) {
	require.Error(t, checkLegal(stateOperational, msgKexDHGexGroup))
	require.Error(t, checkLegal(stateVersionDone, msgUserAuthRequest))
	require.Error(t, checkLegal(stateInitial, msgKexInit))
}

func TestCheckLegalAcceptsInStatePacket(t *testing.T) {
	require.NoError(t, checkLegal(stateVersionDone, msgKexInit))
	require.NoError(t, checkLegal(stateKexInFlight, msgKexDHGexGroup))
	require.NoError(t, checkLegal(stateOperational, msgUserAuthRequest))
}

func TestStateString(t *testing.T) {
	require.Equal(t, "Initial", stateInitial.String())
	require.Equal(t, "Operational", stateOperational.String())
	require.Equal(t, "Unknown", state(99).String())
}
