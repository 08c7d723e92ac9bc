// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestCurrent(t *testing.T) {
	b := Current()
	if b.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", b.GoVersion, runtime.Version())
	}
	if b.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", b.Platform)
	}
	if b.Version == "" {
		t.Error("Version is empty")
	}
}

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "pii-scan "+Short()+" ") {
		t.Errorf("Info() = %q", info)
	}
	if !strings.Contains(info, "platform: "+runtime.GOOS) {
		t.Errorf("Info() missing platform: %q", info)
	}
}
