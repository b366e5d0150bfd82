package util_test

import (
	"bytes"
	"testing"

	"github.com/dnitsch/s3-credentials/internal/util"
	"github.com/stretchr/testify/assert"
)

func Test_InitLogger_levels(t *testing.T) {
	ttests := map[string]struct {
		verbose   bool
		expectMsg bool
	}{
		"quiet drops debug":   {verbose: false, expectMsg: false},
		"verbose keeps debug": {verbose: true, expectMsg: true},
	}
	for name, tt := range ttests {
		t.Run(name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			util.InitLogger(buf, tt.verbose)
			util.Debug("calling api", "operation", "GetUser")
			if tt.expectMsg {
				assert.Contains(t, buf.String(), "operation=GetUser")
			} else {
				assert.Empty(t, buf.String())
			}
			util.Warn("careful")
			assert.Contains(t, buf.String(), "careful")
		})
	}
}

func Test_Writeln(t *testing.T) {
	buf := &bytes.Buffer{}
	util.Writeln(buf, "Created user: %s", "s3.read-write.b")
	assert.Equal(t, "Created user: s3.read-write.b\n", buf.String())
}
