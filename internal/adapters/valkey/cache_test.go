package valkey

import "testing"

func TestCacheKey(t *testing.T) {
	c := &Cache{prefix: "skysurvey"}
	if got := c.Key("paths:abc"); got != "skysurvey:paths:abc" {
		t.Errorf("unexpected key %q", got)
	}
	c.prefix = ""
	if got := c.Key("paths:abc"); got != "paths:abc" {
		t.Errorf("unexpected key %q", got)
	}
}
