package buildinfo

import (
	"strings"
	"testing"
)

func TestStrings(t *testing.T) {
	if !strings.Contains(String(), "version: "+Version) {
		t.Errorf("String() = %q", String())
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version ") {
		t.Errorf("Template() = %q", Template())
	}
	if UserAgent() != "workcard/"+Version {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}
