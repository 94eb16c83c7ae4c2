package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/bkocaman/stagehand/internal/core"
)

func TestUserAdapter_Apply_CreatesMissingUser(t *testing.T) {
	mockTransport := core.NewMockTransport()
	ctx := newTestContext(mockTransport)

	mockTransport.OnExecute("getent passwd appserver", "", errors.New("exit status 2"))
	mockTransport.OnExecute("useradd", "", nil)

	adapter := NewUserAdapter("appserver", map[string]interface{}{
		"group":         "appserver",
		"shell":         "/sbin/nologin",
		"system":        true,
		"create_home":   false,
		"password_hash": "$6$salt$hashedpassword",
	})

	result, err := adapter.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !result.Changed {
		t.Fatal("Expected Changed=true for missing user")
	}

	var useradd string
	for _, call := range mockTransport.Calls {
		if strings.HasPrefix(call, "useradd") {
			useradd = call
		}
	}
	for _, fragment := range []string{"-r", "-s /sbin/nologin", "-g appserver", "-p '$6$salt$hashedpassword'", " appserver"} {
		if !strings.Contains(useradd, fragment) {
			t.Errorf("useradd missing %q: %s", fragment, useradd)
		}
	}
	if strings.Contains(useradd, "-m") {
		t.Errorf("create_home=false must not pass -m: %s", useradd)
	}
}

func TestUserAdapter_Apply_IdempotentWhenPresent(t *testing.T) {
	mockTransport := core.NewMockTransport()
	ctx := newTestContext(mockTransport)

	mockTransport.OnExecute("getent passwd appserver", "appserver:x:990:990::/opt/appserver:/sbin/nologin", nil)

	adapter := NewUserAdapter("appserver", map[string]interface{}{"group": "appserver"})

	result, err := adapter.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if result.Changed {
		t.Fatal("Re-running against a provisioned host must produce no changes")
	}
	if mockTransport.AssertCalled("useradd") || mockTransport.AssertCalled("usermod") {
		t.Fatal("No account command may run when the user is converged")
	}
}

func TestUserAdapter_Apply_AppendsMissingGroups(t *testing.T) {
	mockTransport := core.NewMockTransport()
	ctx := newTestContext(mockTransport)

	mockTransport.OnExecute("getent passwd appserver", "appserver:x:990:990::/opt/appserver:/sbin/nologin", nil)
	mockTransport.OnExecute("id -Gn appserver", "appserver wheel", nil)
	mockTransport.OnExecute("usermod", "", nil)

	adapter := NewUserAdapter("appserver", map[string]interface{}{
		"groups": []interface{}{"wheel", "deploy"},
	})

	result, err := adapter.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !result.Changed {
		t.Fatal("Expected Changed=true when a supplementary group is missing")
	}
	if !mockTransport.AssertCalled("usermod -aG deploy appserver") {
		t.Fatalf("usermod not called for missing group, calls: %v", mockTransport.Calls)
	}
}

func TestUserAdapter_Validate_RejectsPlaintextPassword(t *testing.T) {
	adapter := NewUserAdapter("appserver", map[string]interface{}{"password_hash": "hunter2"})
	if err := adapter.Validate(newTestContext(core.NewMockTransport())); err == nil {
		t.Fatal("Expected validation error for plaintext password")
	}
}
