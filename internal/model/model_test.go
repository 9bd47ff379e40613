package model

import "testing"

func TestRoleFromID(t *testing.T) {
	cases := map[int]Role{
		1:   RoleAdmin,
		2:   RoleTeacher,
		3:   RoleStudent,
		0:   RoleUnknown,
		4:   RoleUnknown,
		-1:  RoleUnknown,
		999: RoleUnknown,
	}
	for id, expect := range cases {
		if role := RoleFromID(id); role != expect {
			t.Fatalf("id %d: expected %s, got %s", id, expect, role)
		}
	}
}

func TestParseRoleRoundTrip(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleTeacher, RoleStudent} {
		if parsed := ParseRole(role.String()); parsed != role {
			t.Fatalf("expected %s to round-trip, got %s", role, parsed)
		}
	}
	if ParseRole("nonsense") != RoleUnknown {
		t.Fatalf("expected unrecognized value to parse as RoleUnknown")
	}
	if ParseRole(RoleUnknown.String()) != RoleUnknown {
		t.Fatalf("expected unknown to parse as RoleUnknown")
	}
}
