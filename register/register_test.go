package register

import "testing"

func TestPhysicalRegisterIdentity(t *testing.T) {
	r4 := R(4)
	if r4.IsVirtual() {
		t.Error("R(4) should not be virtual")
	}
	if r4.Slot() != 4 {
		t.Errorf("Slot() = %d, want 4", r4.Slot())
	}
	if r4.String() != "r4" {
		t.Errorf("String() = %q, want r4", r4.String())
	}
}

func TestVirtualRegisterEquality(t *testing.T) {
	var c IDCounter
	v1 := c.Next(GP)
	v2 := c.Next(GP)

	if v1.Equal(v2) {
		t.Error("two distinct virtual registers compared equal")
	}
	if !v1.Equal(v1) {
		t.Error("a virtual register should equal itself")
	}
	if v1.Bound() {
		t.Error("a freshly issued virtual register should not be bound")
	}
}

func TestKeyDistinguishesVirtualFromPhysicalWithSameID(t *testing.T) {
	var c IDCounter
	c.Next(GP) // issues virtual id 1; the virtual below is built directly with id 4
	virtual := Register{typ: GP, virtual: true, id: 4}
	physical := R(4)

	if virtual.Key() == physical.Key() {
		t.Error("virtual and physical registers with the same numeric id must have distinct Keys")
	}
}

func TestBindAssignsPhysicalBitboard(t *testing.T) {
	var c IDCounter
	v := c.Next(GP)
	bound := v.Bind(R(7).Bitboard())

	if !bound.Bound() {
		t.Error("Bind should mark the register bound")
	}
	if bound.Bitboard() != R(7).Bitboard() {
		t.Error("Bind should record the given physical bitboard")
	}
}

func TestConflictsRespectsBankAndOverlap(t *testing.T) {
	r4 := R(4)
	r5 := R(5)
	if r4.Conflicts(r5) {
		t.Error("r4 and r5 occupy disjoint slots and should not conflict")
	}
	if !r4.Conflicts(R(4)) {
		t.Error("a register should conflict with itself")
	}

	d0 := NewPhysical(D, 0, "d0")
	s1 := NewPhysical(S, 1, "s1")
	if d0.Conflicts(s1) {
		t.Error("registers from different banks should never conflict")
	}
}

func TestSlotBitboardWidth(t *testing.T) {
	bb := SlotBitboard(0, 2) // a D register spans two S slots
	if bb != 0b11 {
		t.Errorf("SlotBitboard(0, 2) = %b, want 0b11", bb)
	}
}

func TestIsLowIsHigh(t *testing.T) {
	if !IsLow(R(7)) || IsLow(R(8)) {
		t.Error("IsLow should hold for r0-r7 only")
	}
	if !IsHigh(R(8)) || IsHigh(R(7)) {
		t.Error("IsHigh should hold for r8-r15 only")
	}
}

func TestPanicsOnWrongKindAccess(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Slot() on a virtual register should panic")
		}
	}()
	var c IDCounter
	v := c.Next(GP)
	_ = v.Slot()
}
