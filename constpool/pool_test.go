package constpool

import "testing"

func TestInternDedupesIdenticalConstants(t *testing.T) {
	p := New()
	a := p.Intern(Constant{Bytes: []byte{1, 2, 3, 4}, Size: 4, Repeat: 1, Alignment: 4})
	b := p.Intern(Constant{Bytes: []byte{1, 2, 3, 4}, Size: 4, Repeat: 1, Alignment: 4})

	if a != b {
		t.Error("interning the same value twice should return the same *Constant")
	}
	if a.Label() != "c0" {
		t.Errorf("Label() = %q, want c0", a.Label())
	}
}

func TestInternAssignsDistinctLabels(t *testing.T) {
	p := New()
	a := p.Intern(Constant{Bytes: []byte{1}, Size: 1, Repeat: 1, Alignment: 1})
	b := p.Intern(Constant{Bytes: []byte{2}, Size: 1, Repeat: 1, Alignment: 1})

	if a.Label() == b.Label() {
		t.Error("distinct values should get distinct labels")
	}
}

func TestBucketsGroupByAlignmentDescending(t *testing.T) {
	p := New()
	p.Intern(Constant{Bytes: []byte{1}, Size: 1, Repeat: 1, Alignment: 1})
	p.Intern(Constant{Bytes: []byte{1, 2, 3, 4}, Size: 4, Repeat: 1, Alignment: 4})

	buckets := p.Buckets()
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Alignment != 4 || buckets[1].Alignment != 1 {
		t.Errorf("expected alignment-descending order, got %d then %d", buckets[0].Alignment, buckets[1].Alignment)
	}
}

func TestPlaceOpensNewBucketOnOverflow(t *testing.T) {
	p := New()
	big := Constant{Bytes: make([]byte, bucketCapacity), Size: bucketCapacity, Repeat: 1, Alignment: 4}
	p.Intern(big)
	p.Intern(Constant{Bytes: []byte{9, 9, 9, 9}, Size: 4, Repeat: 1, Alignment: 4})

	bs := p.buckets[4]
	if len(bs) != 2 {
		t.Fatalf("expected a second bucket once capacity overflows, got %d buckets", len(bs))
	}
}

func TestEmptyReportsNoInternedConstants(t *testing.T) {
	p := New()
	if !p.Empty() {
		t.Error("a fresh pool should be empty")
	}
	p.Intern(Constant{Bytes: []byte{1}, Size: 1, Repeat: 1, Alignment: 1})
	if p.Empty() {
		t.Error("a pool with an interned constant should not be empty")
	}
}
