package execution

import (
	"math"
	"math/rand"
	"testing"
)

func toUnits(v float64) int64 {
	return int64(math.Round(v * quantityScale))
}

func TestSliceQuantities_SumEqualsTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		slices := 1 + rng.Intn(50)
		// 至少保证每片能分到一个最小单位。
		units := int64(slices) + rng.Int63n(10_000_000_000)
		quantity := float64(units) / quantityScale

		got, err := SliceQuantities(quantity, slices)
		if err != nil {
			t.Fatalf("SliceQuantities(%v, %d) returned error: %v", quantity, slices, err)
		}
		if len(got) != slices {
			t.Fatalf("expected %d slices, got %d", slices, len(got))
		}

		var sum int64
		for _, q := range got {
			if q <= 0 {
				t.Fatalf("non-positive slice quantity %v for total %v slices %d", q, quantity, slices)
			}
			sum += toUnits(q)
		}
		if sum != units {
			t.Fatalf("slice sum mismatch: total=%v slices=%d got=%d want=%d", quantity, slices, sum, units)
		}
	}
}

func TestSliceQuantities_EvenSplit(t *testing.T) {
	got, err := SliceQuantities(0.003, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0.001, 0.001, 0.001}
	for i := range want {
		if toUnits(got[i]) != toUnits(want[i]) {
			t.Errorf("slice %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestSliceQuantities_RemainderGoesToLastSlice(t *testing.T) {
	got, err := SliceQuantities(0.0005, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 50000 单位 / 3 = 16666 余 2，末片吸收余数。
	if toUnits(got[0]) != 16666 || toUnits(got[1]) != 16666 {
		t.Errorf("unexpected base slices: %v", got)
	}
	if toUnits(got[2]) != 16668 {
		t.Errorf("last slice should absorb remainder, got %v", got[2])
	}
}

func TestSliceQuantities_SingleSlice(t *testing.T) {
	got, err := SliceQuantities(0.123, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || toUnits(got[0]) != toUnits(0.123) {
		t.Fatalf("single slice must equal the total, got %v", got)
	}
}

func TestSliceQuantities_Errors(t *testing.T) {
	if _, err := SliceQuantities(1, 0); err == nil {
		t.Error("expected error for zero slices")
	}
	if _, err := SliceQuantities(1, -3); err == nil {
		t.Error("expected error for negative slices")
	}
	if _, err := SliceQuantities(0, 2); err == nil {
		t.Error("expected error for zero quantity")
	}
	if _, err := SliceQuantities(0.00000002, 3); err == nil {
		t.Error("expected error when quantity cannot cover every slice")
	}
}
