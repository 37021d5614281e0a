package order

import (
	"errors"
	"testing"
	"time"
)

func TestValidate_MarketMinimalPasses(t *testing.T) {
	intent := Intent{
		Symbol:   "BTCUSDT",
		Side:     SideBuy,
		Type:     TypeMarket,
		Quantity: 0.001,
	}

	if err := Validate(intent); err != nil {
		t.Fatalf("minimal market intent should pass, got %v", err)
	}
}

func TestValidate_RequiredFieldsPerType(t *testing.T) {
	base := Intent{
		Symbol:   "BTCUSDT",
		Side:     SideSell,
		Quantity: 1,
	}

	cases := []struct {
		name      string
		mutate    func(*Intent)
		wantField string
	}{
		{
			name:      "limit without price",
			mutate:    func(i *Intent) { i.Type = TypeLimit },
			wantField: "price",
		},
		{
			name: "stop without stop price",
			mutate: func(i *Intent) {
				i.Type = TypeStop
				i.Price = 30000
			},
			wantField: "stop_price",
		},
		{
			name: "stop without price",
			mutate: func(i *Intent) {
				i.Type = TypeStop
				i.StopPrice = 29000
			},
			wantField: "price",
		},
		{
			name: "twap without slices",
			mutate: func(i *Intent) {
				i.Type = TypeTwap
				i.TwapInterval = time.Second
			},
			wantField: "twap_slices",
		},
		{
			name: "twap without interval",
			mutate: func(i *Intent) {
				i.Type = TypeTwap
				i.TwapSlices = 5
			},
			wantField: "twap_interval",
		},
		{
			name:      "empty symbol",
			mutate:    func(i *Intent) { i.Type = TypeMarket; i.Symbol = "  " },
			wantField: "symbol",
		},
		{
			name:      "zero quantity",
			mutate:    func(i *Intent) { i.Type = TypeMarket; i.Quantity = 0 },
			wantField: "quantity",
		},
		{
			name:      "negative quantity",
			mutate:    func(i *Intent) { i.Type = TypeMarket; i.Quantity = -0.5 },
			wantField: "quantity",
		},
		{
			name:      "unknown type",
			mutate:    func(i *Intent) { i.Type = Type("ICEBERG") },
			wantField: "type",
		},
		{
			name:      "unknown side",
			mutate:    func(i *Intent) { i.Type = TypeMarket; i.Side = Side("HOLD") },
			wantField: "side",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			intent := base
			tc.mutate(&intent)

			err := Validate(intent)
			if err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if vErr.Field != tc.wantField {
				t.Errorf("field mismatch: got %s want %s", vErr.Field, tc.wantField)
			}
		})
	}
}

func TestValidate_LimitAndStopComplete(t *testing.T) {
	limit := Intent{Symbol: "BTCUSDT", Side: SideBuy, Type: TypeLimit, Quantity: 0.01, Price: 30000}
	if err := Validate(limit); err != nil {
		t.Fatalf("complete limit intent should pass, got %v", err)
	}

	stop := Intent{Symbol: "BTCUSDT", Side: SideSell, Type: TypeStop, Quantity: 0.01, Price: 28000, StopPrice: 28500}
	if err := Validate(stop); err != nil {
		t.Fatalf("complete stop intent should pass, got %v", err)
	}
}

func TestParseSideAndType(t *testing.T) {
	if side, err := ParseSide("buy"); err != nil || side != SideBuy {
		t.Fatalf("ParseSide(buy) = %v, %v", side, err)
	}
	if side, err := ParseSide(" SELL "); err != nil || side != SideSell {
		t.Fatalf("ParseSide(SELL) = %v, %v", side, err)
	}
	if _, err := ParseSide("hold"); err == nil {
		t.Fatal("expected error for unknown side")
	}

	if typ, err := ParseType("twap"); err != nil || typ != TypeTwap {
		t.Fatalf("ParseType(twap) = %v, %v", typ, err)
	}
	if _, err := ParseType("iceberg"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
