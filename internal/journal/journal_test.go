package journal

import (
	"encoding/json"
	"testing"

	"orderbot/internal/config"
	"orderbot/internal/order"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(config.DatabaseConfig{InMemory: true})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := j.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return j
}

func TestJournal_RecordAndRecent(t *testing.T) {
	j := openTestJournal(t)

	intent := order.Intent{
		Symbol:   "BTCUSDT",
		Side:     order.SideBuy,
		Type:     order.TypeLimit,
		Quantity: 0.01,
		Price:    30000,
	}
	raw, _ := json.Marshal(map[string]interface{}{"orderId": 7})

	if err := j.Record(intent, 0, order.Result{Success: true, OrderID: "7", Raw: raw}); err != nil {
		t.Fatalf("Record success entry: %v", err)
	}
	if err := j.Record(intent, 2, order.Result{Success: false, Err: "rejected"}); err != nil {
		t.Fatalf("Record failure entry: %v", err)
	}

	entries, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// 倒序：最后写入的在前。
	failed := entries[0]
	if failed.Success || failed.Error != "rejected" || failed.SliceIndex != 2 {
		t.Errorf("unexpected failure entry: %+v", failed)
	}

	ok := entries[1]
	if !ok.Success || ok.OrderID != "7" || ok.Symbol != "BTCUSDT" {
		t.Errorf("unexpected success entry: %+v", ok)
	}
	if ok.Type != string(order.TypeLimit) || ok.Price != 30000 {
		t.Errorf("intent fields not persisted: %+v", ok)
	}
	if ok.CreatedAt.IsZero() {
		t.Error("created_at not persisted")
	}
}

func TestJournal_RecentLimit(t *testing.T) {
	j := openTestJournal(t)

	intent := order.Intent{Symbol: "ETHUSDT", Side: order.SideSell, Type: order.TypeMarket, Quantity: 1}
	for i := 0; i < 5; i++ {
		if err := j.Record(intent, i+1, order.Result{Success: true, OrderID: "x"}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := j.Recent(3)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].SliceIndex != 5 {
		t.Errorf("expected newest entry first, got slice %d", entries[0].SliceIndex)
	}
}
