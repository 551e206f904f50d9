package domain

import "testing"

func TestOrderStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusPending, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	if got, ok := ParseOrderStatus("SHIPPED"); !ok || got != StatusShipped {
		t.Fatalf("expected SHIPPED to parse, got %q ok=%v", got, ok)
	}
	if _, ok := ParseOrderStatus("shipped"); ok {
		t.Fatalf("expected lowercase to be rejected")
	}
	if _, ok := ParseOrderStatus("RETURNED"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
}
