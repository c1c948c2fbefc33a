package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/orderlens/backend/internal/domain"
)

// recordingApplier collects apply calls and can fail specific controls.
type recordingApplier struct {
	applied map[string]string
	failRef string
}

func newRecordingApplier() *recordingApplier {
	return &recordingApplier{applied: make(map[string]string)}
}

func (a *recordingApplier) Apply(candidate *domain.FieldCandidate, value string, entry domain.FillPlanEntry) error {
	if candidate.ElementRef == a.failRef {
		return errors.New("element detached")
	}
	a.applied[candidate.ElementRef] = value
	return nil
}

func testRecord() *domain.ExtractedRecord {
	return &domain.ExtractedRecord{
		OrderID:    "ORD-123456",
		Price:      "$49.99",
		SellerName: "Acme Corp",
	}
}

func testCandidates() map[string][]domain.FieldCandidate {
	return map[string][]domain.FieldCandidate{
		"": {
			textInput("orderId", ""),
			textInput("price", ""),
			textInput("sellerName", ""),
		},
	}
}

func TestFill(t *testing.T) {
	mapper := NewMapperService(MapperConfig{})

	t.Run("fills every populated field with a match", func(t *testing.T) {
		applier := newRecordingApplier()
		service := NewFillService(mapper, applier, FillServiceConfig{})

		plan, outcome, err := service.Fill(context.Background(), testRecord(), testCandidates())
		if err != nil {
			t.Fatalf("Fill() error = %v", err)
		}
		if got := outcome.SuccessCount(); got != 3 {
			t.Errorf("SuccessCount() = %d, want 3", got)
		}
		if len(plan) != 3 {
			t.Errorf("plan has %d entries, want 3", len(plan))
		}
		if applier.applied["#orderId"] != "ORD-123456" {
			t.Errorf("applied[#orderId] = %q, want ORD-123456", applier.applied["#orderId"])
		}
	})

	t.Run("unmatched fields fail without blocking the rest", func(t *testing.T) {
		service := NewFillService(mapper, newRecordingApplier(), FillServiceConfig{})
		record := testRecord()
		record.TrackingNumber = "1Z999AA10123456784"
		record.CustomerEmail = "jo@example.com"

		_, outcome, err := service.Fill(context.Background(), record, testCandidates())
		if err != nil {
			t.Fatalf("Fill() error = %v", err)
		}
		if got := outcome.SuccessCount(); got != 3 {
			t.Errorf("SuccessCount() = %d, want 3", got)
		}
		for _, field := range []string{domain.FieldTrackingNumber, domain.FieldCustomerEmail} {
			result, ok := outcome[field]
			if !ok || result.Success {
				t.Errorf("outcome[%s] = %+v, want recorded failure", field, result)
			}
			if result.Reason != "no matching candidate" {
				t.Errorf("outcome[%s].Reason = %q", field, result.Reason)
			}
		}
	})

	t.Run("applier failure is isolated to its field", func(t *testing.T) {
		applier := newRecordingApplier()
		applier.failRef = "#price"
		service := NewFillService(mapper, applier, FillServiceConfig{})

		plan, outcome, err := service.Fill(context.Background(), testRecord(), testCandidates())
		if err != nil {
			t.Fatalf("Fill() error = %v", err)
		}
		if outcome[domain.FieldPrice].Success {
			t.Error("price outcome = success, want failure")
		}
		if outcome[domain.FieldPrice].Reason != "apply failed: element detached" {
			t.Errorf("price Reason = %q", outcome[domain.FieldPrice].Reason)
		}
		if !outcome[domain.FieldOrderID].Success || !outcome[domain.FieldSellerName].Success {
			t.Error("sibling fields should still succeed")
		}
		// The plan entry stays: mapping succeeded even though applying failed.
		if _, ok := plan[domain.FieldPrice]; !ok {
			t.Error("plan should keep the price entry")
		}
	})

	t.Run("is idempotent across repeated passes", func(t *testing.T) {
		service := NewFillService(mapper, nil, FillServiceConfig{})
		record := testRecord()
		candidates := testCandidates()

		plan1, outcome1, err1 := service.Fill(context.Background(), record, candidates)
		plan2, outcome2, err2 := service.Fill(context.Background(), record, candidates)
		if err1 != nil || err2 != nil {
			t.Fatalf("Fill() errors = %v, %v", err1, err2)
		}
		if !reflect.DeepEqual(plan1, plan2) {
			t.Errorf("plans differ:\n%+v\n%+v", plan1, plan2)
		}
		if !reflect.DeepEqual(outcome1, outcome2) {
			t.Errorf("outcomes differ:\n%+v\n%+v", outcome1, outcome2)
		}
	})

	t.Run("a claimed candidate is never reused by a later field", func(t *testing.T) {
		service := NewFillService(mapper, nil, FillServiceConfig{})
		// One generic control both fields substring-match, plus a worse
		// fallback only the second field can take.
		shared := domain.FieldCandidate{
			ElementRef: "#order", Name: "order",
			Kind: domain.KindTextInput, Visible: true,
		}
		fallback := domain.FieldCandidate{
			ElementRef: "#date_field", Name: "date_field",
			Label: "Order Date", Kind: domain.KindTextInput, Visible: true,
		}
		record := &domain.ExtractedRecord{OrderID: "ORD-1", OrderDate: "12 March 2024"}

		plan, _, err := service.Fill(context.Background(), record, map[string][]domain.FieldCandidate{
			"": {shared, fallback},
		})
		if err != nil {
			t.Fatalf("Fill() error = %v", err)
		}
		orderEntry, dateEntry := plan[domain.FieldOrderID], plan[domain.FieldOrderDate]
		if orderEntry.Candidate.ElementRef != "#order" {
			t.Errorf("orderId -> %q, want #order", orderEntry.Candidate.ElementRef)
		}
		if dateEntry.Candidate == nil || dateEntry.Candidate.ElementRef != "#date_field" {
			t.Errorf("orderDate -> %+v, want #date_field", dateEntry.Candidate)
		}
	})

	t.Run("per-field candidate lists override the shared pool", func(t *testing.T) {
		service := NewFillService(mapper, nil, FillServiceConfig{})
		candidates := testCandidates()
		candidates[domain.FieldOrderID] = []domain.FieldCandidate{textInput("", "order_id")}

		plan, _, err := service.Fill(context.Background(), testRecord(), candidates)
		if err != nil {
			t.Fatalf("Fill() error = %v", err)
		}
		if plan[domain.FieldOrderID].Candidate.ID != "order_id" {
			t.Errorf("orderId -> %+v, want #order_id", plan[domain.FieldOrderID].Candidate)
		}
	})

	t.Run("nil record is invalid input", func(t *testing.T) {
		service := NewFillService(mapper, nil, FillServiceConfig{})
		_, _, err := service.Fill(context.Background(), nil, nil)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("cancelled context stops the pass", func(t *testing.T) {
		service := NewFillService(mapper, nil, FillServiceConfig{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := service.Fill(ctx, testRecord(), testCandidates())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})

	t.Run("select match reports the option value as applied", func(t *testing.T) {
		service := NewFillService(mapper, nil, FillServiceConfig{})
		record := &domain.ExtractedRecord{ProductCategory: "Electronics"}
		candidates := map[string][]domain.FieldCandidate{
			"": {{
				ElementRef: "#category", Name: "productCategory",
				Kind: domain.KindSelect, Visible: true,
				Options: []domain.SelectOption{
					{Value: "electronics", Text: "Electronics"},
					{Value: "other", Text: "Other"},
				},
			}},
		}
		_, outcome, err := service.Fill(context.Background(), record, candidates)
		if err != nil {
			t.Fatalf("Fill() error = %v", err)
		}
		result := outcome[domain.FieldProductCategory]
		if !result.Success || result.AppliedValue != "electronics" {
			t.Errorf("outcome = %+v, want applied option value electronics", result)
		}
	})
}
